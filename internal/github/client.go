// Package github provides repository bootstrap and Pages deployment for Satchel.
// This file implements the REST API client used for repo creation and Pages.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// DefaultAPIBaseURL is the GitHub REST API endpoint.
const DefaultAPIBaseURL = "https://api.github.com"

// userAgent identifies Satchel to the GitHub API.
const userAgent = "satchel-student-agent"

// Client is a minimal GitHub REST API client covering the operations
// Satchel needs: repository lookup/creation and Pages provisioning.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used for testing.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a GitHub API client authenticated with token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultAPIBaseURL,
		token:      token,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repo describes a GitHub repository as returned by the API.
type Repo struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
	HTMLURL  string `json:"html_url"`
}

// PagesSite describes a GitHub Pages site as returned by the API.
type PagesSite struct {
	URL    string `json:"html_url"`
	Status string `json:"status"`
}

// CreateRepoIfMissing returns the repository owner/repo, creating it under
// the authenticated user when it does not exist. Submission repositories
// are public so GitHub Pages can serve them.
func (c *Client) CreateRepoIfMissing(ctx context.Context, owner, repo string) (*Repo, error) {
	var existing Repo
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, repo), nil, &existing)
	if err != nil {
		return nil, err
	}
	if status == http.StatusOK {
		return &existing, nil
	}
	if status != http.StatusNotFound {
		return nil, fmt.Errorf("failed to check repo %s/%s: status %d: %w",
			owner, repo, status, satchelerrors.ErrGitHubOperation)
	}

	payload := map[string]any{
		"name":         repo,
		"private":      false,
		"has_issues":   true,
		"has_projects": false,
		"has_wiki":     false,
	}
	var created Repo
	status, err = c.do(ctx, http.MethodPost, "/user/repos", payload, &created)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated && status != http.StatusAccepted {
		return nil, fmt.Errorf("failed to create repo %s: status %d: %w",
			repo, status, satchelerrors.ErrGitHubOperation)
	}
	return &created, nil
}

// EnablePages provisions a GitHub Pages site serving branch/<buildDir>.
// Creation is attempted first; if the site already exists (or the create
// endpoint rejects the call), the configuration is updated instead.
func (c *Client) EnablePages(ctx context.Context, owner, repo, branch, buildDir string) (*PagesSite, error) {
	payload := map[string]any{
		"source": map[string]any{
			"branch": branch,
			"path":   "/" + buildDir,
		},
	}
	path := fmt.Sprintf("/repos/%s/%s/pages", owner, repo)

	var site PagesSite
	status, err := c.do(ctx, http.MethodPost, path, payload, &site)
	if err != nil {
		return nil, err
	}
	if status == http.StatusCreated || status == http.StatusAccepted {
		return &site, nil
	}

	// Existing sites answer the create call with a conflict-class status.
	switch status {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
		status, err = c.do(ctx, http.MethodPut, path, payload, &site)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK && status != http.StatusCreated && status != http.StatusAccepted {
			return nil, fmt.Errorf("failed to update pages config for %s/%s: status %d: %w",
				owner, repo, status, satchelerrors.ErrGitHubOperation)
		}
		return &site, nil
	default:
		return nil, fmt.Errorf("pages API error for %s/%s: status %d: %w",
			owner, repo, status, satchelerrors.ErrGitHubOperation)
	}
}

// PagesURL returns the public URL of the Pages site. A custom domain
// takes precedence over the default github.io address.
func PagesURL(owner, repo, cname string) string {
	if cname != "" {
		return fmt.Sprintf("https://%s/", cname)
	}
	return fmt.Sprintf("https://%s.github.io/%s/", owner, repo)
}

// do issues an authenticated API request and decodes the JSON response
// into out when a body is present. The HTTP status is always returned so
// callers can branch on it.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("github request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		// Error responses carry a different shape; ignore decode failures
		// so callers can report the status instead.
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if readErr != nil {
			return resp.StatusCode, fmt.Errorf("failed to read response: %w", readErr)
		}
		if len(data) > 0 {
			_ = json.Unmarshal(data, out)
		}
	}
	return resp.StatusCode, nil
}
