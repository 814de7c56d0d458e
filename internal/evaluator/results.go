// Package evaluator implements the local mock evaluation server.
// This file provides the result store that persists evaluation records.
package evaluator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/satchel-dev/satchel/internal/clock"
)

// stampLayout is the compact UTC timestamp used in result file names and
// the received_at field.
const stampLayout = "20060102T150405Z"

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Kind names an evaluation category.
type Kind string

// Evaluation kinds supported by the server.
const (
	KindStatic  Kind = "static"
	KindDynamic Kind = "dynamic"
	KindLLM     Kind = "llm"
)

// Check is a single named pass/fail check in a static evaluation.
type Check struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`
}

// RubricItem is a single scored criterion in an LLM evaluation.
type RubricItem struct {
	Criterion string `json:"criterion"`
	Score     int    `json:"score"`
}

// Result is a persisted evaluation record.
type Result struct {
	ID         string         `json:"id"`
	Kind       Kind           `json:"kind"`
	ReceivedAt string         `json:"received_at"`
	SHA        string         `json:"sha"`
	PagesURL   string         `json:"pages_url"`
	Checks     []Check        `json:"checks,omitempty"`
	Metrics    map[string]int `json:"metrics,omitempty"`
	Rubric     []RubricItem   `json:"rubric,omitempty"`
	Score      int            `json:"score"`
}

// ResultStore persists evaluation results as JSON files, one per
// evaluation, named <stamp>__<kind>__<sha>.json.
type ResultStore struct {
	dir   string
	clock clock.Clock
}

// NewResultStore creates a ResultStore writing into dir.
// A nil clk uses the real time.
func NewResultStore(dir string, clk clock.Clock) *ResultStore {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &ResultStore{dir: dir, clock: clk}
}

// Dir returns the results directory.
func (s *ResultStore) Dir() string {
	return s.dir
}

// Stamp returns the current UTC timestamp in the result stamp format.
func (s *ResultStore) Stamp() string {
	return s.clock.Now().UTC().Format(stampLayout)
}

// Save assigns the result an ID and timestamp and writes it to disk.
// The saved file path is returned.
func (s *ResultStore) Save(result *Result) (string, error) {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	result.ID = uuid.NewString()
	result.ReceivedAt = s.Stamp()

	sha := result.SHA
	if sha == "" {
		sha = "no_sha"
	}
	name := fmt.Sprintf("%s__%s__%s.json", result.ReceivedAt, result.Kind, sha)
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), filePerm); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}
	return path, nil
}

// List returns the file names of all stored results, sorted by name.
// The stamp prefix makes lexical order chronological.
func (s *ResultStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
