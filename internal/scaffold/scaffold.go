// Package scaffold creates the initial submission repository layout:
// an MIT license, a Makefile, a .gitignore, and a tiny web page that
// GitHub Pages can serve. All files are embedded at compile time.
package scaffold

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/satchel-dev/satchel/internal/clock"
	"github.com/satchel-dev/satchel/internal/ctxutil"
)

//go:embed templates/gitignore templates/license.tmpl templates/Makefile templates/index.html
var templateFS embed.FS

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Options controls scaffold generation.
type Options struct {
	// LicenseHolder is the copyright holder written into the LICENSE file.
	LicenseHolder string

	// Clock supplies the current year for the LICENSE file.
	// A nil Clock uses the real time.
	Clock clock.Clock
}

// Result reports which files the scaffold created and which already existed.
type Result struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// Apply creates the scaffold layout under root. Existing files are never
// overwritten, so Apply is safe to run repeatedly.
func Apply(ctx context.Context, root string, opts Options) (*Result, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if opts.LicenseHolder == "" {
		opts.LicenseHolder = "The Repository Authors"
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}

	for _, dir := range []string{"app", "docs"} {
		if err := os.MkdirAll(filepath.Join(root, dir), dirPerm); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}

	license, err := renderLicense(opts.LicenseHolder, opts.Clock.Now())
	if err != nil {
		return nil, err
	}

	files := []struct {
		path    string
		content []byte
	}{
		{".gitignore", mustRead("templates/gitignore")},
		{"LICENSE", license},
		{"Makefile", mustRead("templates/Makefile")},
		{filepath.Join("app", "index.html"), mustRead("templates/index.html")},
	}

	var res Result
	for _, f := range files {
		created, err := writeIfMissing(filepath.Join(root, f.path), f.content)
		if err != nil {
			return nil, err
		}
		if created {
			res.Created = append(res.Created, f.path)
		} else {
			res.Skipped = append(res.Skipped, f.path)
		}
	}
	return &res, nil
}

// renderLicense fills the MIT license template with year and holder.
func renderLicense(holder string, now time.Time) ([]byte, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/license.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse license template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		Year   int
		Holder string
	}{Year: now.Year(), Holder: holder}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render license: %w", err)
	}
	return buf.Bytes(), nil
}

// writeIfMissing writes content to path unless the file already exists.
// Returns true if the file was created.
func writeIfMissing(path string, content []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, content, filePerm); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// mustRead reads an embedded file. Embedded reads cannot fail at runtime.
func mustRead(name string) []byte {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to read embedded file %s: %v", name, err))
	}
	return data
}
