// Package state provides persistence for per-project submission state.
// This package implements the storage layer under .satchel/state,
// with atomic writes for data integrity.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/satchel-dev/satchel/internal/constants"
	"github.com/satchel-dev/satchel/internal/ctxutil"
	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
	"github.com/satchel-dev/satchel/internal/flock"
	"github.com/satchel-dev/satchel/internal/sre"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750 // Secure directory permissions
	filePerm = 0o600 // Secure file permissions
)

// Store persists submission state files under a project-local state directory.
type Store struct {
	dir string // Usually <project>/.satchel/state
}

// NewStore creates a Store rooted at the given project directory.
// State files live under <projectRoot>/.satchel/state.
func NewStore(projectRoot string) *Store {
	return &Store{
		dir: filepath.Join(projectRoot, constants.SatchelHome, constants.StateDir),
	}
}

// Dir returns the state directory path.
func (s *Store) Dir() string {
	return s.dir
}

// AcceptedEnvelopePath returns the path of the accepted envelope file.
func (s *Store) AcceptedEnvelopePath() string {
	return filepath.Join(s.dir, constants.AcceptedEnvelopeFileName)
}

// LastNotifyPath returns the path of the last notification payload file.
func (s *Store) LastNotifyPath() string {
	return filepath.Join(s.dir, constants.LastNotifyFileName)
}

// SaveAcceptedEnvelope persists a verified envelope document.
// The raw document is stored as indented JSON so it remains human-readable
// and diff-friendly; number literals are preserved as decoded.
func (s *Store) SaveAcceptedEnvelope(ctx context.Context, raw map[string]any) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("failed to save envelope: %w", satchelerrors.ErrEnvelopeNotObject)
	}

	data, err := marshalIndent(raw)
	if err != nil {
		return fmt.Errorf("failed to save envelope: %w", err)
	}
	return s.write(s.AcceptedEnvelopePath(), data)
}

// LoadAcceptedEnvelope reads the previously accepted envelope document.
// Returns ErrStateNotFound if no envelope has been accepted.
func (s *Store) LoadAcceptedEnvelope(ctx context.Context) (map[string]any, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	path := s.AcceptedEnvelopePath()
	data, err := os.ReadFile(path) //#nosec G304 -- path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no accepted envelope at %s: %w", path, satchelerrors.ErrStateNotFound)
		}
		return nil, fmt.Errorf("failed to read accepted envelope: %w", err)
	}

	// Decode through the envelope decoder so number literals survive a
	// round trip and the document can be re-verified byte-for-byte.
	raw, err := sre.DecodeEnvelope(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode accepted envelope: %w", err)
	}
	return raw, nil
}

// SaveLastNotify persists the most recent notification payload.
// The CLI writes this after both successful and failed deliveries so a
// failed notification can be retried later.
func (s *Store) SaveLastNotify(ctx context.Context, payload any) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	data, err := marshalIndent(payload)
	if err != nil {
		return fmt.Errorf("failed to save notify payload: %w", err)
	}
	return s.write(s.LastNotifyPath(), data)
}

// LoadLastNotify reads the most recent notification payload into dst.
// Returns ErrStateNotFound if no notification has been recorded.
func (s *Store) LoadLastNotify(ctx context.Context, dst any) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	path := s.LastNotifyPath()
	data, err := os.ReadFile(path) //#nosec G304 -- path is constructed internally
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no notify payload at %s: %w", path, satchelerrors.ErrStateNotFound)
		}
		return fmt.Errorf("failed to read notify payload: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode notify payload: %w", err)
	}
	return nil
}

// write creates the state directory if needed and writes data atomically.
// A non-blocking exclusive lock on the state directory's lock file guards
// against concurrent satchel invocations clobbering each other.
func (s *Store) write(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	lockPath := filepath.Join(s.dir, constants.StateLockFileName)
	lockFile, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to open state lock: %w", err)
	}
	defer func() { _ = lockFile.Close() }()

	if err := flock.Exclusive(lockFile.Fd()); err != nil {
		return fmt.Errorf("state directory is in use by another process: %w", err)
	}
	defer func() { _ = flock.Unlock(lockFile.Fd()) }()

	return atomicWrite(path, data)
}

// marshalIndent marshals v as indented JSON with a trailing newline.
func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// atomicWrite writes data to path via a temp file and rename.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Sync before rename so the data is durable once the name appears.
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
