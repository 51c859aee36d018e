package widget

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DraftStore persists a lead draft between visits so a returning user
// doesn't re-type their details. Purely a convenience; failures are
// logged and ignored.
type DraftStore interface {
	Load() (map[string]string, error)
	Save(fields map[string]string) error
}

// FileDraftStore keeps the draft as a small JSON file, the widget's
// analogue of browser local storage.
type FileDraftStore struct {
	path string
}

// NewFileDraftStore creates a file-backed draft store at path.
func NewFileDraftStore(path string) *FileDraftStore {
	return &FileDraftStore{path: path}
}

// Load reads the saved draft. A missing file is not an error.
func (s *FileDraftStore) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read lead draft: %w", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		// A corrupt draft is discarded, never surfaced.
		return nil, nil
	}
	return fields, nil
}

// Save writes the draft, creating the parent directory if needed.
func (s *FileDraftStore) Save(fields map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create draft directory: %w", err)
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode lead draft: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write lead draft: %w", err)
	}
	return nil
}
