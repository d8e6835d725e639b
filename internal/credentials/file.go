package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// FileStore persists credentials to a single JSON file. Writes go through a
// temp file and rename so a crash mid-write never leaves a torn file.
type FileStore struct {
	mu   sync.Mutex
	path string
	data fileData
}

type fileData struct {
	AccessToken  string   `json:"access_token,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	Session      *Session `json:"session,omitempty"`
}

// NewFileStore opens (or creates) a file-backed store at path. The parent
// directory is created when missing.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("credentials: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("credentials: create directory: %w", err)
	}

	fs := &FileStore{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Fresh store.
	case err != nil:
		return nil, fmt.Errorf("credentials: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(raw, &fs.data); err != nil {
			return nil, fmt.Errorf("credentials: parse %s: %w", path, err)
		}
	}

	return fs, nil
}

func (f *FileStore) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.AccessToken
}

func (f *FileStore) RefreshToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.RefreshToken
}

func (f *FileStore) SetTokens(access, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.AccessToken = access
	if refresh != "" {
		f.data.RefreshToken = refresh
	}
	return f.persist()
}

func (f *FileStore) Session() (Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data.Session == nil {
		return Session{}, false
	}
	return *f.data.Session, true
}

func (f *FileStore) SetSession(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.Session = &s
	return f.persist()
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = fileData{}
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("credentials: clear %s: %w", f.path, err)
	}
	return nil
}

// persist writes the current state atomically. Caller holds f.mu.
func (f *FileStore) persist() error {
	b, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("credentials: marshal: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("credentials: write temp file: %w", err)
	}

	if err := os.Rename(tmp, f.path); err == nil {
		return nil
	}

	defer os.Remove(tmp)

	if runtime.GOOS == "windows" {
		_ = os.Remove(f.path)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("credentials: replace %s: %w", f.path, err)
	}
	return nil
}
