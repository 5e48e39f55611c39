package cartsync

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// IDStore persists the opaque cart identifier between sessions. It is the only
// client-side persisted cart state; line and price data is always refetched.
type IDStore interface {
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// FileStore keeps the cart identifier in a single file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (string, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	id := strings.TrimSpace(string(raw))
	if id == "" {
		return "", false, nil
	}
	return id, true, nil
}

func (s *FileStore) Save(_ context.Context, id string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(id+"\n"), 0o600)
}

func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
