package credential

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// FileStore keeps the credential in a file only readable by its owner.
type FileStore struct {
	path  string
	mutex sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Token(context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", s.path)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileStore) SetToken(_ context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(s.path))
	}
	return errors.Wrapf(os.WriteFile(s.path, []byte(token), 0o600), "writing %s", s.path)
}

func (s *FileStore) ClearToken(context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", s.path)
	}
	return nil
}
