package adapter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type localPictureStore struct {
	dir       string
	urlPrefix string
}

// NewLocalPictureStore keeps pictures in dir; the router serves dir under urlPrefix.
func NewLocalPictureStore(dir, urlPrefix string) (PictureStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create picture dir: %w", err)
	}
	return &localPictureStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *localPictureStore) Put(ctx context.Context, name, _ string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *localPictureStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete picture: %w", err)
	}
	return nil
}

func (s *localPictureStore) URL(name string) string {
	return s.urlPrefix + "/" + name
}

// path rejects names that would escape dir.
func (s *localPictureStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid picture name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
