package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/angelmondragon/storyboard-backend/pkg/storage"
)

// Storage writes blobs under a root directory of an afero filesystem.
type Storage struct {
	fs   afero.Fs
	root string
}

var _ storage.Blob = (*Storage)(nil)

// New wraps fs; locations are reported relative to root.
func New(fs afero.Fs, root string) (*Storage, error) {
	if fs == nil {
		return nil, errors.New("filesystem required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir %q: %w", root, err)
	}
	return &Storage{fs: fs, root: root}, nil
}

// NewOS stores blobs on the host filesystem.
func NewOS(root string) (*Storage, error) {
	return New(afero.NewOsFs(), root)
}

func (s *Storage) Put(ctx context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "..") || path.IsAbs(key) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	if body == nil {
		return "", errors.New("blob body required")
	}

	location := path.Join(s.root, key)
	if err := afero.WriteReader(s.fs, location, body); err != nil {
		return "", fmt.Errorf("write blob %q: %w", location, err)
	}
	return location, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ok, err := afero.DirExists(s.fs, s.root)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("media dir %q missing", s.root)
	}
	return nil
}
