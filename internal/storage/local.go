package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores images in a directory on disk
type Local struct {
	dir    string // filesystem directory
	prefix string // slash form of dir used in stored paths
}

var _ Store = (*Local)(nil)

// NewLocal creates dir if needed and returns a store rooted at it
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{
		dir:    filepath.Clean(dir),
		prefix: path.Clean(filepath.ToSlash(dir)),
	}, nil
}

// Save writes the file and returns "<dir>/<name>"
func (l *Local) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if name == "" || name != path.Base(name) || strings.ContainsRune(name, filepath.Separator) {
		return "", ErrInvalidPath
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.OpenFile(filepath.Join(l.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path.Join(l.prefix, name), nil
}

// Remove deletes a file previously returned by Save
func (l *Local) Remove(ctx context.Context, p string) error {
	name, ok := l.nameOf(p)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

// Handler serves stored files. urlPrefix is stripped from request paths.
func (l *Local) Handler(urlPrefix string) http.Handler {
	return http.StripPrefix(urlPrefix, http.FileServer(noDirFS{http.Dir(l.dir)}))
}

func (l *Local) nameOf(p string) (string, bool) {
	p = path.Clean(filepath.ToSlash(p))
	dir, name := path.Split(p)
	if path.Clean(dir) != l.prefix || name == "" || name == "." || name == ".." {
		return "", false
	}
	return name, true
}

// noDirFS hides directory listings
type noDirFS struct {
	fs http.FileSystem
}

func (n noDirFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
