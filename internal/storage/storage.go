// Package storage keeps invitation images in a named bucket and hands out
// their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const DefaultBucket = "invites"

var ErrObjectNotFound = errors.New("object not found")

type Bucket interface {
	// Upload stores data under name, replacing an existing object.
	Upload(ctx context.Context, name string, data []byte, contentType string) error
	Download(ctx context.Context, name string) ([]byte, error)
	PublicURL(name string) string
}

// NewObjectName is the file name of a freshly composed invitation.
func NewObjectName() string {
	return uuid.NewString() + ".jpg"
}

// PublicURL resolves a stored invitation path. Absolute URLs pass through.
func PublicURL(b Bucket, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return b.PublicURL(path)
}

// FSBucket stores objects as files under Dir/Name and serves them from
// PublicBase/Name.
type FSBucket struct {
	Dir        string
	Name       string
	PublicBase string
}

func NewFSBucket(dir, name, publicBase string) (*FSBucket, error) {
	if name == "" {
		name = DefaultBucket
	}
	b := &FSBucket{Dir: dir, Name: name, PublicBase: strings.TrimRight(publicBase, "/")}
	if err := os.MkdirAll(b.root(), os.ModePerm); err != nil {
		return nil, fmt.Errorf("create bucket dir: %w", err)
	}
	return b, nil
}

func (b *FSBucket) root() string {
	return filepath.Join(b.Dir, b.Name)
}

func (b *FSBucket) path(name string) (string, error) {
	clean := filepath.Base(name)
	if clean != name || clean == "." || clean == ".." {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(b.root(), clean), nil
}

func (b *FSBucket) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := b.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.root(), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close object: %w", err)
	}
	return os.Rename(tmp.Name(), p)
}

func (b *FSBucket) Download(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := b.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (b *FSBucket) PublicURL(name string) string {
	return b.PublicBase + "/" + b.Name + "/" + name
}

// Root is the directory the HTTP layer serves under PublicBase.
func (b *FSBucket) Root() string {
	return b.root()
}
