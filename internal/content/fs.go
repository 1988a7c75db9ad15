package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/omnieconomy/wiki-mcp/docs"
)

// FSSource reads content locations from a filesystem rooted at the wiki site root
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source backed by fsys
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewEmbeddedSource creates the production source backed by the markdown compiled into the binary
func NewEmbeddedSource() *FSSource {
	return NewFSSource(docs.FS)
}

// Fetch reads the document at location
func (s *FSSource) Fetch(ctx context.Context, location string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := fs.ReadFile(s.fsys, fsPath(location))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		return "", fmt.Errorf("failed to read %s: %w", location, err)
	}
	return string(data), nil
}

// DirSource reads content from a local checkout of the wiki site
type DirSource struct {
	*FSSource
	root string
}

// NewDirSource creates a source rooted at dir. dir must contain the content/ tree.
func NewDirSource(dir string) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path %s is not a directory", dir)
	}
	return &DirSource{FSSource: NewFSSource(os.DirFS(dir)), root: dir}, nil
}

// Root returns the directory the source reads from
func (s *DirSource) Root() string {
	return s.root
}
