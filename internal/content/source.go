// Package content fetches raw wiki markdown by content location.
//
// A content location is the URL path the wiki front-end serves a page from,
// e.g. "/content/users/getting-started.md". Implementations:
//   - FSSource: an fs.FS rooted at the site root (embedded docs or a local checkout)
//   - HTTPSource: a deployed wiki site
//   - MockSource: in-memory documents for tests
package content

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound is returned when a content location does not exist
var ErrNotFound = errors.New("content not found")

// Source fetches the raw markdown stored at a content location.
// Failures are reported as errors; a non-success status is a *StatusError.
type Source interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// StatusError reports a non-success response for a content location
type StatusError struct {
	Location   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: status %d", e.Location, e.StatusCode)
}

// fsPath converts a content location into a slash-separated fs.FS path.
// Cleaning against "/" keeps ".." segments from escaping the root.
func fsPath(location string) string {
	return strings.TrimPrefix(path.Clean("/"+location), "/")
}
