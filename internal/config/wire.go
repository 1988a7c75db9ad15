package config

import (
	"fmt"
	"io"
	"net/http"

	"github.com/omnieconomy/wiki-mcp/internal/content"
	"github.com/omnieconomy/wiki-mcp/internal/recent"
)

// NewSource builds the configured content source
func (c *Config) NewSource() (content.Source, error) {
	switch c.Content.Source {
	case SourceDir:
		return content.NewDirSource(c.Content.Dir)
	case SourceHTTP:
		return content.NewHTTPSource(c.Content.BaseURL, &http.Client{Timeout: c.Content.Timeout.Duration}), nil
	case SourceEmbedded:
		return content.NewEmbeddedSource(), nil
	}
	return nil, fmt.Errorf("%w: unknown content.source %q", ErrInvalidConfig, c.Content.Source)
}

// OpenStore opens the configured key-value store for recent searches.
// The returned closer releases it.
func (c *Config) OpenStore() (recent.KV, io.Closer, error) {
	switch c.Store.Driver {
	case DriverMemory:
		return recent.NewMemoryKV(), nopCloser{}, nil
	case DriverSQLite:
		kv, err := recent.OpenSQLite(c.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown store.driver %q", ErrInvalidConfig, c.Store.Driver)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
