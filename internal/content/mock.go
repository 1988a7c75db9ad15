package content

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// MockSource implements Source for testing.
// It serves in-memory documents and can be told to fail or block specific locations.
type MockSource struct {
	mu       sync.Mutex
	docs     map[string]string
	failures map[string]error
	gate     chan struct{}

	fetches atomic.Int64
}

// NewMockSource creates an empty mock source
func NewMockSource() *MockSource {
	return &MockSource{
		docs:     make(map[string]string),
		failures: make(map[string]error),
	}
}

// AddDocument serves markdown at location
func (m *MockSource) AddDocument(location, markdown string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[location] = markdown
}

// FailWith makes every fetch of location return err
func (m *MockSource) FailWith(location string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[location] = err
}

// FailWithStatus makes every fetch of location return a *StatusError
func (m *MockSource) FailWithStatus(location string, status int) {
	m.FailWith(location, &StatusError{Location: location, StatusCode: status})
}

// Block makes fetches wait until the returned release func is called
func (m *MockSource) Block() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.gate = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Fetches returns the number of Fetch calls made so far
func (m *MockSource) Fetches() int {
	return int(m.fetches.Load())
}

// Fetch returns the document registered at location
func (m *MockSource) Fetch(ctx context.Context, location string) (string, error) {
	m.fetches.Add(1)

	m.mu.Lock()
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failures[location]; ok {
		return "", err
	}
	doc, ok := m.docs[location]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, location)
	}
	return doc, nil
}
