package assets

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemorySink keeps assets in a map. Setting Err makes every Store fail.
type MemorySink struct {
	Prefix string
	Err    error

	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ Sink = (*MemorySink)(nil)

func NewMemorySink(prefix string) *MemorySink {
	return &MemorySink{Prefix: prefix, blobs: map[string][]byte{}}
}

func (s *MemorySink) Name() string { return "memory" }

func (s *MemorySink) Store(ctx context.Context, data []byte, originalFilename string) (string, error) {
	name := GenerateName(originalFilename)
	if s.Err != nil {
		return "", &WriteError{Op: "store", Name: name, Err: s.Err}
	}
	if err := ctx.Err(); err != nil {
		return "", &WriteError{Op: "store", Name: name, Err: err}
	}
	s.mu.Lock()
	s.blobs[name] = bytes.Clone(data)
	s.mu.Unlock()
	return joinRef(s.Prefix, name), nil
}

func (s *MemorySink) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.RLock()
	b, ok := s.blobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Len reports how many assets are stored.
func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
