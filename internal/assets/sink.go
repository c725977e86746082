package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Open when no asset has the given name.
var ErrNotFound = errors.New("asset not found")

// Sink persists uploaded binary payloads and returns a reference the client
// can later fetch. A reference is only returned once the payload is durable.
type Sink interface {
	Store(ctx context.Context, data []byte, originalFilename string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Name() string
}

// WriteError wraps a failure to persist an asset.
type WriteError struct {
	Op   string
	Name string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("asset %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError wraps a failure to open or link to a stored asset. A missing
// asset is ErrNotFound instead.
type ReadError struct {
	Op   string
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("asset %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

var (
	extPattern  = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
	namePattern = regexp.MustCompile(`^[0-9a-f-]{36}(\.[a-z0-9]{1,10})?$`)
)

// GenerateName returns a fresh collision-free name. Only the lower-cased
// extension of the original filename is kept.
func GenerateName(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// ValidName reports whether name could have come from GenerateName. Sinks
// reject anything else on Open, which rules out path traversal.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

func joinRef(prefix, name string) string {
	return strings.TrimRight(prefix, "/") + "/" + name
}
