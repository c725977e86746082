package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
)

// FileSink stores assets in a single local directory.
type FileSink struct {
	dir    string
	prefix string
}

var _ Sink = (*FileSink)(nil)

// NewFileSink creates dir if needed. References are returned as prefix/name.
func NewFileSink(dir, prefix string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileSink{dir: dir, prefix: prefix}, nil
}

func (s *FileSink) Name() string { return "file" }

// Store writes to a temp file, syncs it, then renames it into place and
// syncs the directory. Names are fresh UUIDs so a rename never replaces an
// existing asset.
func (s *FileSink) Store(ctx context.Context, data []byte, originalFilename string) (string, error) {
	name := GenerateName(originalFilename)
	if err := s.write(ctx, name, data); err != nil {
		metrics.AssetWriteFailures.WithLabelValues(s.Name()).Inc()
		return "", &WriteError{Op: "store", Name: name, Err: err}
	}
	metrics.AssetsStored.WithLabelValues(s.Name()).Inc()
	metrics.AssetBytes.Add(float64(len(data)))
	return joinRef(s.prefix, name), nil
}

func (s *FileSink) write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return err
	}
	return syncDir(s.dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return err
	}
	return d.Close()
}

func (s *FileSink) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, ErrNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &ReadError{Op: "open", Name: name, Err: err}
	}
	return f, nil
}
