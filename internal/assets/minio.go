package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
)

// MinIOConfig holds object store connection settings.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PresignTTL > 0 makes reads redirect to a presigned URL instead of
	// streaming through the service.
	PresignTTL time.Duration
}

// MinIOSink stores assets as objects in one bucket.
type MinIOSink struct {
	client     *minio.Client
	bucket     string
	prefix     string
	presignTTL time.Duration
}

var _ Sink = (*MinIOSink)(nil)

// NewMinIOSink connects to the object store and ensures the bucket exists.
func NewMinIOSink(ctx context.Context, cfg MinIOConfig, prefix string) (*MinIOSink, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, xerr := mc.BucketExists(ctx, cfg.Bucket)
		if xerr != nil || !exists {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return &MinIOSink{client: mc, bucket: cfg.Bucket, prefix: prefix, presignTTL: cfg.PresignTTL}, nil
}

func (s *MinIOSink) Name() string { return "minio" }

func (s *MinIOSink) Store(ctx context.Context, data []byte, originalFilename string) (string, error) {
	name := GenerateName(originalFilename)
	info, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentTypeFor(name, data)})
	if err == nil && info.Size != int64(len(data)) {
		err = fmt.Errorf("short write: %d of %d bytes", info.Size, len(data))
	}
	if err != nil {
		metrics.AssetWriteFailures.WithLabelValues(s.Name()).Inc()
		return "", &WriteError{Op: "store", Name: name, Err: err}
	}
	metrics.AssetsStored.WithLabelValues(s.Name()).Inc()
	metrics.AssetBytes.Add(float64(len(data)))
	return joinRef(s.prefix, name), nil
}

// contentTypeFor prefers the type registered for the name's extension and
// only sniffs the payload when the extension is missing or unknown.
func contentTypeFor(name string, data []byte) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func (s *MinIOSink) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !ValidName(name) {
		return nil, ErrNotFound
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.readErr(name, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, s.readErr(name, err)
	}
	return obj, nil
}

func (s *MinIOSink) readErr(name string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return &ReadError{Op: "open", Name: name, Err: err}
}

// PresignedURL returns a temporary GET URL for name. ok is false when
// presigning is disabled.
func (s *MinIOSink) PresignedURL(ctx context.Context, name string) (u string, ok bool, err error) {
	if s.presignTTL <= 0 {
		return "", false, nil
	}
	if !ValidName(name) {
		return "", false, ErrNotFound
	}
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, name, s.presignTTL, url.Values{})
	if err != nil {
		return "", false, &ReadError{Op: "presign", Name: name, Err: err}
	}
	return presigned.String(), true, nil
}

// Presigner is implemented by sinks that can hand out direct download URLs.
type Presigner interface {
	PresignedURL(ctx context.Context, name string) (string, bool, error)
}
