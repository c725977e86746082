package assets

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"
)

// DefaultMaxUploadBytes is the largest accepted thumbnail.
const DefaultMaxUploadBytes int64 = 5 << 20

const (
	CodeMissingFile = "MISSING_FILE"
	CodeNotImage    = "NOT_IMAGE"
	CodeTooLarge    = "TOO_LARGE"
)

// Upload is a file received from a client, already read into memory.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadError reports an upload rejected before anything was stored.
type UploadError struct {
	Code    string
	Message string
}

func (e *UploadError) Error() string { return e.Message }

// ReadUpload checks the declared content type and size of a multipart file
// and reads it. A nil header is a missing file.
func ReadUpload(fh *multipart.FileHeader, maxBytes int64) (*Upload, error) {
	if fh == nil {
		return nil, &UploadError{Code: CodeMissingFile, Message: "Thumbnail image is required"}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	ct := fh.Header.Get("Content-Type")
	if !IsImageType(ct) {
		return nil, &UploadError{Code: CodeNotImage, Message: "Only image files are allowed"}
	}
	if fh.Size > maxBytes {
		return nil, tooLarge(maxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, tooLarge(maxBytes)
	}
	return &Upload{Filename: fh.Filename, ContentType: ct, Data: data}, nil
}

func tooLarge(maxBytes int64) *UploadError {
	return &UploadError{Code: CodeTooLarge, Message: fmt.Sprintf("File exceeds the %d byte limit", maxBytes)}
}

// IsImageType reports whether a declared MIME type is image/*.
func IsImageType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/")
}
