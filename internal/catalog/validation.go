package catalog

import (
	"fmt"
	"strings"
)

const (
	CodeRequired      = "REQUIRED"
	CodeInvalidEnum   = "INVALID_ENUM"
	CodeInvalidFormat = "INVALID_FORMAT"
)

// ValidationError is a malformed or missing field. The HTTP layer extracts it
// with errors.As and reports it as 400.
type ValidationError struct {
	Field         string  `json:"field"`
	Code          string  `json:"code"`
	RejectedValue *string `json:"rejectedValue,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.RejectedValue != nil {
		return fmt.Sprintf("%s: %s (rejected: %q)", e.Field, e.Code, *e.RejectedValue)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

func required(field string) *ValidationError {
	return &ValidationError{Field: field, Code: CodeRequired}
}

func invalidEnum(field, v string) *ValidationError {
	return &ValidationError{Field: field, Code: CodeInvalidEnum, RejectedValue: &v}
}

// InvalidFormat reports a value that could not be parsed, such as a
// non-numeric project id.
func InvalidFormat(field, v string) *ValidationError {
	return &ValidationError{Field: field, Code: CodeInvalidFormat, RejectedValue: &v}
}

// Category is the closed set of project kinds shown by the frontend.
type Category string

const (
	CategoryApp   Category = "app"
	CategoryGame  Category = "game"
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
	CategoryEtc   Category = "etc"
)

// Categories returns the known categories in display order.
func Categories() []Category {
	return []Category{CategoryApp, CategoryGame, CategoryImage, CategoryVideo, CategoryEtc}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryApp, CategoryGame, CategoryImage, CategoryVideo, CategoryEtc:
		return true
	}
	return false
}

// ParseCategory accepts exactly one of the known labels.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", invalidEnum("category", s)
	}
	return c, nil
}

// ValidateMetadata checks every create field except the thumbnail, which is
// only known once the upload has been stored.
func (in Input) ValidateMetadata() error {
	if strings.TrimSpace(in.Title) == "" {
		return required("title")
	}
	if strings.TrimSpace(in.Description) == "" {
		return required("description")
	}
	if strings.TrimSpace(in.Category) == "" {
		return required("category")
	}
	if _, err := ParseCategory(in.Category); err != nil {
		return err
	}
	if strings.TrimSpace(in.URL) == "" {
		return required("url")
	}
	return nil
}

// Validate checks the full create payload.
func (in Input) Validate() error {
	if err := in.ValidateMetadata(); err != nil {
		return err
	}
	if strings.TrimSpace(in.Thumbnail) == "" {
		return required("thumbnail")
	}
	return nil
}

// Validate rejects a patch that blanks a required field or names an unknown
// category. videoLength is accepted on any category and its format is not
// checked.
func (p Patch) Validate() error {
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"title", p.Title},
		{"description", p.Description},
		{"category", p.Category},
		{"thumbnail", p.Thumbnail},
		{"url", p.URL},
	} {
		if f.v != nil && strings.TrimSpace(*f.v) == "" {
			return required(f.name)
		}
	}
	if p.Category != nil {
		if _, err := ParseCategory(*p.Category); err != nil {
			return err
		}
	}
	return nil
}
