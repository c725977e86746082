package catalog

import (
	"encoding/json"
	"time"
)

// Nullable distinguishes a JSON field that was absent from one explicitly set
// to null.
type Nullable[T any] struct {
	Set   bool // field present in the payload
	Valid bool // present and not null
	Val   T
}

// NullableOf returns a Nullable holding v.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Val: v}
}

// Null returns a Nullable that clears the field.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Valid = false
		var zero T
		n.Val = zero
		return nil
	}
	n.Valid = true
	return json.Unmarshal(b, &n.Val)
}

func (n Nullable[T]) ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Val
	return &v
}

// Patch is a partial update. Absent fields are left unchanged. There is no
// way to express id, createdAt or updatedAt here, so a decoded payload that
// carries them has no effect on them.
type Patch struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Tag         Nullable[string] `json:"tag"`
	Thumbnail   *string          `json:"thumbnail"`
	URL         *string          `json:"url"`
	VideoLength Nullable[string] `json:"videoLength"`
}

// Field is one column assignment produced by a Patch. Name is the JSON
// attribute name; Value is a string or nil for a cleared optional field.
type Field struct {
	Name  string
	Value any
}

// Fields lists the assignments in a stable order.
func (p Patch) Fields() []Field {
	var out []Field
	add := func(name string, v *string) {
		if v != nil {
			out = append(out, Field{Name: name, Value: *v})
		}
	}
	addNullable := func(name string, v Nullable[string]) {
		if !v.Set {
			return
		}
		if v.Valid {
			out = append(out, Field{Name: name, Value: v.Val})
			return
		}
		out = append(out, Field{Name: name, Value: nil})
	}
	add("title", p.Title)
	add("description", p.Description)
	add("category", p.Category)
	addNullable("tag", p.Tag)
	add("thumbnail", p.Thumbnail)
	add("url", p.URL)
	addNullable("videoLength", p.VideoLength)
	return out
}

// Empty reports whether the patch carries no assignments.
func (p Patch) Empty() bool { return len(p.Fields()) == 0 }

// Apply returns a copy of cur with the patch merged over it and UpdatedAt set
// to now. ID and CreatedAt are carried over untouched.
func (p Patch) Apply(cur *Project, now time.Time) *Project {
	next := cur.Clone()
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if p.Tag.Set {
		next.Tag = p.Tag.ptr()
	}
	if p.Thumbnail != nil {
		next.Thumbnail = *p.Thumbnail
	}
	if p.URL != nil {
		next.URL = *p.URL
	}
	if p.VideoLength.Set {
		next.VideoLength = p.VideoLength.ptr()
	}
	if now.Before(next.CreatedAt) {
		now = next.CreatedAt
	}
	next.UpdatedAt = &now
	return next
}
