package catalog

import "time"

// Project is a cataloged creative work. The JSON shape matches what the
// frontend consumes: optional fields are emitted as null rather than omitted.
type Project struct {
	ID          int64      `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	Category    string     `json:"category" bson:"category"`
	Tag         *string    `json:"tag" bson:"tag"`
	Thumbnail   string     `json:"thumbnail" bson:"thumbnail"`
	URL         string     `json:"url" bson:"url"`
	VideoLength *string    `json:"videoLength" bson:"videoLength"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a deep copy so stored records never alias caller memory.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Tag = cloneString(p.Tag)
	cp.VideoLength = cloneString(p.VideoLength)
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		cp.UpdatedAt = &t
	}
	return &cp
}

// Input is the create payload: every Project field except the server-assigned
// id and timestamps.
type Input struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Tag         *string `json:"tag"`
	Thumbnail   string  `json:"thumbnail"`
	URL         string  `json:"url"`
	VideoLength *string `json:"videoLength"`
}

// NewProject builds the stored record for in.
func NewProject(id int64, in Input, now time.Time) *Project {
	return &Project{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Tag:         cloneString(in.Tag),
		Thumbnail:   in.Thumbnail,
		URL:         in.URL,
		VideoLength: cloneString(in.VideoLength),
		CreatedAt:   now,
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr is a small helper for optional text fields.
func StringPtr(s string) *string { return &s }
