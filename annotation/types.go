// Package annotation implements tooltips anchored to relative image coordinates:
// the author-side session that places, edits and deletes them, and the read-only
// viewer that resolves a shared short id.
package annotation

import (
	"context"
	"time"
)

type Photo struct {
	ID        uint64    `json:"id"`
	ImageURL  string    `json:"image_url"`
	ShortID   string    `json:"short_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Tooltip is a text annotation. X and Y are percentages of the rendered image
// width and height, always within [0, 100].
type Tooltip struct {
	ID      uint64  `json:"id"`
	PhotoID uint64  `json:"photo_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Text    string  `json:"text"`
}

// Pending is the single uncommitted tooltip of an author session.
// EditingOf is the id of the tooltip being edited, zero for a new placement.
type Pending struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Text      string  `json:"text"`
	EditingOf uint64  `json:"editing_of,omitempty"`
}

// File describes an uploaded file for validation.
type File struct {
	Name     string
	MimeType string
	Size     int64
}

// Upload is a file submitted by the author.
type Upload struct {
	Name     string
	MimeType string
	Data     []byte
}

func (u Upload) File() File {
	return File{Name: u.Name, MimeType: u.MimeType, Size: int64(len(u.Data))}
}

// Persistence stores photo and tooltip rows.
type Persistence interface {
	CreatePhoto(ctx context.Context, imageURL, shortID string) (Photo, error)
	GetPhotoByShortID(ctx context.Context, shortID string) (Photo, error)
	CreateTooltip(ctx context.Context, photoID uint64, x, y float64, text string) (Tooltip, error)
	DeleteTooltip(ctx context.Context, id uint64) error
	ListTooltips(ctx context.Context, photoID uint64) ([]Tooltip, error)
}

// BlobStorage stores image bytes and returns their public URL.
type BlobStorage interface {
	Store(ctx context.Context, data []byte, suggestedName string) (string, error)
}

type FileValidator interface {
	Validate(f File) error
}
