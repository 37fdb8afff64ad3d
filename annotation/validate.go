package annotation

import (
	"path/filepath"
	"strings"
)

const MaxImageSize = 5242880 // 5MB

var ImageExtensions = []string{"jpg", "jpeg", "png", "gif", "webp"}

type ImageValidator struct {
	MaxSize    int64
	Extensions []string
}

var DefaultImageValidator = &ImageValidator{
	MaxSize:    MaxImageSize,
	Extensions: ImageExtensions,
}

func (v *ImageValidator) Validate(f File) error {
	if !strings.HasPrefix(strings.ToLower(f.MimeType), "image/") {
		return ErrInvalidType
	}
	if f.Size > v.MaxSize {
		return ErrTooLarge
	}
	ext := Extension(f.Name)
	for _, e := range v.Extensions {
		if ext == e {
			return nil
		}
	}
	return ErrInvalidType
}

// Extension returns the lower-cased file extension without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
