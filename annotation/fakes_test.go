package annotation

import (
	"context"
	"errors"
	"time"
)

var errBackend = errors.New("backend unavailable")

type fakeDB struct {
	nextID   uint64
	photos   map[string]Photo
	tooltips []Tooltip
	calls    int

	createPhotoErr   error
	createTooltipErr error
	deleteErr        error
	listErr          error
}

func newFakeDB() *fakeDB {
	return &fakeDB{photos: map[string]Photo{}}
}

func (f *fakeDB) CreatePhoto(ctx context.Context, imageURL, shortID string) (Photo, error) {
	f.calls++
	if f.createPhotoErr != nil {
		return Photo{}, f.createPhotoErr
	}
	if _, ok := f.photos[shortID]; ok {
		return Photo{}, ErrDuplicateShortID
	}
	f.nextID++
	p := Photo{ID: f.nextID, ImageURL: imageURL, ShortID: shortID, CreatedAt: time.Unix(1700000000, 0)}
	f.photos[shortID] = p
	return p, nil
}

func (f *fakeDB) GetPhotoByShortID(ctx context.Context, shortID string) (Photo, error) {
	f.calls++
	p, ok := f.photos[shortID]
	if !ok {
		return Photo{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeDB) CreateTooltip(ctx context.Context, photoID uint64, x, y float64, text string) (Tooltip, error) {
	f.calls++
	if f.createTooltipErr != nil {
		return Tooltip{}, f.createTooltipErr
	}
	f.nextID++
	t := Tooltip{ID: f.nextID, PhotoID: photoID, X: x, Y: y, Text: text}
	f.tooltips = append(f.tooltips, t)
	return t, nil
}

func (f *fakeDB) DeleteTooltip(ctx context.Context, id uint64) error {
	f.calls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, t := range f.tooltips {
		if t.ID == id {
			f.tooltips = append(f.tooltips[:i], f.tooltips[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeDB) ListTooltips(ctx context.Context, photoID uint64) ([]Tooltip, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := []Tooltip{}
	for _, t := range f.tooltips {
		if t.PhotoID == photoID {
			result = append(result, t)
		}
	}
	return result, nil
}

type fakeBlobs struct {
	stored map[string][]byte
	calls  int
	err    error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{stored: map[string][]byte{}}
}

func (f *fakeBlobs) Store(ctx context.Context, data []byte, name string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.stored[name] = data
	return "https://cdn.example.com/photos/" + name, nil
}
