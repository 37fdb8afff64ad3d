package annotation

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type State int

const (
	NoPhoto State = iota
	PhotoLoaded
	Placing
	Editing
)

func (s State) String() string {
	switch s {
	case PhotoLoaded:
		return "photo_loaded"
	case Placing:
		return "placing"
	case Editing:
		return "editing"
	}
	return "no_photo"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is the author side of the engine: it uploads a photo and then places,
// edits and deletes tooltips on it, with at most one pending tooltip at a time.
//
// Editing is destructive-first. Edit deletes the tooltip from the store before the
// pending form is shown, so cancelling an edit (or a failed save) loses the
// original tooltip. Saving an edit goes through the plain create path.
//
// A Session is owned by one caller and is not safe for concurrent use.
type Session struct {
	db      Persistence
	blobs   BlobStorage
	files   FileValidator
	store   *Store
	shortID func() string
	blobID  func() string

	photo   *Photo
	pending *Pending
}

type SessionOption func(*Session)

// WithShortIDGenerator replaces NewShortID.
func WithShortIDGenerator(f func() string) SessionOption {
	return func(s *Session) { s.shortID = f }
}

// WithBlobNameGenerator replaces the random blob base name (extension is appended).
func WithBlobNameGenerator(f func() string) SessionOption {
	return func(s *Session) { s.blobID = f }
}

func NewSession(db Persistence, blobs BlobStorage, files FileValidator, opts ...SessionOption) *Session {
	if files == nil {
		files = DefaultImageValidator
	}
	s := &Session{
		db:      db,
		blobs:   blobs,
		files:   files,
		store:   NewStore(db),
		shortID: NewShortID,
		blobID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	switch {
	case s.photo == nil:
		return NoPhoto
	case s.pending == nil:
		return PhotoLoaded
	case s.pending.EditingOf != 0:
		return Editing
	}
	return Placing
}

func (s *Session) Photo() (Photo, bool) {
	if s.photo == nil {
		return Photo{}, false
	}
	return *s.photo, true
}

func (s *Session) Pending() (Pending, bool) {
	if s.pending == nil {
		return Pending{}, false
	}
	return *s.pending, true
}

func (s *Session) Tooltips() []Tooltip {
	return s.store.Tooltips()
}

// Upload validates the file, stores its bytes, and creates the photo record under a
// new short id. Any failure leaves the session without a photo. Blobs stored before
// a later failure are not cleaned up.
func (s *Session) Upload(ctx context.Context, u Upload) (Photo, error) {
	if s.photo != nil {
		return Photo{}, ErrPhotoLoaded
	}
	if err := s.files.Validate(u.File()); err != nil {
		return Photo{}, &UploadError{Step: StepValidate, Err: wrap("", ErrValidation, err)}
	}
	name := s.blobID()
	if ext := Extension(u.Name); ext != "" {
		name += "." + ext
	}
	url, err := s.blobs.Store(ctx, u.Data, name)
	if err != nil {
		return Photo{}, &UploadError{Step: StepStore, Err: wrap("store", ErrStorage, err)}
	}
	photo, err := s.db.CreatePhoto(ctx, url, s.shortID())
	if err != nil {
		return Photo{}, &UploadError{Step: StepPersist, Err: wrap("create photo", ErrPersistence, err)}
	}
	if _, err = s.store.LoadAll(ctx, photo.ID); err != nil {
		return Photo{}, &UploadError{Step: StepLoad, Err: err}
	}
	s.photo = &photo
	return photo, nil
}

// Place starts a new pending tooltip where the pointer hit the image. A position
// outside the image returns ErrOutOfBounds and changes nothing; callers are
// expected to treat that as a no-op.
func (s *Session) Place(pointerX, pointerY float64, b Bounds) (Pending, error) {
	if s.photo == nil {
		return Pending{}, ErrNoPhoto
	}
	if s.pending != nil {
		return Pending{}, ErrPendingExists
	}
	x, y := ToRelative(pointerX, pointerY, b)
	if err := CheckPosition(x, y); err != nil {
		return Pending{}, err
	}
	s.pending = &Pending{X: x, Y: y}
	return *s.pending, nil
}

// Edit deletes tooltip id and opens the pending form pre-filled with it.
// If the delete fails nothing changes.
func (s *Session) Edit(ctx context.Context, id uint64) (Pending, error) {
	if s.photo == nil {
		return Pending{}, ErrNoPhoto
	}
	if s.pending != nil {
		return Pending{}, ErrPendingExists
	}
	t, ok := s.store.Get(id)
	if !ok {
		return Pending{}, &Error{Op: "edit tooltip", Kind: ErrNotFound}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return Pending{}, err
	}
	s.pending = &Pending{X: t.X, Y: t.Y, Text: t.Text, EditingOf: t.ID}
	return *s.pending, nil
}

// SetText updates the text of the pending tooltip.
func (s *Session) SetText(text string) (Pending, error) {
	if s.pending == nil {
		return Pending{}, ErrNoPending
	}
	s.pending.Text = text
	return *s.pending, nil
}

// Submit saves the pending tooltip with text. Blank text is refused and keeps the
// pending tooltip. Once the store is called the pending tooltip is cleared whether
// or not the create succeeds; there is no retry and an edited original is not
// restored.
func (s *Session) Submit(ctx context.Context, text string) (Tooltip, error) {
	if s.pending == nil {
		return Tooltip{}, ErrNoPending
	}
	if strings.TrimSpace(text) == "" {
		return Tooltip{}, ErrEmptyText
	}
	p := *s.pending
	s.pending = nil
	return s.store.Create(ctx, s.photo.ID, p.X, p.Y, text)
}

// Cancel discards the pending tooltip. It returns the discarded value; when it was
// an edit the original tooltip stays deleted.
func (s *Session) Cancel() (Pending, error) {
	if s.pending == nil {
		return Pending{}, ErrNoPending
	}
	p := *s.pending
	s.pending = nil
	return p, nil
}

// Delete removes a tooltip outright. Not allowed while a tooltip is pending.
func (s *Session) Delete(ctx context.Context, id uint64) error {
	if s.photo == nil {
		return ErrNoPhoto
	}
	if s.pending != nil {
		return ErrPendingExists
	}
	return s.store.Delete(ctx, id)
}

// Leave tears the session down to NoPhoto. Persisted data is untouched.
func (s *Session) Leave() {
	s.photo = nil
	s.pending = nil
	s.store.Reset()
}
