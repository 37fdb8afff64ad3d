package annotation

import "context"

type View struct {
	Photo    Photo     `json:"photo"`
	Tooltips []Tooltip `json:"tooltips"`
}

// Viewer is the read-only counterpart of Session.
type Viewer struct {
	db    Persistence
	store *Store
}

func NewViewer(db Persistence) *Viewer {
	return &Viewer{db: db, store: NewStore(db)}
}

// Load resolves shortID to its photo and tooltips. Malformed ids fail with
// ErrNotFound without asking persistence.
func (v *Viewer) Load(ctx context.Context, shortID string) (View, error) {
	if !ValidShortID(shortID) {
		return View{}, &Error{Op: "load photo", Kind: ErrNotFound}
	}
	photo, err := v.db.GetPhotoByShortID(ctx, shortID)
	if err != nil {
		return View{}, wrap("load photo", ErrPersistence, err)
	}
	tooltips, err := v.store.LoadAll(ctx, photo.ID)
	if err != nil {
		return View{}, err
	}
	return View{Photo: photo, Tooltips: tooltips}, nil
}
