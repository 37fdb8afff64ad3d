package annotation

import (
	"context"
	"strings"
)

// Store is the in-memory tooltip set of the currently loaded photo. It has a single
// owner and is not safe for concurrent use. Local state changes only after the
// backing write succeeded.
type Store struct {
	db       Persistence
	tooltips map[uint64]Tooltip
	order    []uint64
}

func NewStore(db Persistence) *Store {
	return &Store{
		db:       db,
		tooltips: map[uint64]Tooltip{},
	}
}

func (s *Store) Create(ctx context.Context, photoID uint64, x, y float64, text string) (Tooltip, error) {
	if err := CheckPosition(x, y); err != nil {
		return Tooltip{}, wrap("create tooltip", ErrValidation, err)
	}
	if strings.TrimSpace(text) == "" {
		return Tooltip{}, wrap("create tooltip", ErrValidation, ErrEmptyText)
	}
	t, err := s.db.CreateTooltip(ctx, photoID, x, y, text)
	if err != nil {
		return Tooltip{}, wrap("create tooltip", ErrPersistence, err)
	}
	s.add(t)
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id uint64) error {
	if _, ok := s.tooltips[id]; !ok {
		return &Error{Op: "delete tooltip", Kind: ErrNotFound}
	}
	if err := s.db.DeleteTooltip(ctx, id); err != nil {
		return wrap("delete tooltip", ErrPersistence, err)
	}
	delete(s.tooltips, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// LoadAll replaces the local set with the persisted tooltips of photoID.
// On failure the local set is left as it was.
func (s *Store) LoadAll(ctx context.Context, photoID uint64) ([]Tooltip, error) {
	list, err := s.db.ListTooltips(ctx, photoID)
	if err != nil {
		return nil, wrap("load tooltips", ErrPersistence, err)
	}
	s.Reset()
	for _, t := range list {
		s.add(t)
	}
	return s.Tooltips(), nil
}

// Tooltips returns a copy of the set in insertion order.
func (s *Store) Tooltips() []Tooltip {
	result := make([]Tooltip, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.tooltips[id])
	}
	return result
}

func (s *Store) Get(id uint64) (Tooltip, bool) {
	t, ok := s.tooltips[id]
	return t, ok
}

func (s *Store) Len() int {
	return len(s.tooltips)
}

// Reset drops the local set, e.g. when navigating away from the photo.
func (s *Store) Reset() {
	s.tooltips = map[uint64]Tooltip{}
	s.order = nil
}

func (s *Store) add(t Tooltip) {
	if _, ok := s.tooltips[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.tooltips[t.ID] = t
}
