package store

import (
	"cmp"
	"context"
	"errors"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/policy"
)

var (
	// ErrReadingListItemNotFound is returned when a reading list id matches nothing.
	ErrReadingListItemNotFound = ErrNotFound.WithMessage("reading list item not found")
	// ErrReadingListDuplicate is returned when the owner already tracks the volume.
	ErrReadingListDuplicate = ErrAlreadyExists.WithMessage("book already exists in reading list")
)

// initReadingList registers the ReadingList entity.
// The owner_volume unique index enforces one item per (owner, volumeId) inside
// the insert transaction.
func (s *Store) initReadingList() {
	s.ReadingList = NewEntity(s, "read:", func(r *domain.ReadingListItem) string { return r.ID }).
		WithIndex("owner_volume", func(r *domain.ReadingListItem) []string {
			return []string{r.OwnerID + ":" + r.VolumeID}
		}).
		WithLookup("owner", func(r *domain.ReadingListItem) []string { return ownerKey(&r.Content) })
}

// CreateReadingListItem stores a new item. A second item for the same
// (owner, volumeId) fails with ErrReadingListDuplicate, including under concurrency.
func (s *Store) CreateReadingListItem(ctx context.Context, r *domain.ReadingListItem) error {
	err := s.ReadingList.Create(ctx, r)
	if errors.Is(err, ErrAlreadyExists) {
		return ErrReadingListDuplicate.WithCause(err)
	}
	return err
}

// GetReadingListItem returns an item by id.
func (s *Store) GetReadingListItem(ctx context.Context, itemID string) (*domain.ReadingListItem, error) {
	r, err := s.ReadingList.Get(ctx, itemID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrReadingListItemNotFound
	}
	return r, err
}

// UpdateReadingListItem persists an already-validated item.
func (s *Store) UpdateReadingListItem(ctx context.Context, r *domain.ReadingListItem) error {
	err := s.ReadingList.Update(ctx, r)
	if errors.Is(err, ErrNotFound) {
		return ErrReadingListItemNotFound
	}
	return err
}

// DeleteReadingListItem removes an item permanently.
func (s *Store) DeleteReadingListItem(ctx context.Context, itemID string) error {
	return s.ReadingList.Delete(ctx, itemID)
}

// ReadingListFilter selects one owner's reading list items.
// The embedded policy filter must name the owner.
type ReadingListFilter struct {
	policy.ListFilter
	// Status filters by lifecycle status; empty means any.
	Status domain.ReadingStatus
	Page   PageParams
}

// ListReadingList returns one page of an owner's items, most recently updated first.
func (s *Store) ListReadingList(ctx context.Context, f ReadingListFilter) (*PagedResult[domain.ReadingListItem], error) {
	return s.ReadingList.Find(ctx, Query[domain.ReadingListItem]{
		Lookup:      "owner",
		LookupValue: policy.Canonical(f.OwnerID),
		Filter: func(r *domain.ReadingListItem) bool {
			return f.Matches(&r.Content) && (f.Status == "" || r.Status == f.Status)
		},
		Compare: func(a, b *domain.ReadingListItem) int {
			return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano())
		},
		Page: f.Page,
	})
}
