package store

import (
	"context"
	"errors"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

// ErrCollectionNotFound is returned when a collection id matches nothing.
var ErrCollectionNotFound = ErrNotFound.WithMessage("collection not found")

func (s *Store) initCollections() {
	s.Collections = NewEntity(s, "coll:", func(c *domain.Collection) string { return c.ID }).
		WithLookup("owner", func(c *domain.Collection) []string { return ownerKey(&c.Content) })
}

// CreateCollection stores a new collection and indexes it for search.
func (s *Store) CreateCollection(ctx context.Context, c *domain.Collection) error {
	if err := s.Collections.Create(ctx, c); err != nil {
		return err
	}
	s.reindex("collection", c.ID, func() error { return s.searchIndexer.IndexCollection(ctx, c) })
	return nil
}

// GetCollection returns a collection by id.
func (s *Store) GetCollection(ctx context.Context, collectionID string) (*domain.Collection, error) {
	c, err := s.Collections.Get(ctx, collectionID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrCollectionNotFound
	}
	return c, err
}

// UpdateCollection persists changes and refreshes the search document.
func (s *Store) UpdateCollection(ctx context.Context, c *domain.Collection) error {
	if err := s.Collections.Update(ctx, c); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrCollectionNotFound
		}
		return err
	}
	s.reindex("collection", c.ID, func() error { return s.searchIndexer.IndexCollection(ctx, c) })
	return nil
}

// DeleteCollection removes a collection permanently.
func (s *Store) DeleteCollection(ctx context.Context, collectionID string) error {
	if err := s.Collections.Delete(ctx, collectionID); err != nil {
		return err
	}
	s.reindex("collection", collectionID, func() error { return s.searchIndexer.DeleteCollection(ctx, collectionID) })
	return nil
}

// ListCollections returns one page of collections matching f, newest first.
func (s *Store) ListCollections(ctx context.Context, f ContentFilter) (*PagedResult[domain.Collection], error) {
	return findContent(ctx, s.Collections,
		func(c *domain.Collection) *domain.Content { return &c.Content },
		func(c *domain.Collection) string { return c.Title },
		f)
}
