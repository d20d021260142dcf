package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/id"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/metrics"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/validation"
)

// CollectionService manages user-curated book collections.
type CollectionService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store *store.Store, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListCollectionsRequest selects a page of collections.
// Owner is empty (public collections), "me", or a user id.
type ListCollectionsRequest struct {
	Owner  string
	Search string
	Page   int
}

// CollectionList is one page of collections.
type CollectionList struct {
	Collections []*domain.Collection `json:"collections"`
	Pagination  Page                 `json:"pagination"`
}

// ListCollections returns collections visible to the requester, newest first.
func (s *CollectionService) ListCollections(ctx context.Context, requesterID string, req ListCollectionsRequest) (*CollectionList, error) {
	filter, err := ownerFilter(req.Owner, requesterID, "owner")
	if err != nil {
		return nil, err
	}

	result, err := s.store.ListCollections(ctx, store.ContentFilter{
		ListFilter:    filter,
		TitleContains: strings.TrimSpace(req.Search),
		Page:          store.PageParams{Page: req.Page, Size: CollectionPageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	return &CollectionList{Collections: nonNil(result.Items), Pagination: pageOf(result)}, nil
}

// GetCollection returns a collection if the requester may read it.
func (s *CollectionService) GetCollection(ctx context.Context, requesterID, collectionID string) (*domain.Collection, error) {
	if err := checkID(id.PrefixCollection, collectionID, "collection"); err != nil {
		return nil, err
	}
	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, fromStore(err, "get collection")
	}
	if err := authorizeRead(coll, requesterID, "collection"); err != nil {
		return nil, err
	}
	return coll, nil
}

// CreateCollectionRequest contains fields for creating a collection.
type CreateCollectionRequest struct {
	Title       string   `json:"title" validate:"notblank,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Tags        []string `json:"tags"`
	Books       []string `json:"books"`
	Visibility  string   `json:"visibility" validate:"visibility"`
}

// CreateCollection creates a collection owned by the requester.
// Books lists initial volume ids; duplicates are dropped.
func (s *CollectionService) CreateCollection(ctx context.Context, ownerID string, req CreateCollectionRequest) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	visibility, err := domain.ParseVisibility(req.Visibility)
	if err != nil {
		return nil, err
	}

	collectionID, err := id.Generate(id.PrefixCollection)
	if err != nil {
		return nil, fmt.Errorf("generate collection ID: %w", err)
	}

	coll := &domain.Collection{
		Content:     domain.NewContent(collectionID, ownerID, visibility),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Tags:        domain.NormalizeSet(req.Tags),
		Books:       []domain.CollectionBook{},
	}
	for _, volumeID := range domain.NormalizeSet(req.Books) {
		coll.AddBook(volumeID)
	}

	if err := s.store.CreateCollection(ctx, coll); err != nil {
		return nil, fromStore(err, "create collection")
	}
	metrics.ContentCreated(metrics.KindCollection)

	s.logger.Info("collection created",
		"collection_id", collectionID,
		"owner_id", ownerID,
		"books", len(coll.Books),
	)
	return coll, nil
}

// UpdateCollectionRequest is a partial update. AddBook and RemoveBook are
// idempotent and applied after the scalar fields.
type UpdateCollectionRequest struct {
	Title       *string  `json:"title" validate:"omitnil,notblank,max=200"`
	Description *string  `json:"description" validate:"omitnil,max=2000"`
	Tags        []string `json:"tags"`
	Visibility  *string  `json:"visibility" validate:"omitnil,visibility"`
	AddBook     *string  `json:"addBook" validate:"omitnil,notblank"`
	RemoveBook  *string  `json:"removeBook" validate:"omitnil,notblank"`
}

// UpdateCollection applies the supplied fields. Requires ownership.
func (s *CollectionService) UpdateCollection(ctx context.Context, requesterID, collectionID string, req UpdateCollectionRequest) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id.PrefixCollection, collectionID, "collection"); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	coll, err := s.loadForMutation(ctx, requesterID, collectionID, "update")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		coll.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		coll.Description = *req.Description
	}
	if req.Tags != nil {
		coll.Tags = domain.NormalizeSet(req.Tags)
	}
	if req.Visibility != nil {
		v, err := domain.ParseVisibility(*req.Visibility)
		if err != nil {
			return nil, err
		}
		coll.Visibility = v
	}
	if req.AddBook != nil {
		coll.AddBook(strings.TrimSpace(*req.AddBook))
	}
	if req.RemoveBook != nil {
		coll.RemoveBook(strings.TrimSpace(*req.RemoveBook))
	}
	coll.Touch()

	if err := s.store.UpdateCollection(ctx, coll); err != nil {
		return nil, fromStore(err, "update collection")
	}

	s.logger.Info("collection updated", "collection_id", collectionID, "owner_id", requesterID)
	return coll, nil
}

// AddBook adds volumeID to the collection. Adding a present volume is a no-op.
func (s *CollectionService) AddBook(ctx context.Context, requesterID, collectionID, volumeID string) (*domain.Collection, error) {
	return s.changeBooks(ctx, requesterID, collectionID, volumeID, "add_book", (*domain.Collection).AddBook)
}

// RemoveBook removes volumeID from the collection. Removing an absent volume is a no-op.
func (s *CollectionService) RemoveBook(ctx context.Context, requesterID, collectionID, volumeID string) (*domain.Collection, error) {
	return s.changeBooks(ctx, requesterID, collectionID, volumeID, "remove_book", (*domain.Collection).RemoveBook)
}

func (s *CollectionService) changeBooks(
	ctx context.Context,
	requesterID, collectionID, volumeID, action string,
	apply func(*domain.Collection, string) bool,
) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id.PrefixCollection, collectionID, "collection"); err != nil {
		return nil, err
	}
	volumeID = strings.TrimSpace(volumeID)
	if volumeID == "" {
		return nil, domainerrors.Validation("volumeId is required")
	}

	coll, err := s.loadForMutation(ctx, requesterID, collectionID, action)
	if err != nil {
		return nil, err
	}

	if !apply(coll, volumeID) {
		return coll, nil
	}
	if err := s.store.UpdateCollection(ctx, coll); err != nil {
		return nil, fromStore(err, "update collection")
	}

	s.logger.Info("collection books changed",
		"collection_id", collectionID,
		"volume_id", volumeID,
		"action", action,
	)
	return coll, nil
}

// DeleteCollection removes a collection permanently. Requires ownership.
func (s *CollectionService) DeleteCollection(ctx context.Context, requesterID, collectionID string) error {
	if err := checkID(id.PrefixCollection, collectionID, "collection"); err != nil {
		return err
	}
	if _, err := s.loadForMutation(ctx, requesterID, collectionID, "delete"); err != nil {
		return err
	}

	if err := s.store.DeleteCollection(ctx, collectionID); err != nil {
		return fromStore(err, "delete collection")
	}
	metrics.ContentDeleted(metrics.KindCollection)

	s.logger.Info("collection deleted", "collection_id", collectionID, "owner_id", requesterID)
	return nil
}

func (s *CollectionService) loadForMutation(ctx context.Context, requesterID, collectionID, action string) (*domain.Collection, error) {
	coll, err := s.store.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, fromStore(err, "get collection")
	}
	if err := authorizeMutation(coll, requesterID, "collection", action); err != nil {
		return nil, err
	}
	return coll, nil
}
