package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/id"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/metrics"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/policy"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/validation"
)

// ReadingListService tracks each user's reading lifecycle per book.
// Every write validates the status/date rules on the effective record.
type ReadingListService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewReadingListService creates a new reading list service.
func NewReadingListService(store *store.Store, logger *slog.Logger) *ReadingListService {
	return &ReadingListService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ReadingList is one page of reading list items.
type ReadingList struct {
	Items      []*domain.ReadingListItem `json:"readingList"`
	Pagination Page                      `json:"pagination"`
}

// ListMine returns every item on the requester's list, optionally filtered by status.
func (s *ReadingListService) ListMine(ctx context.Context, requesterID, status string, page int) (*ReadingList, error) {
	var st domain.ReadingStatus
	if strings.TrimSpace(status) != "" {
		parsed, err := domain.ParseReadingStatus(status)
		if err != nil {
			return nil, err
		}
		st = parsed
	}
	return s.list(ctx, store.ReadingListFilter{
		ListFilter: policy.ForOwnerParam(policy.OwnerMe, requesterID),
		Status:     st,
		Page:       store.PageParams{Page: page, Size: ReadingListPageSize},
	})
}

// ListForUser returns another user's public items. The filter stays public-only
// even when userID is the requester.
func (s *ReadingListService) ListForUser(ctx context.Context, userID string, page int) (*ReadingList, error) {
	if err := checkID(id.PrefixUser, userID, "user"); err != nil {
		return nil, err
	}
	return s.list(ctx, store.ReadingListFilter{
		ListFilter: policy.PublicOf(userID),
		Page:       store.PageParams{Page: page, Size: ReadingListPageSize},
	})
}

func (s *ReadingListService) list(ctx context.Context, f store.ReadingListFilter) (*ReadingList, error) {
	result, err := s.store.ListReadingList(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list reading list: %w", err)
	}
	return &ReadingList{Items: nonNil(result.Items), Pagination: pageOf(result)}, nil
}

// GetItem returns one item if the requester may read it.
func (s *ReadingListService) GetItem(ctx context.Context, requesterID, itemID string) (*domain.ReadingListItem, error) {
	if err := checkID(id.PrefixReadingListItem, itemID, "reading list item"); err != nil {
		return nil, err
	}
	item, err := s.store.GetReadingListItem(ctx, itemID)
	if err != nil {
		return nil, fromStore(err, "get reading list item")
	}
	if err := authorizeRead(item, requesterID, "reading list item"); err != nil {
		return nil, err
	}
	return item, nil
}

// AddItemRequest contains fields for adding a book to the reading list.
type AddItemRequest struct {
	VolumeID    string     `json:"volumeId" validate:"notblank,max=200"`
	Status      string     `json:"status" validate:"required"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	Visibility  string     `json:"visibility" validate:"visibility"`
}

// AddItem puts a book on the requester's list. A second item for the same
// volume fails with CONFLICT and leaves the first unchanged.
func (s *ReadingListService) AddItem(ctx context.Context, ownerID string, req AddItemRequest) (*domain.ReadingListItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	status, err := domain.ParseReadingStatus(req.Status)
	if err != nil {
		return nil, err
	}
	visibility, err := domain.ParseVisibility(req.Visibility)
	if err != nil {
		return nil, err
	}

	itemID, err := id.Generate(id.PrefixReadingListItem)
	if err != nil {
		return nil, fmt.Errorf("generate reading list ID: %w", err)
	}

	item := &domain.ReadingListItem{
		Content:     domain.NewContent(itemID, ownerID, visibility),
		VolumeID:    strings.TrimSpace(req.VolumeID),
		Status:      status,
		StartedAt:   req.StartedAt,
		CompletedAt: req.CompletedAt,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateReadingListItem(ctx, item); err != nil {
		return nil, fromStore(err, "create reading list item")
	}
	metrics.ContentCreated(metrics.KindReadingListItem)

	s.logger.Info("reading list item added",
		"item_id", itemID,
		"owner_id", ownerID,
		"volume_id", item.VolumeID,
		"status", status,
	)
	return item, nil
}

// UpdateItemRequest is a partial update. Nil Status and Visibility and unset
// dates are unchanged; a null date clears it.
type UpdateItemRequest struct {
	Status      *string
	StartedAt   domain.Optional[time.Time]
	CompletedAt domain.Optional[time.Time]
	Visibility  *string
}

func (r UpdateItemRequest) patch() (domain.ReadingListPatch, error) {
	p := domain.ReadingListPatch{
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
	if r.Status != nil {
		st, err := domain.ParseReadingStatus(*r.Status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	if r.Visibility != nil {
		v, err := domain.ParseVisibility(*r.Visibility)
		if err != nil {
			return p, err
		}
		p.Visibility = &v
	}
	return p, nil
}

// UpdateItem loads the item, overlays the supplied fields, validates the
// effective record, and persists it. Requires ownership.
func (s *ReadingListService) UpdateItem(ctx context.Context, requesterID, itemID string, req UpdateItemRequest) (*domain.ReadingListItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id.PrefixReadingListItem, itemID, "reading list item"); err != nil {
		return nil, err
	}
	p, err := req.patch()
	if err != nil {
		return nil, err
	}

	stored, err := s.store.GetReadingListItem(ctx, itemID)
	if err != nil {
		return nil, fromStore(err, "get reading list item")
	}
	if err := authorizeMutation(stored, requesterID, "reading list item", "update"); err != nil {
		return nil, err
	}
	if p.IsEmpty() {
		return stored, nil
	}

	merged := stored.Merge(p)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	merged.Touch()

	if err := s.store.UpdateReadingListItem(ctx, &merged); err != nil {
		return nil, fromStore(err, "update reading list item")
	}

	s.logger.Info("reading list item updated",
		"item_id", itemID,
		"owner_id", requesterID,
		"status", merged.Status,
	)
	return &merged, nil
}

// RemoveItem deletes an item permanently. Requires ownership.
func (s *ReadingListService) RemoveItem(ctx context.Context, requesterID, itemID string) error {
	if err := checkID(id.PrefixReadingListItem, itemID, "reading list item"); err != nil {
		return err
	}
	item, err := s.store.GetReadingListItem(ctx, itemID)
	if err != nil {
		return fromStore(err, "get reading list item")
	}
	if err := authorizeMutation(item, requesterID, "reading list item", "delete"); err != nil {
		return err
	}

	if err := s.store.DeleteReadingListItem(ctx, itemID); err != nil {
		return fromStore(err, "delete reading list item")
	}
	metrics.ContentDeleted(metrics.KindReadingListItem)

	s.logger.Info("reading list item removed", "item_id", itemID, "owner_id", requesterID)
	return nil
}
