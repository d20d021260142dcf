package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/search"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
)

// SearchPageSize is the number of hits per search page.
const SearchPageSize = 20

// SearchService runs discovery queries over blogs and collections and keeps
// the index populated.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// SearchRequest is a discovery query. Kind is empty, "blog", or "collection".
type SearchRequest struct {
	Query string
	Kind  string
	Page  int
}

// Search returns public matches plus the requester's own private ones.
func (s *SearchService) Search(ctx context.Context, requesterID string, req SearchRequest) (*search.Result, error) {
	kind := search.DocType(strings.TrimSpace(req.Kind))
	switch kind {
	case "", search.DocTypeBlog, search.DocTypeCollection:
	default:
		return nil, domainerrors.Validationf("invalid kind %q: must be blog or collection", req.Kind)
	}

	page := max(req.Page, 1)
	result, err := s.index.Search(ctx, search.Params{
		Query:       req.Query,
		Type:        kind,
		RequesterID: requesterID,
		Limit:       SearchPageSize,
		Offset:      (page - 1) * SearchPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return result, nil
}

// Reindex fills the index from the store when it is empty.
func (s *SearchService) Reindex(ctx context.Context) error {
	n, err := search.Backfill(ctx, s.index, s.store)
	if err != nil {
		return fmt.Errorf("backfill search index: %w", err)
	}
	if n > 0 {
		s.logger.Info("search index rebuilt", "documents", n)
	}
	return nil
}

// DocumentCount reports how many documents the index holds.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
