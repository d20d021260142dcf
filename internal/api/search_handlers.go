package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/search"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

func (s *Server) registerSearchRoutes() {
	register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Search blogs and collections",
		Description: "Full-text search over blog titles, bodies, and genres and collection titles, descriptions, and tags. Returns public matches plus the caller's own.",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearch)
}

// SearchInput contains search query parameters.
type SearchInput struct {
	PageParam
	Query string `query:"q" doc:"Search text; empty matches everything visible"`
	Kind  string `query:"kind" doc:"Restrict to blog or collection"`
}

// SearchData is the payload of search responses.
type SearchData struct {
	Results *search.Result `json:"results"`
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*Output[SearchData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Search.Search(ctx, userID, service.SearchRequest{
		Query: input.Query,
		Kind:  input.Kind,
		Page:  input.Page,
	})
	if err != nil {
		return nil, err
	}
	return ok("search results", SearchData{Results: result}), nil
}
