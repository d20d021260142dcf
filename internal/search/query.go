package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a discovery query.
type Params struct {
	Query string
	// Type restricts results to one document kind; empty searches all.
	Type DocType
	// RequesterID sees public documents plus their own.
	RequesterID string
	Limit       int
	Offset      int
}

// Hit is one matched document.
type Hit struct {
	ID    string  `json:"id"`
	Type  DocType `json:"type"`
	Title string  `json:"title"`
	Owner string  `json:"owner"`
	Score float64 `json:"score"`
}

// Result is a page of hits.
type Result struct {
	Query string `json:"query"`
	Total uint64 `json:"total"`
	Hits  []Hit  `json:"hits"`
}

// Search runs a relevance-ranked query restricted to what the requester may see.
func (s *SearchIndex) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	req.Fields = []string{"type", "title", "owner"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query: params.Query,
		Total: res.Total,
		Hits:  make([]Hit, 0, len(res.Hits)),
	}
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if t, ok := h.Fields["type"].(string); ok {
			hit.Type = DocType(t)
		}
		if t, ok := h.Fields["title"].(string); ok {
			hit.Title = t
		}
		if o, ok := h.Fields["owner"].(string); ok {
			hit.Owner = o
		}
		result.Hits = append(result.Hits, hit)
	}
	return result, nil
}

// buildQuery combines the text match with the type and visibility filters.
func buildQuery(params Params) query.Query {
	var must []query.Query

	text := strings.TrimSpace(params.Query)
	if text == "" {
		must = append(must, bleve.NewMatchAllQuery())
	} else {
		title := bleve.NewMatchQuery(text)
		title.SetField("title")
		title.SetBoost(3)

		titlePrefix := bleve.NewPrefixQuery(strings.ToLower(text))
		titlePrefix.SetField("title")

		body := bleve.NewMatchQuery(text)
		body.SetField("body")

		tag := bleve.NewTermQuery(strings.ToLower(text))
		tag.SetField("tags")
		tag.SetBoost(2)

		must = append(must, bleve.NewDisjunctionQuery(title, titlePrefix, body, tag))
	}

	if params.Type != "" {
		typeQuery := bleve.NewTermQuery(string(params.Type))
		typeQuery.SetField("type")
		must = append(must, typeQuery)
	}

	public := bleve.NewTermQuery("public")
	public.SetField("visibility")
	visible := []query.Query{public}
	if params.RequesterID != "" {
		own := bleve.NewTermQuery(params.RequesterID)
		own.SetField("owner")
		visible = append(visible, own)
	}
	must = append(must, bleve.NewDisjunctionQuery(visible...))

	return bleve.NewConjunctionQuery(must...)
}
