package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

func (ts *testServer) createCollection(t *testing.T, header string, data map[string]any) *domain.Collection {
	t.Helper()
	resp := ts.api.Post("/collections", header, map[string]any{"data": data})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[CollectionData](t, resp.Body.Bytes()).Data.Collection
}

func volumeIDs(c *domain.Collection) []string {
	ids := make([]string, 0, len(c.Books))
	for _, b := range c.Books {
		ids = append(ids, b.VolumeID)
	}
	return ids
}

func TestCollectionBooksAreASet(t *testing.T) {
	ts := setupTestServer(t)
	alice, _ := ts.registerUser(t, "alice")

	coll := ts.createCollection(t, alice, map[string]any{
		"title": "Cozy mysteries",
		"books": []string{"v1", "v1", "v2"},
	})
	assert.Equal(t, []string{"v1", "v2"}, volumeIDs(coll))

	for range 2 {
		resp := ts.api.Post("/collections/"+coll.ID+"/books", alice, map[string]any{
			"data": map[string]any{"volumeId": "v3"},
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}

	resp := ts.api.Get("/collections/"+coll.ID, alice)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"v1", "v2", "v3"}, volumeIDs(decode[CollectionData](t, resp.Body.Bytes()).Data.Collection))

	// Removing an absent volume is a no-op.
	resp = ts.api.Delete("/collections/"+coll.ID+"/books/missing", alice)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Len(t, decode[CollectionData](t, resp.Body.Bytes()).Data.Collection.Books, 3)

	resp = ts.api.Delete("/collections/"+coll.ID+"/books/v1", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"v2", "v3"}, volumeIDs(decode[CollectionData](t, resp.Body.Bytes()).Data.Collection))
}

func TestUpdateCollectionAddAndRemoveBook(t *testing.T) {
	ts := setupTestServer(t)
	alice, _ := ts.registerUser(t, "alice")

	coll := ts.createCollection(t, alice, map[string]any{"title": "Classics", "books": []string{"odyssey"}})

	resp := ts.api.Patch("/collections/"+coll.ID, alice, map[string]any{
		"data": map[string]any{
			"description": "Old and good",
			"addBook":     "iliad",
			"removeBook":  "odyssey",
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	updated := decode[CollectionData](t, resp.Body.Bytes()).Data.Collection
	assert.Equal(t, "Classics", updated.Title)
	assert.Equal(t, "Old and good", updated.Description)
	assert.Equal(t, []string{"iliad"}, volumeIDs(updated))

	resp = ts.api.Patch("/collections/"+coll.ID, alice, map[string]any{
		"data": map[string]any{"addBook": "iliad"},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[CollectionData](t, resp.Body.Bytes()).Data.Collection.Books, 1)

	resp = ts.api.Patch("/collections/"+coll.ID, alice, map[string]any{
		"data": map[string]any{"title": "   "},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCollectionOwnership(t *testing.T) {
	ts := setupTestServer(t)
	alice, aliceID := ts.registerUser(t, "alice")
	bob, _ := ts.registerUser(t, "bob")

	open := ts.createCollection(t, alice, map[string]any{"title": "Shared shelf"})
	closed := ts.createCollection(t, alice, map[string]any{"title": "Wishlist", "visibility": "private"})

	resp := ts.api.Get("/collections/"+open.ID, bob)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/collections/"+closed.ID, bob)
	require.Equal(t, http.StatusForbidden, resp.Code)

	for _, req := range []struct {
		name string
		code int
	}{
		{"patch", ts.api.Patch("/collections/"+open.ID, bob, map[string]any{"data": map[string]any{"title": "x"}}).Code},
		{"add book", ts.api.Post("/collections/"+open.ID+"/books", bob, map[string]any{"data": map[string]any{"volumeId": "v"}}).Code},
		{"remove book", ts.api.Delete("/collections/"+open.ID+"/books/v", bob).Code},
		{"delete", ts.api.Delete("/collections/"+open.ID, bob).Code},
	} {
		assert.Equal(t, http.StatusForbidden, req.code, req.name)
	}

	resp = ts.api.Get("/collections?owner="+aliceID, bob)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[service.CollectionList](t, resp.Body.Bytes()).Data
	require.Len(t, list.Collections, 1)
	assert.Equal(t, open.ID, list.Collections[0].ID)

	resp = ts.api.Get("/collections?owner=me", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[service.CollectionList](t, resp.Body.Bytes()).Data.Collections, 2)

	resp = ts.api.Delete("/collections/"+open.ID, alice)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/collections/"+open.ID, alice).Code)
}

func TestSearchRespectsVisibility(t *testing.T) {
	ts := setupTestServer(t)
	alice, _ := ts.registerUser(t, "alice")
	bob, _ := ts.registerUser(t, "bob")

	ts.createCollection(t, alice, map[string]any{"title": "Dragon books", "tags": []string{"fantasy"}})
	ts.createCollection(t, alice, map[string]any{"title": "Dragon secrets", "visibility": "private"})
	ts.createBlog(t, alice, map[string]any{"title": "Why dragons matter", "content": "wings", "spoilerAlert": false})

	resp := ts.api.Get("/search?q=dragon", bob)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	results := decode[struct {
		Results struct {
			Total uint64 `json:"total"`
			Hits  []struct {
				Title string `json:"title"`
				Type  string `json:"type"`
			} `json:"hits"`
		} `json:"results"`
	}](t, resp.Body.Bytes()).Data.Results

	titles := make([]string, 0, len(results.Hits))
	for _, h := range results.Hits {
		titles = append(titles, h.Title)
	}
	assert.Contains(t, titles, "Dragon books")
	assert.Contains(t, titles, "Why dragons matter")
	assert.NotContains(t, titles, "Dragon secrets")

	resp = ts.api.Get("/search?q=dragon", alice)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Dragon secrets")

	resp = ts.api.Get("/search?q=dragon&kind=blog", bob)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "Dragon books")
}
