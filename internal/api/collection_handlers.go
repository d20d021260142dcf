package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

func (s *Server) registerCollectionRoutes() {
	register(s.api, huma.Operation{
		OperationID: "listCollections",
		Method:      http.MethodGet,
		Path:        "/collections",
		Summary:     "List collections",
		Description: "Lists public collections, every collection of the caller (owner=me), or the public collections of one user. Newest first, 12 per page.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCollections)

	register(s.api, huma.Operation{
		OperationID: "getCollection",
		Method:      http.MethodGet,
		Path:        "/collections/{id}",
		Summary:     "Get collection",
		Description: "Returns a collection if it is public or owned by the caller",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCollection)

	register(s.api, huma.Operation{
		OperationID:   "createCollection",
		Method:        http.MethodPost,
		Path:          "/collections",
		Summary:       "Create collection",
		Description:   "Creates a collection owned by the caller",
		Tags:          []string{"Collections"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCollection)

	register(s.api, huma.Operation{
		OperationID: "updateCollection",
		Method:      http.MethodPatch,
		Path:        "/collections/{id}",
		Summary:     "Update collection",
		Description: "Updates the supplied fields, then applies addBook and removeBook. Owner only.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCollection)

	register(s.api, huma.Operation{
		OperationID: "deleteCollection",
		Method:      http.MethodDelete,
		Path:        "/collections/{id}",
		Summary:     "Delete collection",
		Description: "Permanently deletes a collection. Owner only.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCollection)

	register(s.api, huma.Operation{
		OperationID: "addBookToCollection",
		Method:      http.MethodPost,
		Path:        "/collections/{id}/books",
		Summary:     "Add book to collection",
		Description: "Appends a volume. Adding a volume that is already present changes nothing.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddBookToCollection)

	register(s.api, huma.Operation{
		OperationID: "removeBookFromCollection",
		Method:      http.MethodDelete,
		Path:        "/collections/{id}/books/{volumeId}",
		Summary:     "Remove book from collection",
		Description: "Removes a volume. Removing an absent volume changes nothing.",
		Tags:        []string{"Collections"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveBookFromCollection)
}

// ListCollectionsInput contains parameters for listing collections.
type ListCollectionsInput struct {
	PageParam
	Owner  string `query:"owner" doc:"'me' for your own collections, or a user id for that user's public collections"`
	Search string `query:"search" doc:"Case-insensitive title substring"`
}

// CollectionPayload is the body of collection create and update requests.
type CollectionPayload struct {
	_           struct{} `json:"-" additionalProperties:"true"`
	Title       *string  `json:"title,omitempty" doc:"Collection title; required on create"`
	Description *string  `json:"description,omitempty" doc:"Free-form description"`
	Tags        []string `json:"tags,omitempty" doc:"Tags; replaces the list on update"`
	Books       []string `json:"books,omitempty" doc:"Initial volume ids (create only)"`
	Visibility  *string  `json:"visibility,omitempty" enum:"public,private,friends" doc:"Defaults to public"`
	AddBook     *string  `json:"addBook,omitempty" doc:"Volume id to add (update only)"`
	RemoveBook  *string  `json:"removeBook,omitempty" doc:"Volume id to remove (update only)"`
}

// CollectionInput wraps a collection create body.
type CollectionInput struct {
	Body struct {
		Data CollectionPayload `json:"data"`
	}
}

// UpdateCollectionInput wraps a collection patch.
type UpdateCollectionInput struct {
	IDParam
	Body struct {
		Data CollectionPayload `json:"data"`
	}
}

// BookPayload names a volume to add to a collection.
type BookPayload struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	VolumeID string   `json:"volumeId" doc:"External catalog volume id"`
}

// AddBookInput names the volume to add.
type AddBookInput struct {
	IDParam
	Body struct {
		Data BookPayload `json:"data"`
	}
}

// RemoveBookInput names the volume to remove.
type RemoveBookInput struct {
	IDParam
	VolumeID string `path:"volumeId" doc:"External catalog volume id"`
}

// CollectionData is the payload of single-collection responses.
type CollectionData struct {
	Collection *domain.Collection `json:"collection"`
}

func (s *Server) handleListCollections(ctx context.Context, input *ListCollectionsInput) (*Output[*service.CollectionList], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Collection.ListCollections(ctx, userID, service.ListCollectionsRequest{
		Owner:  input.Owner,
		Search: input.Search,
		Page:   input.Page,
	})
	if err != nil {
		return nil, err
	}
	return ok("collections retrieved", list), nil
}

func (s *Server) handleGetCollection(ctx context.Context, input *IDParam) (*Output[CollectionData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	coll, err := s.services.Collection.GetCollection(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return ok("collection retrieved", CollectionData{Collection: coll}), nil
}

func (s *Server) handleCreateCollection(ctx context.Context, input *CollectionInput) (*Output[CollectionData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	coll, err := s.services.Collection.CreateCollection(ctx, userID, service.CreateCollectionRequest{
		Title:       deref(data.Title),
		Description: deref(data.Description),
		Tags:        data.Tags,
		Books:       data.Books,
		Visibility:  deref(data.Visibility),
	})
	if err != nil {
		return nil, err
	}
	return ok("collection created", CollectionData{Collection: coll}), nil
}

func (s *Server) handleUpdateCollection(ctx context.Context, input *UpdateCollectionInput) (*Output[CollectionData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	coll, err := s.services.Collection.UpdateCollection(ctx, userID, input.ID, service.UpdateCollectionRequest{
		Title:       data.Title,
		Description: data.Description,
		Tags:        data.Tags,
		Visibility:  data.Visibility,
		AddBook:     data.AddBook,
		RemoveBook:  data.RemoveBook,
	})
	if err != nil {
		return nil, err
	}
	return ok("collection updated", CollectionData{Collection: coll}), nil
}

func (s *Server) handleDeleteCollection(ctx context.Context, input *IDParam) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Collection.DeleteCollection(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return done("collection deleted"), nil
}

func (s *Server) handleAddBookToCollection(ctx context.Context, input *AddBookInput) (*Output[CollectionData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	coll, err := s.services.Collection.AddBook(ctx, userID, input.ID, input.Body.Data.VolumeID)
	if err != nil {
		return nil, err
	}
	return ok("book added", CollectionData{Collection: coll}), nil
}

func (s *Server) handleRemoveBookFromCollection(ctx context.Context, input *RemoveBookInput) (*Output[CollectionData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	coll, err := s.services.Collection.RemoveBook(ctx, userID, input.ID, input.VolumeID)
	if err != nil {
		return nil, err
	}
	return ok("book removed", CollectionData{Collection: coll}), nil
}
