package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

func (s *Server) registerReadingListRoutes() {
	register(s.api, huma.Operation{
		OperationID: "getMyReadingList",
		Method:      http.MethodGet,
		Path:        "/reading-list/me",
		Summary:     "Get my reading list",
		Description: "Lists every item of the caller, optionally filtered by status. 20 per page.",
		Tags:        []string{"Reading List"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyReadingList)

	register(s.api, huma.Operation{
		OperationID: "getUserReadingList",
		Method:      http.MethodGet,
		Path:        "/reading-list/{id}",
		Summary:     "Get a user's reading list",
		Description: "Lists the public items of the user with this id. Private items are excluded even for the owner.",
		Tags:        []string{"Reading List"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserReadingList)

	register(s.api, huma.Operation{
		OperationID: "getReadingListItem",
		Method:      http.MethodGet,
		Path:        "/reading-list/items/{id}",
		Summary:     "Get reading list item",
		Description: "Returns an item if it is public or owned by the caller",
		Tags:        []string{"Reading List"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetReadingListItem)

	register(s.api, huma.Operation{
		OperationID: "addReadingListItem",
		Method:      http.MethodPost,
		Path:        "/reading-list",
		Summary:     "Add to reading list",
		Description: "Tracks a volume. Each volume can appear once per user.",
		Tags:        []string{"Reading List"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddReadingListItem)

	register(s.api, huma.Operation{
		OperationID: "updateReadingListItem",
		Method:      http.MethodPatch,
		Path:        "/reading-list/{id}",
		Summary:     "Update reading list item",
		Description: "Applies the supplied fields and validates the resulting record. A null date clears it. Owner only.",
		Tags:        []string{"Reading List"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReadingListItem)

	register(s.api, huma.Operation{
		OperationID: "removeReadingListItem",
		Method:      http.MethodDelete,
		Path:        "/reading-list/{id}",
		Summary:     "Remove reading list item",
		Description: "Permanently removes an item. Owner only.",
		Tags:        []string{"Reading List"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveReadingListItem)
}

// MyReadingListInput filters the caller's list.
type MyReadingListInput struct {
	PageParam
	Status string `query:"status" doc:"Only items with this status: interested, reading, or completed"`
}

// UserReadingListInput selects a user's public list.
type UserReadingListInput struct {
	PageParam
	ID string `path:"id" doc:"User id"`
}

// AddItemPayload is the body of reading list create requests.
type AddItemPayload struct {
	_           struct{}  `json:"-" additionalProperties:"true"`
	VolumeID    string    `json:"volumeId,omitempty" doc:"External catalog volume id"`
	Status      string    `json:"status,omitempty" doc:"interested, reading, or completed"`
	StartedAt   *FlexTime `json:"startedAt,omitempty" doc:"When reading started; required for reading and completed"`
	CompletedAt *FlexTime `json:"completedAt,omitempty" doc:"When reading finished; required for completed"`
	Visibility  *string   `json:"visibility,omitempty" enum:"public,private,friends" doc:"Defaults to public"`
}

// AddItemInput wraps the create body.
type AddItemInput struct {
	Body struct {
		Data AddItemPayload `json:"data"`
	}
}

// UpdateItemPayload is a partial update. Absent fields are unchanged.
type UpdateItemPayload struct {
	_           struct{}     `json:"-" additionalProperties:"true"`
	Status      *string      `json:"status,omitempty" doc:"interested, reading, or completed"`
	StartedAt   NullableTime `json:"startedAt,omitempty" doc:"New start date, or null to clear"`
	CompletedAt NullableTime `json:"completedAt,omitempty" doc:"New completion date, or null to clear"`
	Visibility  *string      `json:"visibility,omitempty" enum:"public,private,friends" doc:"New visibility"`
}

// UpdateItemInput wraps the patch body.
type UpdateItemInput struct {
	IDParam
	Body struct {
		Data UpdateItemPayload `json:"data"`
	}
}

// ReadingListItemData is the payload of create and update responses.
type ReadingListItemData struct {
	Item *domain.ReadingListItem `json:"readingList"`
}

// ReadingListItemLookup is the payload of single-item reads.
type ReadingListItemLookup struct {
	Item *domain.ReadingListItem `json:"readingListItem"`
}

func (s *Server) handleGetMyReadingList(ctx context.Context, input *MyReadingListInput) (*Output[*service.ReadingList], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.services.ReadingList.ListMine(ctx, userID, input.Status, input.Page)
	if err != nil {
		return nil, err
	}
	return ok("reading list retrieved", list), nil
}

func (s *Server) handleGetUserReadingList(ctx context.Context, input *UserReadingListInput) (*Output[*service.ReadingList], error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	list, err := s.services.ReadingList.ListForUser(ctx, input.ID, input.Page)
	if err != nil {
		return nil, err
	}
	return ok("reading list retrieved", list), nil
}

func (s *Server) handleGetReadingListItem(ctx context.Context, input *IDParam) (*Output[ReadingListItemLookup], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.services.ReadingList.GetItem(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return ok("reading list item retrieved", ReadingListItemLookup{Item: item}), nil
}

func (s *Server) handleAddReadingListItem(ctx context.Context, input *AddItemInput) (*Output[ReadingListItemData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	item, err := s.services.ReadingList.AddItem(ctx, userID, service.AddItemRequest{
		VolumeID:    data.VolumeID,
		Status:      data.Status,
		StartedAt:   data.StartedAt.Ptr(),
		CompletedAt: data.CompletedAt.Ptr(),
		Visibility:  deref(data.Visibility),
	})
	if err != nil {
		return nil, err
	}
	return ok("added to reading list", ReadingListItemData{Item: item}), nil
}

func (s *Server) handleUpdateReadingListItem(ctx context.Context, input *UpdateItemInput) (*Output[ReadingListItemData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	item, err := s.services.ReadingList.UpdateItem(ctx, userID, input.ID, service.UpdateItemRequest{
		Status:      data.Status,
		StartedAt:   data.StartedAt.Optional(),
		CompletedAt: data.CompletedAt.Optional(),
		Visibility:  data.Visibility,
	})
	if err != nil {
		return nil, err
	}
	return ok("reading list item updated", ReadingListItemData{Item: item}), nil
}

func (s *Server) handleRemoveReadingListItem(ctx context.Context, input *IDParam) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.ReadingList.RemoveItem(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return done("removed from reading list"), nil
}
