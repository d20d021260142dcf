package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

func (s *Server) registerChatRoutes() {
	register(s.api, huma.Operation{
		OperationID:   "createChat",
		Method:        http.MethodPost,
		Path:          "/chats",
		Summary:       "Create chat",
		Description:   "Starts an empty conversation with the reading assistant",
		Tags:          []string{"Chats"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateChat)

	register(s.api, huma.Operation{
		OperationID: "listChats",
		Method:      http.MethodGet,
		Path:        "/chats",
		Summary:     "List chats",
		Description: "Lists the caller's active chats, most recently updated first",
		Tags:        []string{"Chats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListChats)

	register(s.api, huma.Operation{
		OperationID: "getChat",
		Method:      http.MethodGet,
		Path:        "/chats/{id}",
		Summary:     "Get chat",
		Description: "Returns an active chat owned by the caller",
		Tags:        []string{"Chats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetChat)

	register(s.api, huma.Operation{
		OperationID: "updateChat",
		Method:      http.MethodPatch,
		Path:        "/chats/{id}",
		Summary:     "Update chat",
		Description: "Updates the title, priming context, or model of an active chat",
		Tags:        []string{"Chats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateChat)

	register(s.api, huma.Operation{
		OperationID: "deleteChat",
		Method:      http.MethodDelete,
		Path:        "/chats/{id}",
		Summary:     "Delete chat",
		Description: "Deactivates a chat. It no longer appears anywhere but is kept in storage.",
		Tags:        []string{"Chats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteChat)

	register(s.api, huma.Operation{
		OperationID: "addChatMessage",
		Method:      http.MethodPost,
		Path:        "/chats/{id}/messages",
		Summary:     "Add chat message",
		Description: "Appends a message. A user message is answered by the assistant when one is configured.",
		Tags:        []string{"Chats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddChatMessage)

	register(s.api, huma.Operation{
		OperationID: "getChatHistory",
		Method:      http.MethodGet,
		Path:        "/chats/{id}/history",
		Summary:     "Get chat history",
		Description: "Returns the most recent messages in chronological order",
		Tags:        []string{"Chats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetChatHistory)
}

// ChatPayload is the body of chat create and update requests.
type ChatPayload struct {
	_       struct{} `json:"-" additionalProperties:"true"`
	Title   *string  `json:"title,omitempty" doc:"Chat title; defaults to 'New Chat'"`
	Context *string  `json:"context,omitempty" doc:"Priming text sent to the assistant"`
	Model   *string  `json:"model,omitempty" doc:"Assistant model; defaults to the server's model"`
}

// CreateChatBody wraps the create payload.
type CreateChatBody struct {
	Data ChatPayload `json:"data,omitempty"`
}

// CreateChatInput carries an optional create body.
type CreateChatInput struct {
	Body *CreateChatBody
}

// UpdateChatInput wraps the patch body.
type UpdateChatInput struct {
	IDParam
	Body struct {
		Data ChatPayload `json:"data"`
	}
}

// MessagePayload is one message posted to a chat.
type MessagePayload struct {
	_       struct{} `json:"-" additionalProperties:"true"`
	Role    string   `json:"role,omitempty" doc:"user (default) or assistant"`
	Content string   `json:"content,omitempty" doc:"Message text"`
}

// AddMessageInput wraps a new message.
type AddMessageInput struct {
	IDParam
	Body struct {
		Data MessagePayload `json:"data"`
	}
}

// HistoryInput selects how many recent messages to return.
type HistoryInput struct {
	IDParam
	Limit int `query:"limit" doc:"Number of messages, default 20, at most 100"`
}

// ChatData is the payload of single-chat responses.
type ChatData struct {
	Chat *domain.Chat `json:"chat"`
}

// ChatsData is the payload of chat listings.
type ChatsData struct {
	Chats []*domain.Chat `json:"chats"`
}

// MessagesData is the payload of history responses.
type MessagesData struct {
	Messages []domain.ChatMessage `json:"messages"`
}

func (s *Server) handleCreateChat(ctx context.Context, input *CreateChatInput) (*Output[ChatData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	var data ChatPayload
	if input.Body != nil {
		data = input.Body.Data
	}
	chat, err := s.services.Chat.CreateChat(ctx, userID, service.CreateChatRequest{
		Title:   deref(data.Title),
		Context: deref(data.Context),
		Model:   deref(data.Model),
	})
	if err != nil {
		return nil, err
	}
	return ok("chat created", ChatData{Chat: chat}), nil
}

func (s *Server) handleListChats(ctx context.Context, _ *struct{}) (*Output[ChatsData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	chats, err := s.services.Chat.ListChats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ok("chats retrieved", ChatsData{Chats: chats}), nil
}

func (s *Server) handleGetChat(ctx context.Context, input *IDParam) (*Output[ChatData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	chat, err := s.services.Chat.GetChat(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return ok("chat retrieved", ChatData{Chat: chat}), nil
}

func (s *Server) handleUpdateChat(ctx context.Context, input *UpdateChatInput) (*Output[ChatData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	chat, err := s.services.Chat.UpdateChat(ctx, userID, input.ID, service.UpdateChatRequest{
		Title:   data.Title,
		Context: data.Context,
		Model:   data.Model,
	})
	if err != nil {
		return nil, err
	}
	return ok("chat updated", ChatData{Chat: chat}), nil
}

func (s *Server) handleDeleteChat(ctx context.Context, input *IDParam) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Chat.DeleteChat(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return done("chat deleted"), nil
}

func (s *Server) handleAddChatMessage(ctx context.Context, input *AddMessageInput) (*Output[*service.MessageResult], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	data := input.Body.Data
	result, err := s.services.Chat.AddMessage(ctx, userID, input.ID, service.AddMessageRequest{
		Role:    data.Role,
		Content: data.Content,
	})
	if err != nil {
		return nil, err
	}
	return ok("message added", result), nil
}

func (s *Server) handleGetChatHistory(ctx context.Context, input *HistoryInput) (*Output[MessagesData], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	messages, err := s.services.Chat.History(ctx, userID, input.ID, input.Limit)
	if err != nil {
		return nil, err
	}
	return ok("history retrieved", MessagesData{Messages: messages}), nil
}
