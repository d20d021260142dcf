package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/ai"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/id"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/metrics"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/policy"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/validation"
)

// DefaultChatTitle is used when a chat is created without a title.
const DefaultChatTitle = "New Chat"

// DefaultSystemPrompt primes the assistant before the chat's own context.
const DefaultSystemPrompt = "You are Boipoka, a friendly reading companion. " +
	"Recommend books, discuss plots without unmarked spoilers, and keep answers concise."

// Assistant produces replies for a conversation.
type Assistant interface {
	Complete(ctx context.Context, req ai.Request) (*ai.Completion, error)
	DefaultModel() string
}

// MessageLimiter decides whether a user may post another message now.
type MessageLimiter interface {
	Allow(key string) bool
}

// ChatOptions configures a ChatService. Assistant and Limiter are optional.
type ChatOptions struct {
	Assistant    Assistant
	Limiter      MessageLimiter
	DefaultModel string
	SystemPrompt string
}

// ChatService manages private assistant conversations. Chats are soft-deleted;
// inactive chats behave as missing on every operation.
type ChatService struct {
	store        *store.Store
	logger       *slog.Logger
	validator    *validation.Validator
	assistant    Assistant
	limiter      MessageLimiter
	defaultModel string
	systemPrompt string
}

// NewChatService creates a new chat service.
func NewChatService(store *store.Store, logger *slog.Logger, opts ChatOptions) *ChatService {
	model := opts.DefaultModel
	if model == "" && opts.Assistant != nil {
		model = opts.Assistant.DefaultModel()
	}
	prompt := opts.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	return &ChatService{
		store:        store,
		logger:       logger,
		validator:    validation.New(),
		assistant:    opts.Assistant,
		limiter:      opts.Limiter,
		defaultModel: model,
		systemPrompt: prompt,
	}
}

// CreateChatRequest contains the optional fields for a new chat.
type CreateChatRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Context string `json:"context" validate:"max=4000"`
	Model   string `json:"model" validate:"max=100"`
}

// CreateChat starts an empty, active chat for the requester.
func (s *ChatService) CreateChat(ctx context.Context, ownerID string, req CreateChatRequest) (*domain.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	chatID, err := id.Generate(id.PrefixChat)
	if err != nil {
		return nil, fmt.Errorf("generate chat ID: %w", err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultChatTitle
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.defaultModel
	}

	now := time.Now()
	chat := &domain.Chat{
		ID:        chatID,
		OwnerID:   ownerID,
		Title:     title,
		Context:   req.Context,
		Model:     model,
		Messages:  []domain.ChatMessage{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateChat(ctx, chat); err != nil {
		return nil, fromStore(err, "create chat")
	}
	metrics.ContentCreated(metrics.KindChat)

	s.logger.Info("chat created", "chat_id", chatID, "owner_id", ownerID, "model", model)
	return chat, nil
}

// ListChats returns the requester's active chats, most recently updated first.
func (s *ChatService) ListChats(ctx context.Context, ownerID string) ([]*domain.Chat, error) {
	chats, err := s.store.ListActiveChats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return nonNil(chats), nil
}

// GetChat returns an active chat owned by the requester.
func (s *ChatService) GetChat(ctx context.Context, requesterID, chatID string) (*domain.Chat, error) {
	return s.loadActive(ctx, requesterID, chatID)
}

// UpdateChatRequest is a partial update. Nil fields are unchanged.
type UpdateChatRequest struct {
	Title   *string `json:"title" validate:"omitnil,notblank,max=200"`
	Context *string `json:"context" validate:"omitnil,max=4000"`
	Model   *string `json:"model" validate:"omitnil,notblank,max=100"`
}

// UpdateChat changes title, context, or model of an active owned chat.
func (s *ChatService) UpdateChat(ctx context.Context, requesterID, chatID string, req UpdateChatRequest) (*domain.Chat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	chat, err := s.loadActive(ctx, requesterID, chatID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		chat.Title = strings.TrimSpace(*req.Title)
	}
	if req.Context != nil {
		chat.Context = *req.Context
	}
	if req.Model != nil {
		chat.Model = strings.TrimSpace(*req.Model)
	}
	chat.Touch()

	if err := s.store.UpdateChat(ctx, chat); err != nil {
		return nil, fromStore(err, "update chat")
	}

	s.logger.Info("chat updated", "chat_id", chatID, "owner_id", requesterID)
	return chat, nil
}

// DeleteChat soft-deletes an active owned chat. The document is kept with
// isActive=false; deleting it again reports not found.
func (s *ChatService) DeleteChat(ctx context.Context, requesterID, chatID string) error {
	chat, err := s.loadActive(ctx, requesterID, chatID)
	if err != nil {
		return err
	}

	chat.Deactivate()
	if err := s.store.UpdateChat(ctx, chat); err != nil {
		return fromStore(err, "deactivate chat")
	}
	metrics.ContentDeleted(metrics.KindChat)

	s.logger.Info("chat deactivated", "chat_id", chatID, "owner_id", requesterID)
	return nil
}

// AddMessageRequest is a message to append.
type AddMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content" validate:"notblank,max=8000"`
}

// MessageResult is the updated chat plus the messages this call appended.
type MessageResult struct {
	Chat     *domain.Chat         `json:"chat"`
	Messages []domain.ChatMessage `json:"messages"`
}

// AddMessage appends a message to an active owned chat. When the message comes
// from the user and an assistant is configured, the assistant's reply is
// appended too. If the assistant fails, the user message stays persisted and
// an INTERNAL error is returned.
func (s *ChatService) AddMessage(ctx context.Context, requesterID, chatID string, req AddMessageRequest) (*MessageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id.PrefixChat, chatID, "chat"); err != nil {
		return nil, err
	}
	role := domain.ChatRole(strings.TrimSpace(req.Role))
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domainerrors.Validationf("invalid role %q: must be user or assistant", req.Role)
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	chat, err := s.loadActive(ctx, requesterID, chatID)
	if err != nil {
		return nil, err
	}
	// Only requests that would append count against the limit.
	if s.limiter != nil && !s.limiter.Allow(requesterID) {
		return nil, domainerrors.RateLimited("too many messages, slow down")
	}

	msg := chat.AppendMessage(role, req.Content)
	if err := s.store.UpdateChat(ctx, chat); err != nil {
		return nil, fromStore(err, "append chat message")
	}
	metrics.ChatMessage(string(role))

	result := &MessageResult{Chat: chat, Messages: []domain.ChatMessage{msg}}
	if role != domain.RoleUser || s.assistant == nil {
		return result, nil
	}

	reply, err := s.reply(ctx, chat)
	if err != nil {
		s.logger.Error("assistant reply failed",
			"chat_id", chatID,
			"owner_id", requesterID,
			"error", err,
		)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to get a response from the assistant")
	}

	assistantMsg := chat.AppendMessage(domain.RoleAssistant, reply.Content)
	chat.Metadata.TotalTokens += reply.TotalTokens
	if err := s.store.UpdateChat(ctx, chat); err != nil {
		return nil, fromStore(err, "append assistant message")
	}
	metrics.ChatMessage(string(domain.RoleAssistant))

	result.Messages = append(result.Messages, assistantMsg)
	return result, nil
}

func (s *ChatService) reply(ctx context.Context, chat *domain.Chat) (*ai.Completion, error) {
	system := s.systemPrompt
	if c := strings.TrimSpace(chat.Context); c != "" {
		system += "\n\n" + c
	}

	started := time.Now()
	completion, err := s.assistant.Complete(ctx, ai.Request{
		Model:    chat.Model,
		System:   system,
		Messages: chat.History(MaxHistoryLimit),
	})
	if err != nil {
		metrics.AssistantCall(started, 0, err)
		return nil, err
	}
	metrics.AssistantCall(started, completion.TotalTokens, nil)
	return completion, nil
}

// History returns the last limit messages of an active owned chat in
// chronological order. Zero selects the default; larger than the maximum is clamped.
func (s *ChatService) History(ctx context.Context, requesterID, chatID string, limit int) ([]domain.ChatMessage, error) {
	switch {
	case limit < 0:
		return nil, domainerrors.Validation("limit must be a positive number")
	case limit == 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	chat, err := s.loadActive(ctx, requesterID, chatID)
	if err != nil {
		return nil, err
	}
	history := chat.History(limit)
	if history == nil {
		history = []domain.ChatMessage{}
	}
	return history, nil
}

// loadActive fetches a chat the requester owns. Missing, inactive, and foreign
// chats are all reported as not found.
func (s *ChatService) loadActive(ctx context.Context, requesterID, chatID string) (*domain.Chat, error) {
	if err := checkID(id.PrefixChat, chatID, "chat"); err != nil {
		return nil, err
	}
	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		return nil, fromStore(err, "get chat")
	}
	if !chat.IsActive {
		return nil, domainerrors.NotFound("chat not found")
	}
	if !policy.SameUser(chat, requesterID) {
		metrics.AccessDenied(metrics.KindChat, "read")
		return nil, domainerrors.NotFound("chat not found")
	}
	return chat, nil
}
