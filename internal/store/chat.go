package store

import (
	"cmp"
	"context"
	"errors"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

// ErrChatNotFound is returned when a chat id matches nothing or the chat is inactive.
var ErrChatNotFound = ErrNotFound.WithMessage("chat not found")

func (s *Store) initChats() {
	s.Chats = NewEntity(s, "chat:", func(c *domain.Chat) string { return c.ID }).
		WithLookup("owner", func(c *domain.Chat) []string { return []string{c.OwnerID} })
}

// CreateChat stores a new chat.
func (s *Store) CreateChat(ctx context.Context, c *domain.Chat) error {
	return s.Chats.Create(ctx, c)
}

// GetChat returns a chat by id regardless of IsActive. Services hide inactive chats.
func (s *Store) GetChat(ctx context.Context, chatID string) (*domain.Chat, error) {
	c, err := s.Chats.Get(ctx, chatID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrChatNotFound
	}
	return c, err
}

// UpdateChat persists a chat, including soft deletes.
func (s *Store) UpdateChat(ctx context.Context, c *domain.Chat) error {
	err := s.Chats.Update(ctx, c)
	if errors.Is(err, ErrNotFound) {
		return ErrChatNotFound
	}
	return err
}

// ListActiveChats returns the owner's active chats, most recently updated first.
func (s *Store) ListActiveChats(ctx context.Context, ownerID string) ([]*domain.Chat, error) {
	result, err := s.Chats.Find(ctx, Query[domain.Chat]{
		Lookup:      "owner",
		LookupValue: ownerID,
		Filter:      func(c *domain.Chat) bool { return c.IsActive },
		Compare: func(a, b *domain.Chat) int {
			return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano())
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}
