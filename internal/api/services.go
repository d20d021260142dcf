package api

import (
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

// Services groups the service layer dependencies of the HTTP handlers.
type Services struct {
	Auth        *service.AuthService
	Profile     *service.ProfileService
	Blog        *service.BlogService
	Collection  *service.CollectionService
	ReadingList *service.ReadingListService
	Chat        *service.ChatService
	Search      *service.SearchService
}
