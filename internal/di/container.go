// Package di provides dependency injection configuration for the Boipoka server.
package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/auth"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/config"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/di/providers"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/logger"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Persistence
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Identity and throttling
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideIPLimiter)
	do.Provide(injector, providers.ProvideChatLimiter)
	do.Provide(injector, providers.ProvideAssistant)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideBlogService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideReadingListService)
	do.Provide(injector, providers.ProvideChatService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) (err error) {
	// MustInvoke panics on provider errors; surface them as a bootstrap failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bootstrap: %v", r)
		}
	}()

	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.BlogService](injector)
	_ = do.MustInvoke[*service.CollectionService](injector)
	_ = do.MustInvoke[*service.ReadingListService](injector)
	_ = do.MustInvoke[*service.ChatService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
