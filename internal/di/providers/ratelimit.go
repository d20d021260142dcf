package providers

import (
	"github.com/samber/do/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/config"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/ratelimit"
)

// IPLimiterHandle throttles HTTP requests per client IP. Limiter is nil when disabled.
type IPLimiterHandle struct {
	Limiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *IPLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ChatLimiterHandle throttles chat messages per user. Limiter is nil when disabled.
type ChatLimiterHandle struct {
	Limiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *ChatLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ProvideIPLimiter provides the per-IP request limiter. Zero requests per minute disables it.
func ProvideIPLimiter(i do.Injector) (*IPLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.Server.RequestsPerMinute == 0 {
		return &IPLimiterHandle{}, nil
	}
	return &IPLimiterHandle{Limiter: ratelimit.PerMinute(cfg.Server.RequestsPerMinute)}, nil
}

// ProvideChatLimiter provides the per-user chat message limiter.
func ProvideChatLimiter(i do.Injector) (*ChatLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.Assistant.MessagesPerMinute == 0 {
		return &ChatLimiterHandle{}, nil
	}
	return &ChatLimiterHandle{Limiter: ratelimit.PerMinute(cfg.Assistant.MessagesPerMinute)}, nil
}
