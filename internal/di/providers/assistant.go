package providers

import (
	"github.com/samber/do/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/ai"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/config"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/logger"
)

// AssistantHandle holds the completion client. Client is nil when the assistant is off.
type AssistantHandle struct {
	Client *ai.Client
}

// ProvideAssistant provides the chat completion client. Without an API key
// against the hosted endpoint the assistant is disabled rather than failing startup.
func ProvideAssistant(i do.Injector) (*AssistantHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Assistant.Enabled {
		log.Info("Assistant disabled by configuration")
		return &AssistantHandle{}, nil
	}
	if cfg.Assistant.APIKey == "" && cfg.Assistant.BaseURL == "" {
		log.Warn("Assistant API key not set, chat replies are disabled")
		return &AssistantHandle{}, nil
	}

	client := ai.NewClient(ai.Config{
		BaseURL:      cfg.Assistant.BaseURL,
		APIKey:       cfg.Assistant.APIKey,
		DefaultModel: cfg.Assistant.Model,
		MaxRetries:   2,
	}, log.Logger)

	log.Info("Assistant configured", "model", cfg.Assistant.Model, "base_url", cfg.Assistant.BaseURL)

	return &AssistantHandle{Client: client}, nil
}
