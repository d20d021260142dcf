package providers

import (
	"github.com/samber/do/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/auth"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/config"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/logger"
)

// ProvideTokenService provides the PASETO identity token service. A configured
// key wins; otherwise the key file under the data directory is used.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	opts := auth.Options{
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		Lifetime: cfg.Auth.TokenLifetime,
	}

	if cfg.Auth.KeyHex != "" {
		log.Info("Authentication key loaded from configuration")
		return auth.NewTokenServiceFromHex(cfg.Auth.KeyHex, opts)
	}

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}
	opts.Key = key

	log.Info("Authentication key loaded",
		"issuer", opts.Issuer,
		"token_lifetime", opts.Lifetime,
	)

	return auth.NewTokenService(opts)
}
