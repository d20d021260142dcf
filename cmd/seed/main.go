// Package main seeds a Boipoka data directory with demo users and content.
//
// It reads the same flags and environment as the API server, so the tokens it
// prints verify against a server started on the same data path. Stop the server
// first: the database allows a single process.
//
// Usage:
//
//	go run ./cmd/seed -data-path ~/Boipoka/data
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/auth"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/config"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/logger"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/search"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/service"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
)

type demoUser struct {
	uid      string
	name     string
	username string
	bio      string
	genres   []string
}

var demoUsers = []demoUser{
	{"demo-ayesha", "Ayesha Rahman", "ayesha", "Slow reader, fast talker.", []string{"fantasy", "literary fiction"}},
	{"demo-tanvir", "Tanvir Hasan", "tanvir", "Mostly history and the odd thriller.", []string{"history", "thriller"}},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Level: logger.ParseLevel(cfg.Logger.Level), Environment: cfg.App.Environment})

	st, err := store.New(cfg.Data.DBPath(), log.Logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	index, err := search.NewSearchIndex(search.Options{DataPath: cfg.Data.SearchPath(), Logger: log.Logger})
	if err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	defer index.Close()
	st.SetSearchIndexer(search.NewIndexer(index))

	tokens, err := tokenService(cfg)
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(st, tokens, log.Logger)
	blogs := service.NewBlogService(st, log.Logger)
	collections := service.NewCollectionService(st, log.Logger)
	readingList := service.NewReadingListService(st, log.Logger)

	ctx := context.Background()

	for _, du := range demoUsers {
		ident := domain.Identity{UID: du.uid, Email: du.username + "@example.com", Name: du.name}

		user, created, err := ensureUser(ctx, authSvc, st, ident, du)
		if err != nil {
			return err
		}

		token, err := tokens.Issue(ident)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Printf("%-8s %s\n  Authorization: Bearer %s\n", du.username, user.ID, token)

		if !created {
			continue
		}
		if err := seedContent(ctx, user.ID, blogs, collections, readingList); err != nil {
			return fmt.Errorf("seed %s: %w", du.username, err)
		}
	}

	return nil
}

func tokenService(cfg *config.Config) (*auth.TokenService, error) {
	opts := auth.Options{
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		Lifetime: cfg.Auth.TokenLifetime,
	}
	if cfg.Auth.KeyHex != "" {
		return auth.NewTokenServiceFromHex(cfg.Auth.KeyHex, opts)
	}
	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}
	opts.Key = key
	return auth.NewTokenService(opts)
}

// ensureUser signs the identity up, or returns the existing user on reruns.
func ensureUser(ctx context.Context, authSvc *service.AuthService, st *store.Store, ident domain.Identity, du demoUser) (*domain.User, bool, error) {
	user, err := authSvc.Signup(ctx, ident, service.SignupRequest{
		Username:         du.username,
		Bio:              du.bio,
		InterestedGenres: du.genres,
	})
	if err == nil {
		return user, true, nil
	}
	existing, getErr := st.GetUserByUID(ctx, ident.UID)
	if getErr != nil {
		return nil, false, fmt.Errorf("signup %s: %w", du.username, err)
	}
	return existing, false, nil
}

func seedContent(
	ctx context.Context,
	userID string,
	blogs *service.BlogService,
	collections *service.CollectionService,
	readingList *service.ReadingListService,
) error {
	noSpoilers := false

	if _, err := blogs.CreateBlog(ctx, userID, service.CreateBlogRequest{
		Title:        "Why I reread Piranesi every winter",
		Content:      "The House is a mood more than a setting.",
		Genres:       []string{"fantasy"},
		SpoilerAlert: &noSpoilers,
		Visibility:   string(domain.VisibilityPublic),
	}); err != nil {
		return err
	}
	if _, err := blogs.CreateBlog(ctx, userID, service.CreateBlogRequest{
		Title:        "Half-formed thoughts",
		Content:      "Notes to self.",
		SpoilerAlert: &noSpoilers,
		Visibility:   string(domain.VisibilityPrivate),
	}); err != nil {
		return err
	}

	if _, err := collections.CreateCollection(ctx, userID, service.CreateCollectionRequest{
		Title:       "Comfort reads",
		Description: "Books that feel like a blanket.",
		Tags:        []string{"cozy"},
		Books:       []string{"zyTCAlFPjgYC", "wrOQLV6xB-wC"},
		Visibility:  string(domain.VisibilityPublic),
	}); err != nil {
		return err
	}

	started := time.Now().AddDate(0, 0, -10)
	if _, err := readingList.AddItem(ctx, userID, service.AddItemRequest{
		VolumeID:   "zyTCAlFPjgYC",
		Status:     string(domain.StatusReading),
		StartedAt:  &started,
		Visibility: string(domain.VisibilityPublic),
	}); err != nil {
		return err
	}
	_, err := readingList.AddItem(ctx, userID, service.AddItemRequest{
		VolumeID: "wrOQLV6xB-wC",
		Status:   string(domain.StatusInterested),
	})
	return err
}
