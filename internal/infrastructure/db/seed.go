// Package db holds the store-agnostic pieces of the persistence layer.
package db

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederUsers interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

type SeederItems interface {
	List(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, it domain.Item) (domain.Item, error)
}

// DemoEmail and DemoPassword identify the dev seed user.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "DemoPassword123!"
)

// Seed creates a demo user and a few items for local development.
// Safe to call on every start: existing rows are left alone.
func Seed(ctx context.Context, users SeederUsers, items SeederItems, hasher SeederHasher, log zerolog.Logger) {
	seedUser(ctx, users, hasher, log)
	seedItems(ctx, items, log)
}

func seedUser(ctx context.Context, users SeederUsers, hasher SeederHasher, log zerolog.Logger) {
	exists, err := users.ExistsByEmail(ctx, DemoEmail)
	if err != nil {
		log.Warn().Err(err).Msg("seed: user lookup failed")
		return
	}
	if exists {
		return
	}

	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		log.Warn().Err(err).Msg("seed: hash failed")
		return
	}

	u, err := users.Create(ctx, domain.User{Name: "Demo User", Email: DemoEmail, PasswordHash: hash})
	if err != nil {
		// lost a race with another instance
		if domain.Is(err, "email_already_exists") {
			return
		}
		log.Warn().Err(err).Msg("seed: create user failed")
		return
	}
	log.Info().Int64("user_id", u.ID).Str("email", u.Email).Msg("seed: demo user created")
}

func seedItems(ctx context.Context, items SeederItems, log zerolog.Logger) {
	existing, err := items.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("seed: item lookup failed")
		return
	}
	if len(existing) > 0 {
		return
	}

	for _, it := range []domain.Item{
		{Name: "Item 1", Description: "First sample item"},
		{Name: "Item 2", Description: "Second sample item"},
	} {
		if _, err := items.Create(ctx, it); err != nil {
			log.Warn().Err(err).Str("item", it.Name).Msg("seed: create item failed")
			return
		}
	}
	log.Info().Int("count", 2).Msg("seed: items created")
}
