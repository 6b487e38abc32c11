package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/memory"
)

type fakeSeederHasher struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (h *fakeSeederHasher) Hash(pw string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.err != nil {
		return "", h.err
	}
	return "HASH(" + pw + ")", nil
}

func TestSeed_CreatesDemoUserAndItems(t *testing.T) {
	users := memory.NewUserRepo()
	items := memory.NewItemRepo()
	hasher := &fakeSeederHasher{}

	Seed(context.Background(), users, items, hasher, zerolog.Nop())

	u, err := users.GetByEmail(context.Background(), DemoEmail)
	require.NoError(t, err)
	assert.Equal(t, "HASH("+DemoPassword+")", u.PasswordHash)

	list, err := items.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSeed_IsIdempotent(t *testing.T) {
	users := memory.NewUserRepo()
	items := memory.NewItemRepo()
	hasher := &fakeSeederHasher{}

	Seed(context.Background(), users, items, hasher, zerolog.Nop())
	Seed(context.Background(), users, items, hasher, zerolog.Nop())

	all, err := users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 1, hasher.calls)

	list, err := items.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSeed_HashFailure_SkipsUserButSeedsItems(t *testing.T) {
	users := memory.NewUserRepo()
	items := memory.NewItemRepo()
	hasher := &fakeSeederHasher{err: errors.New("boom")}

	Seed(context.Background(), users, items, hasher, zerolog.Nop())

	_, err := users.GetByEmail(context.Background(), DemoEmail)
	assert.True(t, domain.Is(err, "user_not_found"))

	list, err := items.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
