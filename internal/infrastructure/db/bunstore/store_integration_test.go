//go:build integration

package bunstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/db/migrations"
)

func TestUserRepo_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pg, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17"),
		postgres.WithDatabase("users"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqldb, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(ctx, sqldb, migrations.DriverPostgres))

	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	repo := NewUserRepo(db)

	u, err := repo.Create(ctx, domain.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Positive(t, u.ID)

	_, err = repo.Create(ctx, domain.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	assert.True(t, domain.Is(err, "email_already_exists"), "got %v", err)

	got, err := repo.Update(ctx, u.ID, domain.UserPatch{Name: strPtr("Anne")})
	require.NoError(t, err)
	assert.Equal(t, "Anne", got.Name)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.True(t, domain.Is(err, "user_not_found"))

	items := NewItemRepo(db)
	it, err := items.Create(ctx, domain.Item{Name: "x"})
	require.NoError(t, err)
	assert.Positive(t, it.ID)
}
