package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/relaypage/internal/shared/pagination"
	"github.com/davicafu/relaypage/internal/user/domain"
)

func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		t.Skip("DATABASE_URL no está configurada, saltando test de integración con Postgres")
	}

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, InitPostgres(db))

	t.Cleanup(func() {
		db.Exec("DELETE FROM user_tags")
		db.Exec("DELETE FROM users")
		db.Close()
	})
	return db
}

func TestUserRepoPostgres_ExcludeTag(t *testing.T) {
	// Arrange
	repo := NewUserRepoPostgres(setupPostgresTestDB(t))
	ctx := context.Background()
	org := uuid.NewString()
	var users []*domain.User
	for _, name := range []string{"Ana", "Andrés"} {
		u, err := domain.NewUser(org, name+"@example.com", name)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, u))
		users = append(users, u)
	}
	tag := uuid.NewString()
	require.NoError(t, repo.Tag(ctx, users[1].ID, tag))
	require.NoError(t, repo.Tag(ctx, users[1].ID, tag))

	// Act
	filter := domain.UserFilter{NamePrefix: "an", ExcludeTagID: tag}
	args := pagination.NormalizedArgs[string]{Direction: pagination.Forward, Limit: 11}
	conn, err := pagination.Paginate[*domain.User](ctx, repo, pagination.NewScan(args, filter.Criteria(org)), args)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, conn.TotalCount)
	require.Len(t, conn.Edges, 1)
	assert.Equal(t, users[0].ID, conn.Edges[0].Node.ID)

	assert.ErrorIs(t, repo.Create(ctx, users[0]), domain.ErrUserAlreadyExists)
}

func TestUserRepoPostgres_IDsCompareByBytes(t *testing.T) {
	db := setupPostgresTestDB(t)

	var collation string
	require.NoError(t, db.QueryRow(
		`SELECT collation_name FROM information_schema.columns WHERE table_name = 'users' AND column_name = 'id'`,
	).Scan(&collation))
	var less bool
	require.NoError(t, db.QueryRow(`SELECT 'B' < 'a' COLLATE "C"`).Scan(&less))

	assert.Equal(t, "C", collation, "el cursor sigue el orden de bytes del UUIDv7")
	assert.True(t, less)
}
