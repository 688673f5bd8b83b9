package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	"github.com/davicafu/relaypage/internal/shared/infra/platform/db/sqlcriteria"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
	"github.com/davicafu/relaypage/internal/user/domain"
)

const (
	userColumns        = "id, organization_id, email, name, created_at"
	uniqueViolationSQL = "23505"
)

var columns = sqlcriteria.Columns{
	domain.FieldID:             "id",
	domain.FieldOrganizationID: "organization_id",
	domain.FieldEmail:          "email",
	domain.FieldName:           "name",
}

type UserRepoPostgres struct {
	db *sql.DB
}

var _ domain.UserRepository = (*UserRepoPostgres)(nil)

func NewUserRepoPostgres(db *sql.DB) *UserRepoPostgres {
	return &UserRepoPostgres{db: db}
}

// ------------------ Escritura ------------------

func (r *UserRepoPostgres) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, organization_id, email, name, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.OrganizationID, u.Email, u.Name, u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQL {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *UserRepoPostgres) Tag(ctx context.Context, userID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_tags (user_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, tagID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ------------------ Lectura ------------------

func (r *UserRepoPostgres) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.OrganizationID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (r *UserRepoPostgres) ExistsInOrganization(ctx context.Context, organizationID, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND organization_id = $2)`, id, organizationID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *UserRepoPostgres) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]*domain.User, error) {
	query, args, err := sqlcriteria.Select(sqlcriteria.Postgres, userColumns, "users", criteria, sort, limit, columns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.OrganizationID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepoPostgres) CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
	query, args, err := sqlcriteria.Count(sqlcriteria.Postgres, "users", criteria, columns)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ------------------ Inicialización ------------------

// InitPostgres crea las tablas si no existen. Los UUIDv7 se guardan como texto
// para que el orden lexicográfico coincida con el de creación.
func InitPostgres(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT COLLATE "C" PRIMARY KEY,
			organization_id TEXT NOT NULL,
			email TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (organization_id, email)
		)`,
		`CREATE TABLE IF NOT EXISTS user_tags (
			user_id TEXT COLLATE "C" NOT NULL REFERENCES users(id),
			tag_id TEXT NOT NULL,
			PRIMARY KEY (user_id, tag_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_org_id ON users (organization_id, id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
