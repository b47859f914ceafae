// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"profile_server/core/domain"
	"profile_server/core/port/out"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DefaultUsersTable is the table used when none is configured.
const DefaultUsersTable = "users"

// UserAdapter implements out.UserRepository using PostgreSQL.
type UserAdapter struct {
	db    *sqlx.DB
	name  string
	table string // quoted name
}

// NewUserAdapter creates a new UserAdapter on the given table.
func NewUserAdapter(db *sqlx.DB, table string) *UserAdapter {
	if table == "" {
		table = DefaultUsersTable
	}
	return &UserAdapter{db: db, name: table, table: pq.QuoteIdentifier(table)}
}

// EnsureSchema creates the users table and its birth date index when missing.
func (a *UserAdapter) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + a.table + ` (
			id           BIGSERIAL PRIMARY KEY,
			email        TEXT NOT NULL,
			first_name   TEXT NOT NULL,
			last_name    TEXT NOT NULL,
			birth_date   TIMESTAMPTZ NOT NULL,
			address      TEXT,
			phone_number TEXT,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS ` + pq.QuoteIdentifier("idx_"+a.name+"_birth_date") +
			` ON ` + a.table + ` (birth_date)`,
	}

	for _, stmt := range stmts {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure users schema: %w", err)
		}
	}
	return nil
}

// userRow represents the database row for users.
type userRow struct {
	ID          int64          `db:"id"`
	Email       string         `db:"email"`
	FirstName   string         `db:"first_name"`
	LastName    string         `db:"last_name"`
	BirthDate   time.Time      `db:"birth_date"`
	Address     sql.NullString `db:"address"`
	PhoneNumber sql.NullString `db:"phone_number"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *userRow) toDomain() *domain.User {
	u := &domain.User{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: r.BirthDate.UTC(),
	}
	if r.Address.Valid {
		u.Address = r.Address.String
	}
	if r.PhoneNumber.Valid {
		u.PhoneNumber = r.PhoneNumber.String
	}
	return u
}

const userColumns = `id, email, first_name, last_name, birth_date, address, phone_number, created_at, updated_at`

// Save inserts or replaces a user.
func (a *UserAdapter) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	if user.ID == 0 {
		return a.insert(ctx, user)
	}
	return a.update(ctx, user)
}

func (a *UserAdapter) insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO ` + a.table + ` (
			email, first_name, last_name, birth_date, address, phone_number
		) VALUES (
			$1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, '')
		)
		RETURNING ` + userColumns

	var row userRow
	err := a.db.QueryRowxContext(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.BirthDate.UTC(),
		user.Address,
		user.PhoneNumber,
	).StructScan(&row)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return row.toDomain(), nil
}

func (a *UserAdapter) update(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		UPDATE ` + a.table + ` SET
			email = $1, first_name = $2, last_name = $3, birth_date = $4,
			address = NULLIF($5, ''), phone_number = NULLIF($6, ''),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + userColumns

	var row userRow
	err := a.db.QueryRowxContext(ctx, query,
		user.Email, user.FirstName, user.LastName, user.BirthDate.UTC(),
		user.Address, user.PhoneNumber, user.ID,
	).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update user %d: %w", user.ID, err)
	}
	return row.toDomain(), nil
}

// FindByID gets a user by ID.
func (a *UserAdapter) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM ` + a.table + ` WHERE id = $1`

	var row userRow
	err := a.db.QueryRowxContext(ctx, query, id).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return row.toDomain(), nil
}

// FindAll lists every user ordered by id.
func (a *UserAdapter) FindAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM ` + a.table + ` ORDER BY id`
	return a.list(ctx, query)
}

// FindByBirthDateBetween lists users born inside the inclusive range.
func (a *UserAdapter) FindByBirthDateBetween(ctx context.Context, r domain.BirthDateRange) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM ` + a.table + `
		WHERE birth_date BETWEEN $1 AND $2
		ORDER BY id`
	return a.list(ctx, query, r.From.UTC(), r.To.UTC())
}

func (a *UserAdapter) list(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	var rows []userRow
	if err := a.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toDomain())
	}
	return users, nil
}

// DeleteByID deletes a user. Deleting an unknown id is not an error.
func (a *UserAdapter) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM ` + a.table + ` WHERE id = $1`

	if _, err := a.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// Ping checks database connectivity.
func (a *UserAdapter) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

var _ out.UserRepository = (*UserAdapter)(nil)
