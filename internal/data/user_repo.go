package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/target/mmk-auth-api/internal/data/pgxutil"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	"github.com/target/mmk-auth-api/internal/ports"
)

const (
	usersUsernameConstraint = "users_username_key"
	userColumns             = "id, username, password_hash, role, created_at"
)

// UserRepo persists user accounts in PostgreSQL.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo using the system clock.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

func mapUserWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == usersUsernameConstraint {
		return ports.ErrUsernameTaken
	}
	return err
}

// Create inserts a user. A blank CreatedAt is filled from the repo clock.
// Returns ports.ErrUsernameTaken when the username is already registered.
func (r *UserRepo) Create(ctx context.Context, user domainauth.User) (domainauth.User, error) {
	if user.ID == "" {
		return domainauth.User{}, ErrIDRequired
	}
	if user.Username == "" {
		return domainauth.User{}, ErrUsernameRequired
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.timeProvider.Now()
	}

	const query = `
		INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	var out domainauth.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query,
			user.ID, user.Username, user.PasswordHash, string(user.Role), user.CreatedAt)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.User])
		return err
	})
	if err != nil {
		if mapped := mapUserWriteErr(err); errors.Is(mapped, ports.ErrUsernameTaken) {
			return domainauth.User{}, mapped
		}
		return domainauth.User{}, fmt.Errorf("create user: %w", err)
	}
	return out, nil
}

// FindByUsername looks up a user by exact username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (domainauth.User, error) {
	if username == "" {
		return domainauth.User{}, ErrUsernameRequired
	}
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

// FindByID looks up a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id string) (domainauth.User, error) {
	if id == "" {
		return domainauth.User{}, ErrIDRequired
	}
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (domainauth.User, error) {
	var out domainauth.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.User])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
		return domainauth.User{}, ports.ErrUserNotFound
	}
	if err != nil {
		return domainauth.User{}, fmt.Errorf("find user: %w", err)
	}
	return out, nil
}
