package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/mmk-auth-api/internal/data/pgxutil"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	"github.com/target/mmk-auth-api/internal/ports"
)

const sessionColumns = "id, user_id, username, login_time, logout_time, duration_in_seconds"

// SessionRepo is the PostgreSQL session ledger.
type SessionRepo struct {
	DB *sql.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

// Create inserts a new session record.
func (r *SessionRepo) Create(ctx context.Context, rec domainauth.SessionRecord) error {
	if rec.ID == "" {
		return ErrIDRequired
	}

	const query = `
		INSERT INTO session_logs (id, user_id, username, login_time, logout_time, duration_in_seconds)
		VALUES ($1, $2, $3, $4, $5, $6)`

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, query,
			rec.ID, rec.UserID, rec.Username, rec.LoginTime, rec.LogoutTime, rec.DurationInSeconds)
		return err
	})
	if err != nil {
		return fmt.Errorf("create session record: %w", err)
	}
	return nil
}

// FindByID returns the record with the given id or ports.ErrSessionNotFound.
func (r *SessionRepo) FindByID(ctx context.Context, id string) (domainauth.SessionRecord, error) {
	if id == "" {
		return domainauth.SessionRecord{}, ErrIDRequired
	}

	var out domainauth.SessionRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, "SELECT "+sessionColumns+" FROM session_logs WHERE id = $1", id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[domainauth.SessionRecord])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
		return domainauth.SessionRecord{}, ports.ErrSessionNotFound
	}
	if err != nil {
		return domainauth.SessionRecord{}, fmt.Errorf("find session record: %w", err)
	}
	return out, nil
}

// Update stores the logout time and duration of an existing record.
func (r *SessionRepo) Update(ctx context.Context, rec domainauth.SessionRecord) error {
	if rec.ID == "" {
		return ErrIDRequired
	}

	const query = `
		UPDATE session_logs
		SET logout_time = $2, duration_in_seconds = $3
		WHERE id = $1`

	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, query, rec.ID, rec.LogoutTime, rec.DurationInSeconds)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if isMalformedID(err) {
		return ports.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("update session record: %w", err)
	}
	if affected == 0 {
		return ports.ErrSessionNotFound
	}
	return nil
}

// ListRecent returns up to limit records, newest login first.
func (r *SessionRepo) ListRecent(ctx context.Context, limit int) ([]domainauth.SessionRecord, error) {
	if limit <= 0 {
		return []domainauth.SessionRecord{}, nil
	}

	const query = `SELECT ` + sessionColumns + `
		FROM session_logs
		ORDER BY login_time DESC, id DESC
		LIMIT $1`

	var out []domainauth.SessionRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, limit)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[domainauth.SessionRecord])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}
	if out == nil {
		out = []domainauth.SessionRecord{}
	}
	return out, nil
}
