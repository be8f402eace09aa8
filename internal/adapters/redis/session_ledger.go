// Package redis provides Redis-based adapters for the auth service.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/mmk-auth-api/internal/domain/auth"
	"github.com/target/mmk-auth-api/internal/ports"
)

// DefaultPrefix namespaces every key written by the ledger.
const DefaultPrefix = "mmk-auth:"

// SessionLedger stores session records as JSON documents and keeps a sorted
// set of record IDs scored by login time for newest-first listings.
// Records carry no TTL; retention is handled outside the service.
type SessionLedger struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionLedger creates a Redis-backed session ledger using DefaultPrefix.
func NewSessionLedger(client redis.UniversalClient) *SessionLedger {
	return NewSessionLedgerWithPrefix(client, DefaultPrefix)
}

// NewSessionLedgerWithPrefix creates a Redis session ledger with a custom key prefix.
func NewSessionLedgerWithPrefix(client redis.UniversalClient, prefix string) *SessionLedger {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionLedger{client: client, prefix: prefix}
}

func (l *SessionLedger) recordKey(id string) string { return l.prefix + "session:" + id }

func (l *SessionLedger) indexKey() string { return l.prefix + "sessions:by_login" }

// Create stores a new record and indexes it by login time.
func (l *SessionLedger) Create(ctx context.Context, rec domainauth.SessionRecord) error {
	if rec.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	created, err := l.client.SetNX(ctx, l.recordKey(rec.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !created {
		return fmt.Errorf("session record %s already exists", rec.ID)
	}

	score := float64(rec.LoginTime.UnixMilli())
	if err := l.client.ZAdd(ctx, l.indexKey(), redis.Z{Score: score, Member: rec.ID}).Err(); err != nil {
		if delErr := l.client.Del(ctx, l.recordKey(rec.ID)).Err(); delErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback record: %w", delErr))
		}
		return fmt.Errorf("redis zadd: %w", err)
	}
	return nil
}

// FindByID loads a record; returns ports.ErrSessionNotFound when absent.
func (l *SessionLedger) FindByID(ctx context.Context, id string) (domainauth.SessionRecord, error) {
	if id == "" {
		return domainauth.SessionRecord{}, ports.ErrSessionNotFound
	}

	data, err := l.client.Get(ctx, l.recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.SessionRecord{}, ports.ErrSessionNotFound
		}
		return domainauth.SessionRecord{}, fmt.Errorf("redis get: %w", err)
	}

	var rec domainauth.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domainauth.SessionRecord{}, fmt.Errorf("unmarshal session record: %w", err)
	}
	return rec, nil
}

// Update overwrites an existing record; returns ports.ErrSessionNotFound when absent.
func (l *SessionLedger) Update(ctx context.Context, rec domainauth.SessionRecord) error {
	if rec.ID == "" {
		return ports.ErrSessionNotFound
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	updated, err := l.client.SetXX(ctx, l.recordKey(rec.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis setxx: %w", err)
	}
	if !updated {
		return ports.ErrSessionNotFound
	}
	return nil
}

// ListRecent returns up to limit records, newest login first.
func (l *SessionLedger) ListRecent(ctx context.Context, limit int) ([]domainauth.SessionRecord, error) {
	if limit <= 0 {
		return []domainauth.SessionRecord{}, nil
	}

	ids, err := l.client.ZRevRange(ctx, l.indexKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrevrange: %w", err)
	}
	if len(ids) == 0 {
		return []domainauth.SessionRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = l.recordKey(id)
	}
	values, err := l.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	out := make([]domainauth.SessionRecord, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Indexed but missing document; skip it.
			continue
		}
		var rec domainauth.SessionRecord
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal session record %s: %w", ids[i], err)
		}
		out = append(out, rec)
	}
	return out, nil
}
