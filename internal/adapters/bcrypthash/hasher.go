// Package bcrypthash provides the bcrypt-backed password hasher.
package bcrypthash

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/target/mmk-auth-api/internal/ports"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

const bcryptMaxPasswordBytes = 72

// Options configures a Hasher.
type Options struct {
	// Cost is the bcrypt work factor; out-of-range values fall back to DefaultCost.
	Cost int
	// Workers bounds how many hashes run at once; <= 0 means GOMAXPROCS.
	Workers int
}

// Hasher runs bcrypt on a bounded pool of goroutines so expensive hashing
// never occupies more than Workers CPUs regardless of request concurrency.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// New constructs a Hasher.
func New(opts Options) *Hasher {
	cost := opts.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(workers))}
}

// Cost returns the effective bcrypt work factor.
func (h *Hasher) Cost() int { return h.cost }

// Hash returns a salted bcrypt hash of plaintext.
// Plaintext longer than 72 bytes fails with ports.ErrPasswordTooLong.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > bcryptMaxPasswordBytes {
		return "", ports.ErrPasswordTooLong
	}
	var out []byte
	err := h.run(ctx, func() error {
		var err error
		out, err = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(out), nil
}

// Verify compares plaintext with a stored bcrypt hash in constant time.
// Mismatches and malformed hashes both report false without an error.
func (h *Hasher) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	var cmpErr error
	if err := h.run(ctx, func() error {
		cmpErr = bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
		return nil
	}); err != nil {
		return false, fmt.Errorf("bcrypt verify: %w", err)
	}
	return cmpErr == nil, nil
}

// run executes fn on its own goroutine once a worker slot is free.
func (h *Hasher) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		defer h.sem.Release(1)
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The worker finishes in the background and frees its slot.
		return errors.Join(ctx.Err(), errHashAbandoned)
	}
}

var errHashAbandoned = errors.New("hash computation abandoned")
