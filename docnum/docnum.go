/*
Package docnum generates document numbers for billing documents.

PURPOSE:
  Produces the opaque 6-character codes (3 uppercase letters followed by
  3 digits, e.g. "ABC123") stamped on purchase orders and invoices.

UNIQUENESS:
  The raw Random generator gives no uniqueness guarantee: each character
  is drawn independently and codes can collide under repeated calls.
  Uniqueness is an explicit responsibility of a collaborator, not of the
  formatting function: wrap Random in a Registry backed by a
  Reservations implementation (in-memory set, or the sqlite-backed table
  in store/sqlite) to get collision-checked numbers.

USAGE:
  gen := docnum.NewRegistry(docnum.NewRandom(), docnum.NewMemoryReservations())
  number, err := gen.Next(ctx)
*/
package docnum

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

// ErrNumberSpaceExhausted is returned when the registry cannot find an
// unreserved code within its retry budget.
var ErrNumberSpaceExhausted = errors.New("document number space exhausted")

// Generator produces opaque document numbers.
type Generator interface {
	Next(ctx context.Context) (string, error)
}

// =============================================================================
// RANDOM - Format-only generator, no uniqueness
// =============================================================================

// Random formats codes as 3 letters + 3 digits, each drawn uniformly at
// random. Callers must not assume global uniqueness.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// NewRandomWithSeed makes the sequence deterministic. For tests.
func NewRandomWithSeed(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Next(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	b.Grow(6)
	for i := 0; i < 3; i++ {
		b.WriteByte(letters[r.rng.Intn(len(letters))])
	}
	for i := 0; i < 3; i++ {
		b.WriteByte(digits[r.rng.Intn(len(digits))])
	}
	return b.String(), nil
}

// =============================================================================
// REGISTRY - Uniqueness as a collaborator
// =============================================================================

// Reservations claims document numbers. Reserve returns false when the
// code is already taken.
type Reservations interface {
	Reserve(ctx context.Context, code string) (bool, error)
}

// Registry wraps a Generator with collision checking. It draws codes
// until one reserves cleanly, up to MaxAttempts.
type Registry struct {
	Source       Generator
	Reservations Reservations
	MaxAttempts  int
}

const defaultMaxAttempts = 100

func NewRegistry(source Generator, reservations Reservations) *Registry {
	return &Registry{Source: source, Reservations: reservations, MaxAttempts: defaultMaxAttempts}
}

func (g *Registry) Next(ctx context.Context) (string, error) {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	for i := 0; i < attempts; i++ {
		code, err := g.Source.Next(ctx)
		if err != nil {
			return "", err
		}
		ok, err := g.Reservations.Reserve(ctx, code)
		if err != nil {
			return "", err
		}
		if ok {
			return code, nil
		}
	}
	return "", ErrNumberSpaceExhausted
}

// =============================================================================
// MEMORY RESERVATIONS - In-process set (tests/dev)
// =============================================================================

type MemoryReservations struct {
	mu    sync.Mutex
	taken map[string]bool
}

func NewMemoryReservations() *MemoryReservations {
	return &MemoryReservations{taken: make(map[string]bool)}
}

func (m *MemoryReservations) Reserve(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taken[code] {
		return false, nil
	}
	m.taken[code] = true
	return true, nil
}
