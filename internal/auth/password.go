package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/baharkarakas/qa-forum/internal/worker"
)

var ErrMismatch = errors.New("password does not match")

// Hasher hashes and verifies passwords with bcrypt. When a pool is given the
// work runs there, bounding how many hashes compute at once.
type Hasher struct {
	cost  int
	pool  *worker.Pool
	dummy []byte
}

// NewHasher computes the dummy hash up front so the first unknown-user login
// costs the same as every later one.
func NewHasher(cost int, pool *worker.Pool) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		panic(err)
	}
	return &Hasher{cost: cost, pool: pool, dummy: dummy}
}

func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	var (
		b   []byte
		err error
	)
	if perr := h.run(ctx, func() { b, err = bcrypt.GenerateFromPassword([]byte(plain), h.cost) }); perr != nil {
		return "", perr
	}
	return string(b), err
}

// Verify returns ErrMismatch when plain does not match hash.
func (h *Hasher) Verify(ctx context.Context, plain, hash string) error {
	var err error
	if perr := h.run(ctx, func() { err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) }); perr != nil {
		return perr
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// VerifyDummy spends the same time as a real Verify against a throwaway
// hash, so unknown usernames are not distinguishable by latency.
func (h *Hasher) VerifyDummy(ctx context.Context, plain string) {
	_ = h.Verify(ctx, plain, string(h.dummy))
}

func (h *Hasher) run(ctx context.Context, f func()) error {
	if h.pool == nil {
		f()
		return nil
	}
	return h.pool.Do(ctx, f)
}
