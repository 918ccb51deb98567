// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
)

// clock is embedded by services that stamp documents, so tests can pin time.
type clock struct {
	now func() time.Time
}

func (c clock) nowMillis() int64 {
	if c.now == nil {
		return time.Now().UnixMilli()
	}
	return c.now().UnixMilli()
}

func (c clock) nowTime() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// lockedRand makes a *rand.Rand safe for concurrent requests.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// newLockedRand wraps r, seeding a fresh generator when r is nil.
func newLockedRand(r *rand.Rand) *lockedRand {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &lockedRand{r: r}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// cleanKey lower-cases s and drops everything but ASCII letters and digits.
func cleanKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// falsy mirrors how the mobile app treats missing values: nil, false, zero,
// NaN and the empty string all count as unset.
func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0 || math.IsNaN(t)
	case int:
		return t == 0
	case int64:
		return t == 0
	default:
		return false
	}
}

// or returns v unless it is falsy, else def.
func or(v, def any) any {
	if falsy(v) {
		return def
	}
	return v
}

// orString is or for string fields.
func orString(v any, def string) string {
	if s := store.AsString(v); s != "" && !falsy(v) {
		return s
	}
	return def
}

// notFound turns store.ErrNotFound into a 404 with message and passes
// every other error through.
func notFound(err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return errs.NotFoundf("%s", message)
	}
	return err
}

func badRequest(message string) error {
	return errs.NewBadRequestError(message, true, nil, nil, nil)
}
