// Package tracker runs claim searches and keeps the latest outcome of every browser session.
//
// Each search is assigned a sequence number that increases monotonically per session. A response is applied to the
// session's slot only when its sequence number is still the latest issued, so a slow answer to a superseded query
// can never replace the result of a newer one.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/errors"
	gocache "github.com/patrickmn/go-cache"
)

// Lookup fetches a single claim.
type Lookup interface {
	TrackClaim(ctx context.Context, sess claimsapi.Session, q claims.Query) (claims.Record, error)
}

// slot is the search state of one session.
type slot struct {
	// issued is the sequence number of the latest search started.
	issued uint64
	// completed is the sequence number of the search whose outcome is held.
	completed uint64
	query     claims.Query
	outcome   claims.Outcome
}

// Result is what a call to Search observed.
type Result struct {
	// Seq is the sequence number assigned to the search. Zero when no search was issued.
	Seq uint64
	// Query is the query of the outcome held by the slot.
	Query claims.Query
	// Outcome is the slot's outcome after the search completed.
	Outcome claims.Outcome
	// Stale is true when a newer search was issued while this one was in flight. Outcome then holds whatever the
	// slot had at completion time, not this search's result.
	Stale bool
	// InFlight is true when some search of the session has not completed yet.
	InFlight bool
	// Err is the lookup error of this search, also when Stale.
	Err error
}

// Tracker runs searches and holds the per-session slots.
type Tracker struct {
	lookup Lookup
	logger *slog.Logger
	// mu serialises slot read-modify-write cycles. go-cache is safe for concurrent use but Get then Set is not atomic.
	mu    sync.Mutex
	slots *gocache.Cache
}

// New creates a Tracker whose slots expire after idleTTL without use.
func New(lookup Lookup, logger *slog.Logger, idleTTL time.Duration) *Tracker {
	return &Tracker{
		lookup: lookup,
		logger: logger.With(slog.String("source", "tracker")),
		mu:     sync.Mutex{},
		slots:  gocache.New(idleTTL, 2*idleTTL), //nolint:mnd // sweep twice per TTL
	}
}

func (t *Tracker) get(key string) slot {
	if v, ok := t.slots.Get(key); ok {
		if s, isSlot := v.(slot); isSlot {
			return s
		}
	}
	return slot{issued: 0, completed: 0, query: "", outcome: claims.Idle()}
}

func (t *Tracker) result(s slot, seq uint64) Result {
	return Result{
		Seq:      seq,
		Query:    s.query,
		Outcome:  s.outcome,
		Stale:    seq != 0 && seq != s.issued,
		InFlight: s.issued > s.completed,
		Err:      nil,
	}
}

// Search looks up raw for the session identified by key.
//
// A raw query that is empty after trimming issues no request and returns the current slot unchanged.
func (t *Tracker) Search(ctx context.Context, key string, sess claimsapi.Session, raw string) Result {
	q, ok := claims.ParseQuery(raw)
	if !ok {
		return t.Current(key)
	}

	t.mu.Lock()
	s := t.get(key)
	s.issued++
	seq := s.issued
	t.slots.SetDefault(key, s)
	t.mu.Unlock()

	record, err := t.lookup.TrackClaim(ctx, sess, q)
	outcome := claims.Found(record)
	if err != nil {
		outcome = claims.NotFound(err)
		t.logFailure(ctx, q, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	s = t.get(key)
	if seq != s.issued {
		t.logger.LogAttrs(ctx, slog.LevelDebug, "discard stale claim lookup",
			slog.String("claim_number", string(q)),
			slog.Uint64("seq", seq),
			slog.Uint64("latest", s.issued))
		res := t.result(s, seq)
		res.Err = err
		return res
	}
	s.completed = seq
	s.query = q
	s.outcome = outcome
	t.slots.SetDefault(key, s)
	res := t.result(s, seq)
	res.Err = err
	return res
}

// Current returns the slot of the session without issuing a search.
func (t *Tracker) Current(key string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result(t.get(key), 0)
}

// Forget drops the slot of the session, e.g. on logout.
func (t *Tracker) Forget(key string) {
	t.slots.Delete(key)
}

// logFailure logs the cause of a NotFound outcome at a level matching how unexpected it is.
func (t *Tracker) logFailure(ctx context.Context, q claims.Query, err error) {
	level := slog.LevelError
	switch {
	case errors.Is(err, claimsapi.ErrNotFound):
		level = slog.LevelDebug
	case errors.Is(err, claimsapi.ErrUnauthorized), errors.Is(err, claimsapi.ErrForbidden):
		level = slog.LevelInfo
	case errors.Is(err, context.Canceled):
		level = slog.LevelDebug
	case errors.Is(err, claimsapi.ErrTransport), errors.Is(err, claimsapi.ErrUnexpectedStatus):
		level = slog.LevelWarn
	}
	t.logger.LogAttrs(ctx, level, "claim lookup failed", slog.String("claim_number", string(q)), errors.SlogError(err))
}
