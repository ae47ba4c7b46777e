package tracker_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/tracker"
	"github.com/fraatlas/fraportal/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

// fakeLookup answers from a map. Lookups of numbers present in gates block until the gate is closed.
type fakeLookup struct {
	mu      sync.Mutex
	records map[claims.Query]claims.Record
	gates   map[claims.Query]chan struct{}
	started chan claims.Query
	calls   []claims.Query
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		mu: sync.Mutex{},
		records: map[claims.Query]claims.Record{
			"MP001": {ClaimNumber: "MP001", Status: claims.StatusApproved},  //nolint:exhaustruct // partial
			"MP002": {ClaimNumber: "MP002", Status: claims.StatusSubmitted}, //nolint:exhaustruct // partial
		},
		gates:   map[claims.Query]chan struct{}{},
		started: make(chan claims.Query, 10), //nolint:mnd // plenty
		calls:   nil,
	}
}

func (f *fakeLookup) gate(q claims.Query) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[q] = ch
	return ch
}

func (f *fakeLookup) Calls() []claims.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]claims.Query(nil), f.calls...)
}

func (f *fakeLookup) TrackClaim(ctx context.Context, _ claimsapi.Session, q claims.Query) (claims.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	gate := f.gates[q]
	record, ok := f.records[q]
	f.mu.Unlock()

	f.started <- q
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return claims.Record{}, ctx.Err() //nolint:wrapcheck // test fake
		}
	}
	if !ok {
		return claims.Record{}, claimsapi.ErrNotFound
	}
	return record, nil
}

func newTracker(lookup tracker.Lookup) *tracker.Tracker {
	return tracker.New(lookup, testhelpers.NewLogger(io.Discard), time.Minute)
}

var sess = claimsapi.Session{Token: "t", User: claims.User{}} //nolint:gochecknoglobals,exhaustruct // test fixture

func TestTracker_Search(t *testing.T) {
	lookup := newFakeLookup()
	tr := newTracker(lookup)
	ctx := context.Background()

	res := tr.Search(ctx, "s1", sess, "  MP001 ")
	require.Equal(t, uint64(1), res.Seq)
	require.False(t, res.Stale)
	require.False(t, res.InFlight)
	require.NoError(t, res.Err)
	require.Equal(t, claims.Query("MP001"), res.Query)
	record, ok := res.Outcome.Record()
	require.True(t, ok)
	require.Equal(t, claims.StatusApproved, record.Status)

	res = tr.Search(ctx, "s1", sess, "BOGUS")
	require.Equal(t, uint64(2), res.Seq)
	require.Equal(t, claims.OutcomeNotFound, res.Outcome.Kind())
	require.ErrorIs(t, res.Err, claimsapi.ErrNotFound)
	require.ErrorIs(t, res.Outcome.Cause(), claimsapi.ErrNotFound)
	require.Equal(t, claims.ViewNotFoundNotice, claims.ViewFor(res.Outcome, string(res.Query), res.InFlight))

	require.Equal(t, []claims.Query{"MP001", "BOGUS"}, lookup.Calls())
}

func TestTracker_EmptyQueryIssuesNoLookup(t *testing.T) {
	lookup := newFakeLookup()
	tr := newTracker(lookup)
	ctx := context.Background()

	for _, raw := range []string{"", "   ", "\t\n"} {
		res := tr.Search(ctx, "s1", sess, raw)
		require.Equal(t, uint64(0), res.Seq)
		require.Equal(t, claims.OutcomeIdle, res.Outcome.Kind())
	}
	require.Empty(t, lookup.Calls())

	tr.Search(ctx, "s1", sess, "MP001")
	res := tr.Search(ctx, "s1", sess, " ")
	require.Equal(t, claims.OutcomeFound, res.Outcome.Kind(), "empty query keeps the previous outcome")
	require.Len(t, lookup.Calls(), 1)
}

func TestTracker_SessionsAreIsolated(t *testing.T) {
	tr := newTracker(newFakeLookup())
	ctx := context.Background()

	tr.Search(ctx, "s1", sess, "MP001")
	require.Equal(t, claims.OutcomeIdle, tr.Current("s2").Outcome.Kind())
	require.Equal(t, claims.OutcomeFound, tr.Current("s1").Outcome.Kind())

	tr.Forget("s1")
	require.Equal(t, claims.OutcomeIdle, tr.Current("s1").Outcome.Kind())
}

func TestTracker_DiscardsStaleResponse(t *testing.T) {
	lookup := newFakeLookup()
	release := lookup.gate("MP001")
	tr := newTracker(lookup)
	ctx := context.Background()

	slowDone := make(chan tracker.Result, 1)
	go func() {
		slowDone <- tr.Search(ctx, "s1", sess, "MP001")
	}()
	require.Equal(t, claims.Query("MP001"), <-lookup.started)

	require.True(t, tr.Current("s1").InFlight)

	fast := tr.Search(ctx, "s1", sess, "MP002")
	<-lookup.started
	require.False(t, fast.Stale)
	require.Equal(t, uint64(2), fast.Seq)
	require.False(t, fast.InFlight, "the superseded lookup can no longer change the slot")
	record, ok := fast.Outcome.Record()
	require.True(t, ok)
	require.Equal(t, "MP002", record.ClaimNumber)

	close(release)
	slow := <-slowDone
	require.True(t, slow.Stale)
	require.Equal(t, uint64(1), slow.Seq)
	record, ok = slow.Outcome.Record()
	require.True(t, ok)
	require.Equal(t, "MP002", record.ClaimNumber, "stale response does not overwrite the slot")

	current := tr.Current("s1")
	require.Equal(t, claims.Query("MP002"), current.Query)
	record, _ = current.Outcome.Record()
	require.Equal(t, "MP002", record.ClaimNumber)
}

func TestTracker_StaleFailureDoesNotHideNewerResult(t *testing.T) {
	lookup := newFakeLookup()
	release := lookup.gate("GONE")
	tr := newTracker(lookup)
	ctx := context.Background()

	slowDone := make(chan tracker.Result, 1)
	go func() {
		slowDone <- tr.Search(ctx, "s1", sess, "GONE")
	}()
	<-lookup.started
	tr.Search(ctx, "s1", sess, "MP001")
	<-lookup.started
	close(release)

	slow := <-slowDone
	require.True(t, slow.Stale)
	require.ErrorIs(t, slow.Err, claimsapi.ErrNotFound)
	require.Equal(t, claims.OutcomeFound, tr.Current("s1").Outcome.Kind())
	require.False(t, tr.Current("s1").InFlight)
}
