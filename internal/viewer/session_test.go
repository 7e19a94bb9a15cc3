package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irlens/atlas/internal/resolve"
	"github.com/irlens/atlas/pkg/core"
)

// gatedResolver blocks resolutions of the events listed in gates until the gate closes.
type gatedResolver struct {
	mu       sync.Mutex
	gates    map[string]chan struct{}
	started  chan string
	canceled map[string]bool
}

func newGatedResolver() *gatedResolver {
	return &gatedResolver{
		gates:    make(map[string]chan struct{}),
		started:  make(chan string, 10),
		canceled: make(map[string]bool),
	}
}

func (r *gatedResolver) gate(eventID string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan struct{})
	r.gates[eventID] = ch
	return ch
}

func (r *gatedResolver) Resolve(ctx context.Context, ev *core.Event, pointID string) (*resolve.View, error) {
	r.mu.Lock()
	gate := r.gates[ev.ID]
	r.mu.Unlock()

	r.started <- ev.ID
	if gate != nil {
		<-gate
		if ctx.Err() != nil {
			r.mu.Lock()
			r.canceled[ev.ID] = true
			r.mu.Unlock()
		}
	}
	return &resolve.View{EventID: ev.ID, PointID: pointID}, nil
}

func timelineEvent(id string) *core.Event {
	return &core.Event{ID: id, TimelinePoints: []core.TimelinePoint{{ID: "a"}, {ID: "b"}, {}}}
}

func TestSession_SelectStoresView(t *testing.T) {
	s := NewSession(newGatedResolver(), nil)

	view, err := s.Select(context.Background(), timelineEvent("berlin"))
	require.NoError(t, err)
	assert.Equal(t, "berlin", view.EventID)

	snap := s.Snapshot()
	assert.Equal(t, "berlin", snap.EventID)
	assert.Empty(t, snap.PointID)
	assert.Same(t, view, snap.View)
	assert.Equal(t, uint64(1), snap.Generation)
}

func TestSession_StaleResultIsDiscarded(t *testing.T) {
	r := newGatedResolver()
	slow := r.gate("slow")
	s := NewSession(r, nil)

	type result struct {
		view *resolve.View
		err  error
	}
	done := make(chan result, 1)
	go func() {
		v, err := s.Select(context.Background(), timelineEvent("slow"))
		done <- result{v, err}
	}()
	require.Equal(t, "slow", <-r.started)

	fast, err := s.Select(context.Background(), timelineEvent("fast"))
	require.NoError(t, err)
	<-r.started
	assert.Equal(t, "fast", fast.EventID)

	close(slow)
	res := <-done
	assert.Nil(t, res.view)
	assert.ErrorIs(t, res.err, ErrSuperseded)

	snap := s.Snapshot()
	assert.Equal(t, "fast", snap.EventID)
	assert.Equal(t, "fast", snap.View.EventID)

	r.mu.Lock()
	assert.True(t, r.canceled["slow"], "superseded computation is cancelled")
	r.mu.Unlock()
}

func TestSession_Navigation(t *testing.T) {
	s := NewSession(newGatedResolver(), nil)
	ctx := context.Background()

	_, _, err := s.Next(ctx)
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = s.Select(ctx, timelineEvent("korea"))
	require.NoError(t, err)

	view, moved, err := s.Next(ctx)
	require.NoError(t, err)
	require.True(t, moved)
	assert.Equal(t, "a", view.PointID)

	_, _, err = s.Next(ctx)
	require.NoError(t, err)
	view, moved, err = s.Next(ctx)
	require.NoError(t, err)
	require.True(t, moved)
	assert.Equal(t, "point-2", view.PointID)

	_, moved, err = s.Next(ctx)
	require.NoError(t, err)
	assert.False(t, moved)

	view, moved, err = s.Previous(ctx)
	require.NoError(t, err)
	require.True(t, moved)
	assert.Equal(t, "b", view.PointID)
	assert.Equal(t, "b", s.Snapshot().PointID)
}

func TestSession_NavigationFollowsPositionAndLens(t *testing.T) {
	s := NewSession(newGatedResolver(), nil)
	ctx := context.Background()

	ev := &core.Event{ID: "suez-realism", TimelinePoints: []core.TimelinePoint{
		{ID: "withdrawal", Position: 90},
		{ID: "nationalisation", Position: 10},
		{ID: "protests", Position: 40, RelevantTheories: []string{"constructivism"}},
		{ID: "invasion", Position: 60, RelevantTheories: []string{"realism"}},
	}}
	_, err := s.Select(ctx, ev)
	require.NoError(t, err)

	walk := func() []string {
		var ids []string
		for {
			view, moved, err := s.Next(ctx)
			require.NoError(t, err)
			if !moved {
				return ids
			}
			ids = append(ids, view.PointID)
		}
	}

	// the event id carries the realism lens
	assert.Equal(t, []string{"nationalisation", "invasion", "withdrawal"}, walk())

	s.SetLens("constructivism")
	_, err = s.SetActivePoint(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"nationalisation", "protests", "withdrawal"}, walk())

	view, moved, err := s.Previous(ctx)
	require.NoError(t, err)
	require.True(t, moved)
	assert.Equal(t, "protests", view.PointID)
}

func TestSession_SetActivePointRequiresSelection(t *testing.T) {
	s := NewSession(newGatedResolver(), nil)
	_, err := s.SetActivePoint(context.Background(), "a")
	assert.ErrorIs(t, err, ErrNoSelection)
}

type failingResolver struct{ err error }

func (r failingResolver) Resolve(ctx context.Context, ev *core.Event, pointID string) (*resolve.View, error) {
	return nil, r.err
}

func TestSession_ErrorIsKept(t *testing.T) {
	boom := errors.New("borders unavailable")
	s := NewSession(failingResolver{err: boom}, nil)

	_, err := s.Select(context.Background(), timelineEvent("x"))
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Snapshot().Err, boom)
}

func TestSession_ClearAndLogAttrs(t *testing.T) {
	s := NewSession(newGatedResolver(), nil)
	assert.Nil(t, s.LogAttrs())

	_, err := s.Select(context.Background(), timelineEvent("suez"))
	require.NoError(t, err)
	_, err = s.SetActivePoint(context.Background(), "b")
	require.NoError(t, err)

	attrs := s.LogAttrs()
	require.Len(t, attrs, 2)
	assert.Equal(t, "suez", attrs[0].Value.String())
	assert.Equal(t, "b", attrs[1].Value.String())

	s.Clear()
	assert.Nil(t, s.LogAttrs())
	assert.Nil(t, s.Snapshot().View)
}

func TestSession_ConcurrentSelectionsSettleOnLast(t *testing.T) {
	s := NewSession(newGatedResolver(), nil)
	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = s.Select(context.Background(), timelineEvent(id))
		}(id)
	}
	wg.Wait()

	snap := s.Snapshot()
	require.NotNil(t, snap.View)
	assert.Equal(t, snap.EventID, snap.View.EventID)
	assert.Equal(t, uint64(4), snap.Generation)
}
