package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irlens/atlas/internal/cache"
	"github.com/irlens/atlas/internal/geo"
	"github.com/irlens/atlas/internal/period"
	"github.com/irlens/atlas/pkg/core"
)

func box(name string, lng, lat float64) string {
	return fmt.Sprintf(`{"type":"Feature","properties":{"NAME":%q},"geometry":{"type":"Polygon","coordinates":[[[%g,%g],[%g,%g],[%g,%g],[%g,%g],[%g,%g]]]}}`,
		name, lng-1, lat-1, lng+1, lat-1, lng+1, lat+1, lng-1, lat+1, lng-1, lat-1)
}

type stubSource struct {
	fc      *geo.FeatureCollection
	err     error
	sources []string
}

func (s *stubSource) Fetch(ctx context.Context, src string) (*geo.FeatureCollection, error) {
	s.sources = append(s.sources, src)
	return s.fc, s.err
}

func worldSource(t *testing.T) *stubSource {
	t.Helper()
	feats := []string{
		box("Cuba", -79, 21.5),
		box("United States of America", -100, 40),
		box("Russia", 90, 60),
		box("Ukraine", 31, 49),
		box("France", 2, 46),
		box("Belgium", 4.5, 50.5),
	}
	fc, err := geo.ParseFeatureCollection([]byte(`{"type":"FeatureCollection","features":[` + strings.Join(feats, ",") + `]}`))
	require.NoError(t, err)
	return &stubSource{fc: fc}
}

type stubRecorder struct {
	mu    sync.Mutex
	stats []Stats
}

func (r *stubRecorder) RecordResolution(ctx context.Context, s Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = append(r.stats, s)
	return nil
}

func intp(v int) *int { return &v }

func cubanMissileCrisis() *core.Event {
	zoom := 6.0
	return &core.Event{
		ID:                   "cuban-missile-crisis-realism",
		Period:               core.Period{StartYear: 1962, EndYear: 1962},
		HighlightedCountries: []string{"Cuba"},
		CountryHighlights: []core.CountryHighlight{
			{Country: "USSR", Color: "#c00"},
			{Country: "United States of America", Timing: core.Timing{AppearAtTimelinePoint: "blockade"}},
		},
		Connections: []core.Connection{
			{ID: "missiles", From: "USSR", To: "Cuba"},
			{ID: "myth", From: "Atlantis", To: "Cuba"},
		},
		TimelinePoints: []core.TimelinePoint{
			{ID: "discovery", Year: "1962", Position: 0},
			{ID: "blockade", Year: "1962", Position: 50, FocusLocation: &core.LatLng{23, -80}, FocusZoom: &zoom},
		},
	}
}

func TestResolve_ColdWarEvent(t *testing.T) {
	src := worldSource(t)
	rec := &stubRecorder{}
	r := New(period.Default(), src, WithRecorder(rec))

	view, err := r.Resolve(context.Background(), cubanMissileCrisis(), "discovery")
	require.NoError(t, err)

	assert.Equal(t, "cold-war", view.Period.ID)
	assert.Equal(t, []string{period.ModernBordersURL}, src.sources)

	// USSR expands to its republics, the US highlight is not visible yet
	assert.Contains(t, view.Names, "Russia")
	assert.Contains(t, view.Names, "Ukraine")
	assert.NotContains(t, view.Names, "USSR")
	assert.NotContains(t, view.Names, "United States of America")
	assert.Len(t, view.Names, 16)

	assert.Contains(t, view.Result.Markers, "cuba")
	assert.Equal(t, "#c00", view.Result.Markers["russia"].Color)

	// the USSR endpoint resolves through its aliases, Atlantis is dropped
	require.Len(t, view.Result.Connections, 1)
	assert.Equal(t, "missiles", view.Result.Connections[0].Connection.ID)
	assert.Equal(t, view.Result.Markers["russia"].Position, view.Result.Connections[0].Path[0])

	require.NotNil(t, view.Camera)
	assert.False(t, view.Camera.FromFocus)

	require.Len(t, rec.stats, 1)
	assert.Equal(t, "cold-war", rec.stats[0].PeriodID)
	assert.True(t, rec.stats[0].ApproximateBorders)
	assert.Equal(t, len(view.Result.Unresolved), rec.stats[0].Unresolved)
}

func TestResolve_FocusLocationWins(t *testing.T) {
	r := New(period.Default(), worldSource(t))

	view, err := r.Resolve(context.Background(), cubanMissileCrisis(), "blockade")
	require.NoError(t, err)

	assert.Contains(t, view.Names, "United States of America")
	require.NotNil(t, view.Camera)
	assert.True(t, view.Camera.FromFocus)
	assert.Equal(t, core.LngLat{-80, 23}, view.Camera.Center)
	assert.Equal(t, 6.0, view.Camera.Zoom)
}

func TestResolve_UnknownPointBehavesLikeNone(t *testing.T) {
	r := New(period.Default(), worldSource(t))

	view, err := r.Resolve(context.Background(), cubanMissileCrisis(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, "ghost", view.PointID)
	assert.NotContains(t, view.Names, "United States of America")
}

func TestResolve_FetchErrorPropagates(t *testing.T) {
	fetchErr := &cache.FetchError{URL: period.ModernBordersURL, StatusCode: 500}
	r := New(period.Default(), &stubSource{err: fetchErr})

	_, err := r.Resolve(context.Background(), cubanMissileCrisis(), "")

	var fe *cache.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 500, fe.StatusCode)
}

func TestResolve_NilEvent(t *testing.T) {
	r := New(nil, worldSource(t))
	_, err := r.Resolve(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNoEvent)
}

func TestResolve_ExplicitPeriodAndAreas(t *testing.T) {
	r := New(period.Default(), worldSource(t))
	ev := &core.Event{
		ID:                  "entente",
		Period:              core.Period{StartYear: 2005},
		HistoricalMapPeriod: "modern",
		UnifiedAreas: []core.UnifiedArea{
			{ID: "west", Name: "West", Countries: []string{"France", "Belgium"},
				Timing: core.Timing{AppearAtYear: intp(2000)}},
		},
	}

	view, err := r.Resolve(context.Background(), ev, "")
	require.NoError(t, err)

	assert.Equal(t, "modern", view.Period.ID)
	require.Contains(t, view.Result.Markers, "west")
	assert.InDelta(t, 3.25, view.Result.Markers["west"].Position.Lng(), 1e-9)
	assert.InDelta(t, 48.25, view.Result.Markers["west"].Position.Lat(), 1e-9)
}

func TestResolve_LogsMissesAndApproximateBorders(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(period.Default(), worldSource(t), WithLogger(logger))

	ev := cubanMissileCrisis()
	ev.HighlightedCountries = append(ev.HighlightedCountries, "Atlantis")
	_, err := r.Resolve(context.Background(), ev, "")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "drawing modern borders")
	assert.Contains(t, out, "country=Atlantis")
}

func TestResolve_SameInputSameView(t *testing.T) {
	r := New(period.Default(), worldSource(t), WithCentroids(cache.NewCentroidCache()))
	ev := cubanMissileCrisis()

	first, err := r.Resolve(context.Background(), ev, "discovery")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), ev, "discovery")
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, first.Camera, second.Camera)
}
