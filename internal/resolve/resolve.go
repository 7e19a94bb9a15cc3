// Package resolve runs the geodata pipeline for one event at one timeline point: period
// selection, visibility filtering, name resolution, boundary fetch, synthesis and camera
// framing.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/irlens/atlas/internal/geo"
	"github.com/irlens/atlas/internal/mapdata"
	"github.com/irlens/atlas/internal/period"
	"github.com/irlens/atlas/internal/synth"
	"github.com/irlens/atlas/internal/timeline"
	"github.com/irlens/atlas/pkg/core"
)

// ErrNoEvent is returned when Resolve is called without an event.
var ErrNoEvent = errors.New("no event to resolve")

// FeatureSource provides parsed boundary collections by source URL.
type FeatureSource interface {
	Fetch(ctx context.Context, src string) (*geo.FeatureCollection, error)
}

// Stats summarizes one pipeline run for metrics sinks.
type Stats struct {
	EventID            string
	PointID            string
	PeriodID           string
	ApproximateBorders bool
	Highlighted        int
	Markers            int
	Connections        int
	Shapes             int
	Unresolved         int
	Duration           time.Duration
}

// Recorder receives the stats of every successful run.
type Recorder interface {
	RecordResolution(ctx context.Context, s Stats) error
}

// Camera is where the map should look.
type Camera struct {
	geo.Viewport
	// FromFocus is set when the active point authored the camera position.
	FromFocus bool
}

// View is the resolved state for one (event, point) pair. EventID and PointID identify the
// request, so results for a superseded selection can be recognised and dropped.
type View struct {
	EventID string
	PointID string
	Period  period.Config

	Highlights  []core.CountryHighlight
	Connections []core.Connection
	Areas       []core.UnifiedArea

	// Names are the modern country names requested from the boundary source.
	Names    []string
	Timeline core.TimelineVisualization
	Result   synth.Result
	Camera   *Camera
}

// Option configures a Resolver.
type Option func(*Resolver)

func WithCentroids(c synth.CentroidLookup) Option {
	return func(r *Resolver) { r.centroids = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func WithRecorder(rec Recorder) Option {
	return func(r *Resolver) { r.recorder = rec }
}

// WithSimplify sets the share of ring vertices kept for fills.
func WithSimplify(fraction float64) Option {
	return func(r *Resolver) { r.simplify = fraction }
}

func WithFrameOptions(opts geo.FrameOptions) Option {
	return func(r *Resolver) { r.frame = opts }
}

// Resolver holds the long-lived collaborators of the pipeline. It keeps no per-request
// state, so one Resolver may serve concurrent requests.
type Resolver struct {
	catalogue *period.Catalogue
	features  FeatureSource
	centroids synth.CentroidLookup
	recorder  Recorder
	logger    *slog.Logger
	simplify  float64
	frame     geo.FrameOptions
}

func New(catalogue *period.Catalogue, features FeatureSource, opts ...Option) *Resolver {
	r := &Resolver{
		catalogue: catalogue,
		features:  features,
		logger:    slog.New(slog.DiscardHandler),
		frame:     geo.DefaultFrameOptions,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.catalogue == nil {
		r.catalogue = period.Default()
	}
	return r
}

// Resolve computes the view of ev at activePointID. Only boundary fetch failures are
// returned as errors; missing or malformed content yields a partial view.
func (r *Resolver) Resolve(ctx context.Context, ev *core.Event, activePointID string) (*View, error) {
	if ev == nil {
		return nil, ErrNoEvent
	}
	start := time.Now()
	log := r.logger.With("event", ev.ID, "point", activePointID)

	cfg := r.catalogue.ForEvent(ev)
	if cfg.ApproximateBorders {
		log.WarnContext(ctx, "period has no boundary file of its own, drawing modern borders",
			"period", cfg.ID, "source", cfg.GeoJSONPath)
	}

	requestedPoint := activePointID
	active, _ := timeline.Active(ev, activePointID)
	if active == nil {
		activePointID = ""
	}

	view := &View{
		EventID:     ev.ID,
		PointID:     requestedPoint,
		Period:      cfg,
		Highlights:  timeline.FilterHighlights(ev, activePointID),
		Connections: timeline.FilterConnections(ev, activePointID),
		Areas:       timeline.FilterAreas(ev, activePointID),
		Timeline:    mapdata.Extract(active),
	}

	requested, colors := requestedNames(ev, view)
	view.Names = period.ResolveNames(requested, cfg)
	aliases := period.Aliases(referencedNames(requested, view), cfg)
	modernColors := make(map[string]string, len(colors))
	for name, color := range colors {
		if modern, ok := aliases[name]; ok {
			for _, m := range modern {
				if _, set := modernColors[m]; !set {
					modernColors[m] = color
				}
			}
			continue
		}
		modernColors[name] = color
	}

	fc, err := r.features.Fetch(ctx, cfg.GeoJSONPath)
	if err != nil {
		return nil, fmt.Errorf("loading borders for period %s: %w", cfg.ID, err)
	}

	view.Result = synth.Synthesize(synth.Input{
		SourceURL:        cfg.GeoJSONPath,
		Features:         fc.Features,
		HighlightedNames: view.Names,
		Colors:           modernColors,
		UnifiedAreas:     view.Areas,
		Connections:      view.Connections,
		Aliases:          aliases,
		SimplifyFraction: r.simplify,
		Centroids:        r.centroids,
	})

	for _, name := range view.Result.Unresolved {
		log.WarnContext(ctx, "country not found in boundary data", "country", name, "period", cfg.ID)
	}
	if dropped := len(view.Connections) - len(view.Result.Connections); dropped > 0 {
		log.DebugContext(ctx, "connections without resolvable endpoints dropped", "count", dropped)
	}

	view.Camera = r.camera(view)

	stats := Stats{
		EventID:            ev.ID,
		PointID:            activePointID,
		PeriodID:           cfg.ID,
		ApproximateBorders: cfg.ApproximateBorders,
		Highlighted:        len(view.Result.Highlighted),
		Markers:            len(view.Result.Markers),
		Connections:        len(view.Result.Connections),
		Shapes:             len(view.Result.Shapes),
		Unresolved:         len(view.Result.Unresolved),
		Duration:           time.Since(start),
	}
	if r.recorder != nil {
		if err := r.recorder.RecordResolution(ctx, stats); err != nil {
			log.WarnContext(ctx, "recording resolution metrics failed", "error", err)
		}
	}
	log.DebugContext(ctx, "event resolved",
		"period", cfg.ID,
		"markers", stats.Markers,
		"connections", stats.Connections,
		"duration", stats.Duration,
	)
	return view, nil
}

// requestedNames collects the countries to highlight: the event's static list, the
// visible timed highlights and the countries derived from the active point's map data.
// Colors are keyed by the name as authored.
func requestedNames(ev *core.Event, view *View) ([]string, map[string]string) {
	var names []string
	colors := make(map[string]string)
	names = append(names, ev.HighlightedCountries...)
	for _, h := range view.Highlights {
		names = append(names, h.Country)
		if h.Color != "" {
			if _, set := colors[h.Country]; !set {
				colors[h.Country] = h.Color
			}
		}
	}
	names = append(names, view.Timeline.HighlightCountries...)
	return names, colors
}

// referencedNames adds area members and connection endpoints to names, for alias lookup.
func referencedNames(names []string, view *View) []string {
	out := append([]string(nil), names...)
	for _, a := range view.Areas {
		out = append(out, a.Countries...)
	}
	for _, c := range view.Connections {
		out = append(out, c.From, c.To)
	}
	return out
}

func (r *Resolver) camera(view *View) *Camera {
	if focus := view.Timeline.FocusLocation; focus != nil {
		zoom := r.frame.DefaultZoom
		if view.Timeline.FocusZoom != nil {
			zoom = *view.Timeline.FocusZoom
		}
		return &Camera{Viewport: geo.Viewport{Center: *focus, Zoom: zoom}, FromFocus: true}
	}

	points := make([]core.LngLat, 0, len(view.Result.Markers)+len(view.Timeline.Markers))
	for _, m := range view.Result.Markers {
		points = append(points, m.Position)
	}
	for _, m := range view.Timeline.Markers {
		points = append(points, m.Position)
	}
	vp, ok := geo.Frame(points, r.frame)
	if !ok {
		return nil
	}
	return &Camera{Viewport: vp}
}
