// Package engine defines the capability boundary to the map-rendering
// engine. The tools never construct or own an engine; the caller supplies
// one at registry construction and the tools only issue mutation and query
// calls against it.
package engine

import (
	"context"
	"errors"

	"github.com/glmaps/mapmcp/pkg/geo"
)

// Source kinds understood by the engine.
const (
	SourceTypeGeoJSON = "geojson"
	SourceTypeVector  = "vector"
)

// Layer kinds understood by the engine.
const (
	LayerTypeCircle        = "circle"
	LayerTypeLine          = "line"
	LayerTypeFill          = "fill"
	LayerTypeFillExtrusion = "fill-extrusion"
	LayerTypeSymbol        = "symbol"
)

// ErrNotInteractive is returned when pointer-interaction support is
// requested from an engine that has none.
var ErrNotInteractive = errors.New("engine does not support interaction")

// Source describes a data source. Data is set for GeoJSON sources and URL
// for vector tile sources.
type Source struct {
	Type string                 `json:"type"`
	Data *geo.FeatureCollection `json:"data,omitempty"`
	URL  string                 `json:"url,omitempty"`
}

// Layer describes a rendering layer bound to a source. Paint, Layout and
// Filter are passed through to the engine verbatim.
type Layer struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Source      string         `json:"source"`
	SourceLayer string         `json:"source-layer,omitempty"`
	Paint       map[string]any `json:"paint,omitempty"`
	Layout      map[string]any `json:"layout,omitempty"`
	Filter      any            `json:"filter,omitempty"`
	MinZoom     *float64       `json:"minzoom,omitempty"`
	MaxZoom     *float64       `json:"maxzoom,omitempty"`
}

// Camera describes a camera transition target. DurationMS is zero for an
// immediate jump and positive for an animated flight.
type Camera struct {
	Center     geo.Location `json:"center"`
	Zoom       float64      `json:"zoom"`
	DurationMS int          `json:"duration_ms,omitempty"`
}

// ScreenPoint is a pixel position on the rendered map.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RenderedQuery selects features from the currently rendered scene. At most
// one of Point and Box is set; when both are nil the whole viewport is
// queried. Box is [x1, y1, x2, y2] in pixels.
type RenderedQuery struct {
	Point  *ScreenPoint `json:"point,omitempty"`
	Box    *[4]float64  `json:"box,omitempty"`
	Layers []string     `json:"layers,omitempty"`
	Filter any          `json:"filter,omitempty"`
}

// SourceQuery selects features from raw source data, irrespective of the
// current viewport or zoom.
type SourceQuery struct {
	SourceLayer string `json:"source_layer,omitempty"`
	Filter      any    `json:"filter,omitempty"`
}

// Map is the capability interface every engine implementation provides.
// Implementations must be safe for use from a single goroutine; callers
// serialize concurrent access themselves.
type Map interface {
	AddSource(ctx context.Context, id string, src Source) error
	AddLayer(ctx context.Context, layer Layer) error
	RemoveLayer(ctx context.Context, id string) error
	RemoveSource(ctx context.Context, id string) error

	// GetSource reports the source registered under id, if any.
	GetSource(ctx context.Context, id string) (Source, bool)
	// SourceIDs lists the ids of all registered sources.
	SourceIDs(ctx context.Context) []string

	SetCenter(ctx context.Context, center geo.Location, zoom float64) error
	FlyTo(ctx context.Context, camera Camera) error
	FitBounds(ctx context.Context, bounds geo.BoundingBox, padding float64) error
	SetStyle(ctx context.Context, styleURL string) error

	QueryRenderedFeatures(ctx context.Context, q RenderedQuery) ([]geo.Feature, error)
	QuerySourceFeatures(ctx context.Context, sourceID string, q SourceQuery) ([]geo.Feature, error)
}

// Interactive is implemented by engines with a pointer-capable rendering
// surface. The registry only calls these when the corresponding options are
// enabled at construction.
type Interactive interface {
	EnablePopups(ctx context.Context, layerID string) error
	EnableHoverCursor(ctx context.Context, layerID string) error
}
