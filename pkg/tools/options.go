// Package tools provides the map-manipulation MCP tools implementations.
package tools

// Options holds the recognized construction options for a tool registry.
// Zero-valued styling fields fall back to the defaults below; the listener
// toggles default to off.
type Options struct {
	PointColor         string
	RouteColor         string
	RouteWidth         float64
	PolygonFillColor   string
	PolygonFillOpacity float64
	PolygonStrokeColor string
	PolygonStrokeWidth float64

	// EnablePopups attaches click-to-popup handling to point layers on
	// engines with a pointer-capable surface.
	EnablePopups bool
	// EnableHoverEffects attaches hover-cursor handling to point layers
	// on engines with a pointer-capable surface.
	EnableHoverEffects bool
}

// DefaultOptions returns the default styling configuration.
func DefaultOptions() *Options {
	return &Options{
		PointColor:         "#3FB1CE",
		RouteColor:         "#3887BE",
		RouteWidth:         4,
		PolygonFillColor:   "#3887BE",
		PolygonFillOpacity: 0.4,
		PolygonStrokeColor: "#2D618C",
		PolygonStrokeWidth: 2,
	}
}

// withDefaults fills unset styling fields from DefaultOptions.
func (o *Options) withDefaults() *Options {
	def := DefaultOptions()
	if o == nil {
		return def
	}
	out := *o
	if out.PointColor == "" {
		out.PointColor = def.PointColor
	}
	if out.RouteColor == "" {
		out.RouteColor = def.RouteColor
	}
	if out.RouteWidth == 0 {
		out.RouteWidth = def.RouteWidth
	}
	if out.PolygonFillColor == "" {
		out.PolygonFillColor = def.PolygonFillColor
	}
	if out.PolygonFillOpacity == 0 {
		out.PolygonFillOpacity = def.PolygonFillOpacity
	}
	if out.PolygonStrokeColor == "" {
		out.PolygonStrokeColor = def.PolygonStrokeColor
	}
	if out.PolygonStrokeWidth == 0 {
		out.PolygonStrokeWidth = def.PolygonStrokeWidth
	}
	return &out
}
