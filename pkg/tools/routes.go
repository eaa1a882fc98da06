package tools

import (
	"context"
	"fmt"

	"github.com/glmaps/mapmcp/pkg/engine"
	"github.com/glmaps/mapmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

// AddRouteInput defines the input parameters for drawing a route line.
type AddRouteInput struct {
	Coordinates [][]float64 `json:"coordinates"`
	LayerName   string      `json:"layerName"`
	Color       string      `json:"color"`
	Width       float64     `json:"width"`
}

// AddRouteTool returns a tool definition for drawing a route line.
func AddRouteTool() mcp.Tool {
	return mcp.NewTool("add_route",
		mcp.WithDescription("Draw a route on the map as a line layer from an "+
			"ordered list of [longitude, latitude] coordinate pairs (at least 2)."),
		mcp.WithArray("coordinates",
			mcp.Required(),
			mcp.Description("Ordered [longitude, latitude] pairs describing the route"),
		),
		mcp.WithString("layerName",
			mcp.Description("Base name for the new layer"),
			mcp.DefaultString("route"),
		),
		mcp.WithString("color",
			mcp.Description("Line color as a CSS color string"),
		),
		mcp.WithNumber("width",
			mcp.Description("Line width in pixels"),
			mcp.Min(1),
			mcp.Max(20),
		),
	)
}

// handleAddRoute creates one line-geometry source and one line layer. The
// coordinate sequence is passed through unchanged: no ordering, dedup or
// degeneracy checks.
func (r *Registry) handleAddRoute(ctx context.Context, args map[string]any) (*Result, error) {
	input := AddRouteInput{LayerName: "route"}
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	layerID := r.nextID(input.LayerName)

	if len(input.Coordinates) < 2 {
		return nil, fmt.Errorf("a route requires at least 2 coordinate pairs, got %d", len(input.Coordinates))
	}

	color := input.Color
	if color == "" {
		color = r.opts.RouteColor
	}
	width := input.Width
	if width == 0 {
		width = r.opts.RouteWidth
	}

	src := engine.Source{
		Type: engine.SourceTypeGeoJSON,
		Data: geo.NewFeatureCollection(geo.Feature{
			Type:     "Feature",
			Geometry: geo.NewLineString(input.Coordinates),
		}),
	}
	if err := r.engine.AddSource(ctx, layerID, src); err != nil {
		return nil, err
	}
	r.trackSource(layerID)

	layer := engine.Layer{
		ID:     layerID,
		Type:   engine.LayerTypeLine,
		Source: layerID,
		Layout: map[string]any{
			"line-join": "round",
			"line-cap":  "round",
		},
		Paint: map[string]any{
			"line-color": color,
			"line-width": width,
		},
	}
	if err := r.engine.AddLayer(ctx, layer); err != nil {
		return nil, err
	}
	r.trackLayer(layerID, layerID)

	res := textResult("Added route with %d coordinates as layer %s", len(input.Coordinates), layerID)
	res.LayerID = layerID
	return res, nil
}
