package tools

import (
	"context"

	"github.com/glmaps/mapmcp/pkg/engine"
	"github.com/glmaps/mapmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

// PointInput is one marker position with optional display properties.
type PointInput struct {
	Longitude   float64        `json:"longitude"`
	Latitude    float64        `json:"latitude"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// AddPointsInput defines the input parameters for adding point markers.
type AddPointsInput struct {
	Points    []PointInput `json:"points"`
	LayerName string       `json:"layerName"`
	Color     string       `json:"color"`
	Radius    float64      `json:"radius"`
}

// AddPointsTool returns a tool definition for adding point markers.
func AddPointsTool() mcp.Tool {
	return mcp.NewTool("add_points",
		mcp.WithDescription("Add point markers to the map as a new circle layer. "+
			"Each point needs a longitude (-180 to 180) and latitude (-90 to 90) "+
			"and may carry a title, a description and extra properties."),
		mcp.WithArray("points",
			mcp.Required(),
			mcp.Description("Array of points, each an object with longitude, latitude and optional title/description/properties"),
		),
		mcp.WithString("layerName",
			mcp.Description("Base name for the new layer"),
			mcp.DefaultString("points"),
		),
		mcp.WithString("color",
			mcp.Description("Circle color as a CSS color string"),
		),
		mcp.WithNumber("radius",
			mcp.Description("Circle radius in pixels"),
			mcp.DefaultNumber(6),
			mcp.Min(1),
			mcp.Max(50),
		),
	)
}

// handleAddPoints creates one point-geometry source and one circle layer.
// Per-point coordinates are passed to the engine unchecked; an engine
// rejection surfaces as the handler error.
func (r *Registry) handleAddPoints(ctx context.Context, args map[string]any) (*Result, error) {
	input := AddPointsInput{LayerName: "points", Radius: 6}
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	// The counter ticks before any validation so identifier sequences
	// stay stable across failed calls.
	layerID := r.nextID(input.LayerName)

	color := input.Color
	if color == "" {
		color = r.opts.PointColor
	}

	features := make([]geo.Feature, 0, len(input.Points))
	for _, p := range input.Points {
		props := map[string]any{}
		for k, v := range p.Properties {
			props[k] = v
		}
		if p.Title != "" {
			props["title"] = p.Title
		}
		if p.Description != "" {
			props["description"] = p.Description
		}
		features = append(features, geo.Feature{
			Type:       "Feature",
			Geometry:   geo.NewPoint(p.Longitude, p.Latitude),
			Properties: props,
		})
	}

	src := engine.Source{
		Type: engine.SourceTypeGeoJSON,
		Data: geo.NewFeatureCollection(features...),
	}
	if err := r.engine.AddSource(ctx, layerID, src); err != nil {
		return nil, err
	}
	r.trackSource(layerID)

	layer := engine.Layer{
		ID:     layerID,
		Type:   engine.LayerTypeCircle,
		Source: layerID,
		Paint: map[string]any{
			"circle-radius":       input.Radius,
			"circle-color":        color,
			"circle-stroke-width": 2,
			"circle-stroke-color": "#FFFFFF",
		},
	}
	if err := r.engine.AddLayer(ctx, layer); err != nil {
		return nil, err
	}
	r.trackLayer(layerID, layerID)

	r.attachListeners(ctx, layerID)

	res := textResult("Added %d points to layer %s", len(input.Points), layerID)
	res.LayerID = layerID
	return res, nil
}
