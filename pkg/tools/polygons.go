package tools

import (
	"context"
	"fmt"

	"github.com/glmaps/mapmcp/pkg/engine"
	"github.com/glmaps/mapmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

// AddPolygonInput defines the input parameters for drawing a polygon.
type AddPolygonInput struct {
	Coordinates [][][]float64 `json:"coordinates"`
	LayerName   string        `json:"layerName"`
	FillColor   string        `json:"fillColor"`
	FillOpacity float64       `json:"fillOpacity"`
	StrokeColor string        `json:"strokeColor"`
	StrokeWidth float64       `json:"strokeWidth"`
}

// AddPolygonTool returns a tool definition for drawing a polygon.
func AddPolygonTool() mcp.Tool {
	return mcp.NewTool("add_polygon",
		mcp.WithDescription("Draw a polygon on the map with a fill and an outline. "+
			"Coordinates are an array of linear rings of [longitude, latitude] pairs; "+
			"the first ring is the exterior and each ring must repeat its first "+
			"point as its last point."),
		mcp.WithArray("coordinates",
			mcp.Required(),
			mcp.Description("Array of linear rings, each an array of [longitude, latitude] pairs"),
		),
		mcp.WithString("layerName",
			mcp.Description("Base name for the new layers"),
			mcp.DefaultString("polygon"),
		),
		mcp.WithString("fillColor",
			mcp.Description("Fill color as a CSS color string"),
		),
		mcp.WithNumber("fillOpacity",
			mcp.Description("Fill opacity"),
			mcp.Min(0),
			mcp.Max(1),
		),
		mcp.WithString("strokeColor",
			mcp.Description("Outline color as a CSS color string"),
		),
		mcp.WithNumber("strokeWidth",
			mcp.Description("Outline width in pixels"),
			mcp.Min(0),
			mcp.Max(20),
		),
	)
}

// handleAddPolygon creates one polygon-geometry source plus a fill layer
// and a separate stroke layer derived from the same handle. Rings are not
// checked for closure or self-intersection.
func (r *Registry) handleAddPolygon(ctx context.Context, args map[string]any) (*Result, error) {
	input := AddPolygonInput{LayerName: "polygon"}
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	layerID := r.nextID(input.LayerName)

	if len(input.Coordinates) == 0 {
		return nil, fmt.Errorf("a polygon requires at least one linear ring")
	}

	fillColor := input.FillColor
	if fillColor == "" {
		fillColor = r.opts.PolygonFillColor
	}
	fillOpacity := input.FillOpacity
	if fillOpacity == 0 {
		fillOpacity = r.opts.PolygonFillOpacity
	}
	strokeColor := input.StrokeColor
	if strokeColor == "" {
		strokeColor = r.opts.PolygonStrokeColor
	}
	strokeWidth := input.StrokeWidth
	if strokeWidth == 0 {
		strokeWidth = r.opts.PolygonStrokeWidth
	}

	src := engine.Source{
		Type: engine.SourceTypeGeoJSON,
		Data: geo.NewFeatureCollection(geo.Feature{
			Type:     "Feature",
			Geometry: geo.NewPolygon(input.Coordinates),
		}),
	}
	if err := r.engine.AddSource(ctx, layerID, src); err != nil {
		return nil, err
	}
	r.trackSource(layerID)

	fillID := layerID + "-fill"
	fill := engine.Layer{
		ID:     fillID,
		Type:   engine.LayerTypeFill,
		Source: layerID,
		Paint: map[string]any{
			"fill-color":   fillColor,
			"fill-opacity": fillOpacity,
		},
	}
	if err := r.engine.AddLayer(ctx, fill); err != nil {
		return nil, err
	}
	r.trackLayer(fillID, layerID)

	strokeID := layerID + "-stroke"
	stroke := engine.Layer{
		ID:     strokeID,
		Type:   engine.LayerTypeLine,
		Source: layerID,
		Paint: map[string]any{
			"line-color": strokeColor,
			"line-width": strokeWidth,
		},
	}
	if err := r.engine.AddLayer(ctx, stroke); err != nil {
		return nil, err
	}
	r.trackLayer(strokeID, layerID)

	res := textResult("Added polygon as layer %s (rendered as %s and %s)", layerID, fillID, strokeID)
	res.LayerID = layerID
	res.SourceID = layerID
	return res, nil
}
