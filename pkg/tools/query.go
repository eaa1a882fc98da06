package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/glmaps/mapmcp/pkg/engine"
	"github.com/glmaps/mapmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

// stripGeometry removes geometry from each feature, leaving only the
// properties and the layer/source identifiers.
func stripGeometry(features []geo.Feature) {
	for i := range features {
		features[i].Geometry = nil
	}
}

// QueryRenderedFeaturesInput defines the input parameters for querying the
// rendered scene.
type QueryRenderedFeaturesInput struct {
	Point           map[string]any `json:"point"`
	BBox            []any          `json:"bbox"`
	Layers          []string       `json:"layers"`
	Filter          any            `json:"filter"`
	Limit           *float64       `json:"limit"`
	IncludeGeometry *bool          `json:"includeGeometry"`
}

// QueryRenderedFeaturesTool returns a tool definition for querying the
// rendered scene.
func QueryRenderedFeaturesTool() mcp.Tool {
	return mcp.NewTool("query_rendered_features",
		mcp.WithDescription("Query features from the currently rendered map view, "+
			"optionally at a screen point or within a screen bounding box "+
			"(the two are mutually exclusive)."),
		mcp.WithObject("point",
			mcp.Description("Screen point {x, y} in pixels to query at"),
		),
		mcp.WithArray("bbox",
			mcp.Description("Screen bounding box [x1, y1, x2, y2] in pixels to query within"),
		),
		mcp.WithArray("layers",
			mcp.Description("Restrict the query to these layer ids"),
		),
		mcp.WithArray("filter",
			mcp.Description("Filter expression, passed through verbatim"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of features to return"),
			mcp.DefaultNumber(100),
			mcp.Min(1),
			mcp.Max(1000),
		),
		mcp.WithBoolean("includeGeometry",
			mcp.Description("Include feature geometry in the result"),
			mcp.DefaultBool(true),
		),
	)
}

// handleQueryRenderedFeatures queries the engine's currently rendered
// scene, truncates to the limit and optionally strips geometry.
func (r *Registry) handleQueryRenderedFeatures(ctx context.Context, args map[string]any) (*Result, error) {
	var input QueryRenderedFeaturesInput
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	if input.Point != nil && input.BBox != nil {
		return nil, fmt.Errorf("point and bbox are mutually exclusive, provide at most one")
	}

	query := engine.RenderedQuery{Layers: input.Layers, Filter: input.Filter}
	if input.Point != nil {
		x, xok := input.Point["x"].(float64)
		y, yok := input.Point["y"].(float64)
		if !xok || !yok {
			return nil, fmt.Errorf("point must have numeric x and y fields")
		}
		query.Point = &engine.ScreenPoint{X: x, Y: y}
	}
	if input.BBox != nil {
		if len(input.BBox) != 4 {
			return nil, fmt.Errorf("bbox must have exactly 4 numbers [x1, y1, x2, y2], got %d", len(input.BBox))
		}
		var box [4]float64
		for i, v := range input.BBox {
			n, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("bbox must have exactly 4 numbers [x1, y1, x2, y2]")
			}
			box[i] = n
		}
		query.Box = &box
	}

	limit := clampLimit(input.Limit, 100, 1000)

	features, err := r.engine.QueryRenderedFeatures(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(features) > limit {
		features = features[:limit]
	}
	if input.IncludeGeometry != nil && !*input.IncludeGeometry {
		stripGeometry(features)
	}

	res := textResult("Found %d rendered features", len(features))
	res.Data = geo.NewFeatureCollection(features...)
	return res, nil
}

// QuerySourceFeaturesInput defines the input parameters for querying raw
// source data.
type QuerySourceFeaturesInput struct {
	SourceID        string   `json:"sourceId"`
	SourceLayer     string   `json:"sourceLayer"`
	Filter          any      `json:"filter"`
	Limit           *float64 `json:"limit"`
	IncludeGeometry *bool    `json:"includeGeometry"`
}

// QuerySourceFeaturesTool returns a tool definition for querying raw source
// data.
func QuerySourceFeaturesTool() mcp.Tool {
	return mcp.NewTool("query_source_features",
		mcp.WithDescription("Query raw feature data from a map source, "+
			"irrespective of the current viewport or zoom. Vector sources "+
			"require a sourceLayer."),
		mcp.WithString("sourceId",
			mcp.Required(),
			mcp.Description("The id of the source to query"),
		),
		mcp.WithString("sourceLayer",
			mcp.Description("The layer inside a vector source to query"),
		),
		mcp.WithArray("filter",
			mcp.Description("Filter expression, passed through verbatim"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of features to return"),
			mcp.DefaultNumber(1000),
			mcp.Min(1),
			mcp.Max(10000),
		),
		mcp.WithBoolean("includeGeometry",
			mcp.Description("Include feature geometry in the result"),
			mcp.DefaultBool(true),
		),
	)
}

// handleQuerySourceFeatures queries a source's raw data, truncates to the
// limit and optionally strips geometry.
func (r *Registry) handleQuerySourceFeatures(ctx context.Context, args map[string]any) (*Result, error) {
	var input QuerySourceFeaturesInput
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	if input.SourceID == "" {
		return nil, fmt.Errorf("sourceId is required")
	}

	src, ok := r.engine.GetSource(ctx, input.SourceID)
	if !ok {
		available := r.engine.SourceIDs(ctx)
		if len(available) == 0 {
			return nil, fmt.Errorf("unknown source %q; no sources exist", input.SourceID)
		}
		return nil, fmt.Errorf("unknown source %q; available sources: %s",
			input.SourceID, strings.Join(available, ", "))
	}
	if src.Type == engine.SourceTypeVector && input.SourceLayer == "" {
		return nil, fmt.Errorf("sourceLayer is required when querying vector source %q", input.SourceID)
	}

	limit := clampLimit(input.Limit, 1000, 10000)

	query := engine.SourceQuery{SourceLayer: input.SourceLayer, Filter: input.Filter}
	features, err := r.engine.QuerySourceFeatures(ctx, input.SourceID, query)
	if err != nil {
		return nil, err
	}
	if len(features) > limit {
		features = features[:limit]
	}
	if input.IncludeGeometry != nil && !*input.IncludeGeometry {
		stripGeometry(features)
	}

	res := textResult("Found %d features in source %s", len(features), input.SourceID)
	res.Data = geo.NewFeatureCollection(features...)
	return res, nil
}
