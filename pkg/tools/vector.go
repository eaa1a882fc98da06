package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/glmaps/mapmcp/pkg/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// acceptedTilesetSchemes are the URL scheme prefixes a tileset URL may use.
var acceptedTilesetSchemes = []string{"mapbox://", "https://", "http://"}

// vectorSourceSuffix marks source identifiers derived from tileset URLs.
const vectorSourceSuffix = "-vector-source"

var nonAlnumPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// vectorSourceID derives a deterministic source identifier from a tileset
// URL so repeated calls with the same URL reuse one source.
func vectorSourceID(tilesetURL string) string {
	sanitized := nonAlnumPattern.ReplaceAllString(tilesetURL, "-")
	return strings.Trim(sanitized, "-") + vectorSourceSuffix
}

// defaultVectorPaint returns the default paint dictionary for a layer type.
func defaultVectorPaint(layerType string) (map[string]any, error) {
	switch layerType {
	case engine.LayerTypeLine:
		return map[string]any{"line-color": "#3887BE", "line-width": 2}, nil
	case engine.LayerTypeFill:
		return map[string]any{"fill-color": "#3887BE", "fill-opacity": 0.5}, nil
	case engine.LayerTypeCircle:
		return map[string]any{"circle-color": "#3887BE", "circle-radius": 5}, nil
	case engine.LayerTypeFillExtrusion:
		return map[string]any{"fill-extrusion-color": "#3887BE", "fill-extrusion-opacity": 0.8}, nil
	case engine.LayerTypeSymbol:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("unknown layer type %q (must be line, fill, circle, fill-extrusion or symbol)", layerType)
	}
}

// AddVectorLayerInput defines the input parameters for adding a vector
// tileset layer.
type AddVectorLayerInput struct {
	TilesetURL  string         `json:"tilesetUrl"`
	SourceLayer string         `json:"sourceLayer"`
	LayerType   string         `json:"layerType"`
	LayerName   string         `json:"layerName"`
	Paint       map[string]any `json:"paint"`
	Layout      map[string]any `json:"layout"`
	Filter      any            `json:"filter"`
	MinZoom     *float64       `json:"minzoom"`
	MaxZoom     *float64       `json:"maxzoom"`
}

// AddVectorLayerTool returns a tool definition for adding a vector tileset
// layer.
func AddVectorLayerTool() mcp.Tool {
	return mcp.NewTool("add_vector_layer",
		mcp.WithDescription("Add a layer rendering data from a vector tileset. "+
			"Repeated calls with the same tileset URL reuse one source."),
		mcp.WithString("tilesetUrl",
			mcp.Required(),
			mcp.Description("Tileset URL (mapbox://, https:// or http://)"),
		),
		mcp.WithString("sourceLayer",
			mcp.Required(),
			mcp.Description("Name of the layer inside the tileset to render"),
		),
		mcp.WithString("layerType",
			mcp.Required(),
			mcp.Description("How to render the data"),
			mcp.Enum("line", "fill", "circle", "fill-extrusion", "symbol"),
		),
		mcp.WithString("layerName",
			mcp.Description("Base name for the new layer"),
			mcp.DefaultString("vector-layer"),
		),
		mcp.WithObject("paint",
			mcp.Description("Paint property overrides, merged over the per-type defaults"),
		),
		mcp.WithObject("layout",
			mcp.Description("Layout properties, passed through verbatim"),
		),
		mcp.WithArray("filter",
			mcp.Description("Filter expression, passed through verbatim"),
		),
		mcp.WithNumber("minzoom",
			mcp.Description("Minimum zoom level for the layer"),
			mcp.Min(0),
			mcp.Max(24),
		),
		mcp.WithNumber("maxzoom",
			mcp.Description("Maximum zoom level for the layer"),
			mcp.Min(0),
			mcp.Max(24),
		),
	)
}

// handleAddVectorLayer adds a vector tile source (reusing an existing one
// for the same URL) and a rendering layer on top of it.
func (r *Registry) handleAddVectorLayer(ctx context.Context, args map[string]any) (*Result, error) {
	input := AddVectorLayerInput{LayerName: "vector-layer"}
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	layerID := r.nextID(input.LayerName)

	accepted := false
	for _, scheme := range acceptedTilesetSchemes {
		if strings.HasPrefix(input.TilesetURL, scheme) {
			accepted = true
			break
		}
	}
	if !accepted {
		return nil, fmt.Errorf("tileset URL %q must start with one of: %s",
			input.TilesetURL, strings.Join(acceptedTilesetSchemes, ", "))
	}

	paint, err := defaultVectorPaint(input.LayerType)
	if err != nil {
		return nil, err
	}
	// Caller-supplied paint wins on key conflicts.
	for k, v := range input.Paint {
		paint[k] = v
	}

	sourceID := vectorSourceID(input.TilesetURL)
	if _, exists := r.engine.GetSource(ctx, sourceID); !exists {
		src := engine.Source{Type: engine.SourceTypeVector, URL: input.TilesetURL}
		if err := r.engine.AddSource(ctx, sourceID, src); err != nil {
			return nil, err
		}
		r.trackSource(sourceID)
	}

	layer := engine.Layer{
		ID:          layerID,
		Type:        input.LayerType,
		Source:      sourceID,
		SourceLayer: input.SourceLayer,
		Paint:       paint,
		Layout:      input.Layout,
		Filter:      input.Filter,
		MinZoom:     input.MinZoom,
		MaxZoom:     input.MaxZoom,
	}
	if err := r.engine.AddLayer(ctx, layer); err != nil {
		return nil, err
	}
	r.trackLayer(layerID, sourceID)

	res := textResult("Added %s layer %s rendering %s from %s",
		input.LayerType, layerID, input.SourceLayer, input.TilesetURL)
	res.LayerID = layerID
	res.SourceID = sourceID
	return res, nil
}
