package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// styleURLs maps the accepted style names to style document URLs.
var styleURLs = map[string]string{
	"streets":           "mapbox://styles/mapbox/streets-v12",
	"outdoors":          "mapbox://styles/mapbox/outdoors-v12",
	"light":             "mapbox://styles/mapbox/light-v11",
	"dark":              "mapbox://styles/mapbox/dark-v11",
	"satellite":         "mapbox://styles/mapbox/satellite-v9",
	"satellite-streets": "mapbox://styles/mapbox/satellite-streets-v12",
}

// SetStyleInput defines the input parameters for swapping the base style.
type SetStyleInput struct {
	Style string `json:"style"`
}

// SetStyleTool returns a tool definition for swapping the base style.
func SetStyleTool() mcp.Tool {
	return mcp.NewTool("set_style",
		mcp.WithDescription("Replace the map's base style. This is destructive: "+
			"every source and layer added by earlier tool calls is removed by "+
			"the style change."),
		mcp.WithString("style",
			mcp.Required(),
			mcp.Description("The style to apply"),
			mcp.Enum("streets", "outdoors", "light", "dark", "satellite", "satellite-streets"),
		),
	)
}

// handleSetStyle replaces the engine's entire style document and forgets
// the created-identifier record, since the swap discards the engine's whole
// layer/source table.
func (r *Registry) handleSetStyle(ctx context.Context, args map[string]any) (*Result, error) {
	var input SetStyleInput
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	url, ok := styleURLs[input.Style]
	if !ok {
		return nil, fmt.Errorf("unknown style %q", input.Style)
	}

	if err := r.engine.SetStyle(ctx, url); err != nil {
		return nil, err
	}
	r.resetTracking()

	return textResult("Map style set to %s. Sources and layers added by earlier tool calls were removed by the style change.", input.Style), nil
}
