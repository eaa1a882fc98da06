package tools

import (
	"context"
	"fmt"

	"github.com/glmaps/mapmcp/pkg/engine"
	"github.com/glmaps/mapmcp/pkg/geo"
	"github.com/mark3labs/mcp-go/mcp"
)

// flyDurationMS is the fixed duration of an animated camera transition.
// The handler returns immediately; the animation finishes on its own.
const flyDurationMS = 2000

// defaultFitPadding is the pixel padding applied around fitted bounds.
const defaultFitPadding = 50

// SetCenterInput defines the input parameters for panning the camera.
type SetCenterInput struct {
	Longitude float64  `json:"longitude"`
	Latitude  float64  `json:"latitude"`
	Zoom      *float64 `json:"zoom"`
	Animate   *bool    `json:"animate"`
}

// SetCenterTool returns a tool definition for panning the camera.
func SetCenterTool() mcp.Tool {
	return mcp.NewTool("set_center",
		mcp.WithDescription("Pan the map to center on a position, optionally setting the zoom level"),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("The longitude coordinate of the new center"),
			mcp.Min(-180),
			mcp.Max(180),
		),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("The latitude coordinate of the new center"),
			mcp.Min(-90),
			mcp.Max(90),
		),
		mcp.WithNumber("zoom",
			mcp.Description("The zoom level"),
			mcp.DefaultNumber(12),
			mcp.Min(0),
			mcp.Max(22),
		),
		mcp.WithBoolean("animate",
			mcp.Description("Animate the transition instead of jumping"),
			mcp.DefaultBool(true),
		),
	)
}

// handleSetCenter moves the camera. With animate the transition is an
// animated flight of fixed duration, fire-and-forget; otherwise the center
// and zoom are set immediately.
func (r *Registry) handleSetCenter(ctx context.Context, args map[string]any) (*Result, error) {
	var input SetCenterInput
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	zoom := 12.0
	if input.Zoom != nil {
		zoom = *input.Zoom
	}
	animate := true
	if input.Animate != nil {
		animate = *input.Animate
	}

	center := geo.Location{Latitude: input.Latitude, Longitude: input.Longitude}
	if animate {
		camera := engine.Camera{Center: center, Zoom: zoom, DurationMS: flyDurationMS}
		if err := r.engine.FlyTo(ctx, camera); err != nil {
			return nil, err
		}
	} else {
		if err := r.engine.SetCenter(ctx, center, zoom); err != nil {
			return nil, err
		}
	}

	return textResult("Map centered at (%g, %g) with zoom %g", input.Longitude, input.Latitude, zoom), nil
}

// FitBoundsInput defines the input parameters for fitting the camera to a
// set of coordinates.
type FitBoundsInput struct {
	Coordinates [][]float64 `json:"coordinates"`
	Padding     *float64    `json:"padding"`
}

// FitBoundsTool returns a tool definition for fitting the camera to bounds.
func FitBoundsTool() mcp.Tool {
	return mcp.NewTool("fit_bounds",
		mcp.WithDescription("Adjust the camera so that all given [longitude, latitude] coordinates are visible"),
		mcp.WithArray("coordinates",
			mcp.Required(),
			mcp.Description("[longitude, latitude] pairs the view must contain (at least 1)"),
		),
		mcp.WithNumber("padding",
			mcp.Description("Padding around the bounds in pixels"),
			mcp.DefaultNumber(defaultFitPadding),
			mcp.Min(0),
			mcp.Max(500),
		),
	)
}

// handleFitBounds computes a bounding box across all coordinates and
// adjusts the camera to it. An empty coordinate list is an explicit error
// and issues no camera mutation.
func (r *Registry) handleFitBounds(ctx context.Context, args map[string]any) (*Result, error) {
	var input FitBoundsInput
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	if len(input.Coordinates) == 0 {
		return nil, fmt.Errorf("coordinates must contain at least one [longitude, latitude] pair")
	}

	padding := float64(defaultFitPadding)
	if input.Padding != nil {
		padding = *input.Padding
	}

	bounds := geo.NewBoundingBox()
	for _, pair := range input.Coordinates {
		if len(pair) < 2 {
			return nil, fmt.Errorf("coordinate %v is not a [longitude, latitude] pair", pair)
		}
		bounds.ExtendWithPoint(pair[1], pair[0])
	}

	if err := r.engine.FitBounds(ctx, *bounds, padding); err != nil {
		return nil, err
	}

	return textResult("Map fitted to bounds [%g, %g, %g, %g] with padding %g",
		bounds.MinLon, bounds.MinLat, bounds.MaxLon, bounds.MaxLat, padding), nil
}
