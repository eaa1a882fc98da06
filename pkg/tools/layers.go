package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ClearLayersInput defines the input parameters for removing layers.
type ClearLayersInput struct {
	LayerNames []string `json:"layerNames"`
}

// ClearLayersTool returns a tool definition for removing created layers.
func ClearLayersTool() mcp.Tool {
	return mcp.NewTool("clear_layers",
		mcp.WithDescription("Remove layers previously created by these tools. "+
			"Omit layerNames to remove every created layer; layers that existed "+
			"before these tools ran are never touched."),
		mcp.WithArray("layerNames",
			mcp.Description("Ids of specific created layers to remove; polygon base ids also remove their fill and stroke layers"),
		),
	)
}

// handleClearLayers removes created layers and then sweeps sources no
// longer referenced by any remaining created layer. Only identifiers this
// registry recorded at creation time are ever removed.
func (r *Registry) handleClearLayers(ctx context.Context, args map[string]any) (*Result, error) {
	var input ClearLayersInput
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}

	var targets []string
	if len(input.LayerNames) == 0 {
		targets = r.CreatedLayers()
	} else {
		for _, name := range input.LayerNames {
			// A polygon handle names two engine layers.
			for _, candidate := range []string{name, name + "-fill", name + "-stroke"} {
				if r.isTrackedLayer(candidate) {
					targets = append(targets, candidate)
				}
			}
		}
	}

	removed := 0
	for _, layerID := range targets {
		if err := r.engine.RemoveLayer(ctx, layerID); err != nil {
			r.logger.Warn("failed to remove layer", "layer", layerID, "error", err)
		} else {
			removed++
		}
		r.untrackLayer(layerID)
	}

	// Sweep sources orphaned by the removals above.
	for _, sourceID := range r.CreatedSources() {
		if r.sourceReferenced(sourceID) {
			continue
		}
		if err := r.engine.RemoveSource(ctx, sourceID); err != nil {
			r.logger.Warn("failed to remove source", "source", sourceID, "error", err)
		}
		r.untrackSource(sourceID)
	}

	return textResult("Removed %d layers", removed), nil
}
