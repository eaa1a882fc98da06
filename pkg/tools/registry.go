package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/glmaps/mapmcp/pkg/engine"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolHandler executes one tool invocation against the registry's engine.
type ToolHandler func(ctx context.Context, args map[string]any) (*Result, error)

// ToolDefinition represents one map tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     ToolHandler
}

// Registry holds the fixed catalog of map tools and dispatches invocations
// against the engine supplied at construction. One registry serves one map
// instance and lives as long as it does.
//
// The registry owns two pieces of state: the monotonically increasing
// counter that mints collision-free layer identifiers, and the record of
// every layer and source id it has created. Everything else (geometry,
// style, camera) lives in the engine.
type Registry struct {
	logger *slog.Logger
	engine engine.Map
	opts   *Options

	counter atomic.Int64

	defs     []ToolDefinition
	handlers map[string]ToolHandler

	mu          sync.Mutex
	layerOrder  []string
	layerSource map[string]string
	sourceOrder []string
	sourceSet   map[string]bool
}

// NewRegistry creates a new tool registry for the given engine. The engine
// handle is required; opts may be nil for defaults.
func NewRegistry(logger *slog.Logger, m engine.Map, opts *Options) (*Registry, error) {
	if m == nil {
		return nil, errors.New("map engine handle is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		logger:      logger,
		engine:      m,
		opts:        opts.withDefaults(),
		layerSource: make(map[string]string),
		sourceSet:   make(map[string]bool),
	}

	r.defs = []ToolDefinition{
		// Drawing tools
		{
			Name:        "add_points",
			Description: "Add point markers to the map as a new layer",
			Tool:        AddPointsTool(),
			Handler:     r.handleAddPoints,
		},
		{
			Name:        "add_route",
			Description: "Draw a route line on the map as a new layer",
			Tool:        AddRouteTool(),
			Handler:     r.handleAddRoute,
		},
		{
			Name:        "add_polygon",
			Description: "Draw a filled polygon with an outline on the map",
			Tool:        AddPolygonTool(),
			Handler:     r.handleAddPolygon,
		},

		// Camera tools
		{
			Name:        "set_center",
			Description: "Pan the map to a new center position and zoom level",
			Tool:        SetCenterTool(),
			Handler:     r.handleSetCenter,
		},
		{
			Name:        "fit_bounds",
			Description: "Adjust the camera so all given coordinates are visible",
			Tool:        FitBoundsTool(),
			Handler:     r.handleFitBounds,
		},

		// Style and layer management tools
		{
			Name:        "set_style",
			Description: "Replace the map's base style (removes custom layers)",
			Tool:        SetStyleTool(),
			Handler:     r.handleSetStyle,
		},
		{
			Name:        "add_vector_layer",
			Description: "Add a layer rendering data from a vector tileset",
			Tool:        AddVectorLayerTool(),
			Handler:     r.handleAddVectorLayer,
		},
		{
			Name:        "clear_layers",
			Description: "Remove layers previously created by these tools",
			Tool:        ClearLayersTool(),
			Handler:     r.handleClearLayers,
		},

		// Query tools
		{
			Name:        "query_rendered_features",
			Description: "Query features from the currently rendered map view",
			Tool:        QueryRenderedFeaturesTool(),
			Handler:     r.handleQueryRenderedFeatures,
		},
		{
			Name:        "query_source_features",
			Description: "Query raw feature data from a map source",
			Tool:        QuerySourceFeaturesTool(),
			Handler:     r.handleQuerySourceFeatures,
		},
	}

	r.handlers = make(map[string]ToolHandler, len(r.defs))
	for _, def := range r.defs {
		r.handlers[def.Name] = def.Handler
	}

	return r, nil
}

// GetToolDefinitions returns the fixed tool catalog. The list is built once
// at construction and identical across calls.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return r.defs
}

// Execute routes a (toolName, arguments) pair to the matching handler. It
// never propagates an error or panic to the caller: every failure becomes
// an envelope with IsError set.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (res *Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool handler panic", "tool", name, "panic", rec)
			res = errorResult("Error: tool %s failed: %v", name, rec)
		}
	}()

	handler, ok := r.handlers[name]
	if !ok {
		return errorResult("Error: unknown tool %q", name)
	}

	out, err := handler(ctx, args)
	if err != nil {
		r.logger.Debug("tool returned error", "tool", name, "error", err)
		return errorResult("Error: %s", err.Error())
	}
	return out
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.defs {
		name := def.Name
		r.logger.Info("registering tool", "name", name)
		mcpServer.AddTool(def.Tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res := r.Execute(ctx, name, req.Params.Arguments)
			return res.ToCallToolResult(), nil
		})
	}
}

// nextID mints a collision-free identifier for a requested layer name. The
// counter only ever advances, even when the invocation later fails, so a
// registry never hands out the same identifier twice.
func (r *Registry) nextID(name string) string {
	return fmt.Sprintf("%s-%d", name, r.counter.Add(1))
}

func (r *Registry) trackLayer(layerID, sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layerOrder = append(r.layerOrder, layerID)
	r.layerSource[layerID] = sourceID
}

func (r *Registry) trackSource(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sourceSet[sourceID] {
		return
	}
	r.sourceSet[sourceID] = true
	r.sourceOrder = append(r.sourceOrder, sourceID)
}

func (r *Registry) untrackLayer(layerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range r.layerOrder {
		if id == layerID {
			r.layerOrder = append(r.layerOrder[:i], r.layerOrder[i+1:]...)
			break
		}
	}
	delete(r.layerSource, layerID)
}

func (r *Registry) untrackSource(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.sourceSet[sourceID] {
		return
	}
	delete(r.sourceSet, sourceID)
	for i, id := range r.sourceOrder {
		if id == sourceID {
			r.sourceOrder = append(r.sourceOrder[:i], r.sourceOrder[i+1:]...)
			break
		}
	}
}

// resetTracking forgets every created identifier. Called after a style
// swap, which discards the engine's whole layer/source table.
func (r *Registry) resetTracking() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layerOrder = nil
	r.layerSource = make(map[string]string)
	r.sourceOrder = nil
	r.sourceSet = make(map[string]bool)
}

func (r *Registry) isTrackedLayer(layerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.layerSource[layerID]
	return ok
}

// sourceReferenced reports whether any tracked layer still uses the source.
func (r *Registry) sourceReferenced(sourceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, src := range r.layerSource {
		if src == sourceID {
			return true
		}
	}
	return false
}

// CreatedLayers returns the identifiers of every layer this registry has
// created, in creation order.
func (r *Registry) CreatedLayers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.layerOrder...)
}

// CreatedSources returns the identifiers of every source this registry has
// created, in creation order.
func (r *Registry) CreatedSources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sourceOrder...)
}

// Destroy removes everything this registry created from the engine. It is
// best-effort and idempotent: removal failures are logged, and calling it
// again when nothing remains is safe.
func (r *Registry) Destroy(ctx context.Context) {
	for _, layerID := range r.CreatedLayers() {
		if err := r.engine.RemoveLayer(ctx, layerID); err != nil {
			r.logger.Warn("failed to remove layer during teardown", "layer", layerID, "error", err)
		}
		r.untrackLayer(layerID)
	}
	for _, sourceID := range r.CreatedSources() {
		if err := r.engine.RemoveSource(ctx, sourceID); err != nil {
			r.logger.Warn("failed to remove source during teardown", "source", sourceID, "error", err)
		}
		r.untrackSource(sourceID)
	}
}

// attachListeners enables the configured interaction behavior on a freshly
// created layer. Attachment failures do not fail the tool call: the layer
// itself was created.
func (r *Registry) attachListeners(ctx context.Context, layerID string) {
	if !r.opts.EnablePopups && !r.opts.EnableHoverEffects {
		return
	}
	iv, ok := r.engine.(engine.Interactive)
	if !ok {
		r.logger.Debug("engine has no interaction support", "layer", layerID)
		return
	}
	if r.opts.EnablePopups {
		if err := iv.EnablePopups(ctx, layerID); err != nil {
			r.logger.Warn("failed to enable popups", "layer", layerID, "error", err)
		}
	}
	if r.opts.EnableHoverEffects {
		if err := iv.EnableHoverCursor(ctx, layerID); err != nil {
			r.logger.Warn("failed to enable hover cursor", "layer", layerID, "error", err)
		}
	}
}
