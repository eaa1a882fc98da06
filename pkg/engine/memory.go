package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/glmaps/mapmcp/pkg/geo"
)

// Memory is an in-memory Map implementation. It mirrors the source/layer
// table semantics of a real renderer (duplicate ids rejected, sources in
// use cannot be removed, a style swap discards everything) without any
// rendering surface, so the whole tool suite can run headless. It also
// implements Interactive by recording which layers had popups or hover
// cursors enabled.
//
// Style filter expressions attached to layers or queries are stored but
// not evaluated.
type Memory struct {
	mu       sync.RWMutex
	sources  map[string]Source
	layers   []Layer
	styleURL string

	center geo.Location
	zoom   float64

	cameraMoves int
	lastFlight  *Camera
	lastBounds  *geo.BoundingBox
	lastPadding float64

	popupLayers []string
	hoverLayers []string
}

// NewMemory returns an empty in-memory engine.
func NewMemory() *Memory {
	return &Memory{
		sources: make(map[string]Source),
		zoom:    0,
	}
}

// validateGeoJSON rejects coordinates a real renderer would refuse to
// project. Only canonical point shapes are checked; other geometries pass
// through.
func validateGeoJSON(data *geo.FeatureCollection) error {
	if data == nil {
		return fmt.Errorf("geojson source has no data")
	}
	for _, f := range data.Features {
		if f.Geometry == nil || f.Geometry.Type != "Point" {
			continue
		}
		coords, ok := f.Geometry.Coordinates.([]float64)
		if !ok || len(coords) != 2 {
			continue
		}
		lon, lat := coords[0], coords[1]
		if lat < -90 || lat > 90 {
			return fmt.Errorf("invalid latitude value: %v (must be between -90 and 90)", lat)
		}
		if lon < -180 || lon > 180 {
			return fmt.Errorf("invalid longitude value: %v (must be between -180 and 180)", lon)
		}
	}
	return nil
}

func (m *Memory) AddSource(ctx context.Context, id string, src Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		return fmt.Errorf("source id must not be empty")
	}
	if _, exists := m.sources[id]; exists {
		return fmt.Errorf("there is already a source with ID %q", id)
	}
	switch src.Type {
	case SourceTypeGeoJSON:
		if err := validateGeoJSON(src.Data); err != nil {
			return err
		}
	case SourceTypeVector:
		if src.URL == "" {
			return fmt.Errorf("vector source %q has no url", id)
		}
	default:
		return fmt.Errorf("unknown source type %q", src.Type)
	}

	m.sources[id] = src
	return nil
}

func (m *Memory) AddLayer(ctx context.Context, layer Layer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if layer.ID == "" {
		return fmt.Errorf("layer id must not be empty")
	}
	for _, l := range m.layers {
		if l.ID == layer.ID {
			return fmt.Errorf("there is already a layer with ID %q", layer.ID)
		}
	}
	switch layer.Type {
	case LayerTypeCircle, LayerTypeLine, LayerTypeFill, LayerTypeFillExtrusion, LayerTypeSymbol:
	default:
		return fmt.Errorf("unknown layer type %q", layer.Type)
	}
	if _, exists := m.sources[layer.Source]; !exists {
		return fmt.Errorf("source %q not found", layer.Source)
	}

	m.layers = append(m.layers, layer)
	return nil
}

func (m *Memory) RemoveLayer(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.ID == id {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("layer %q does not exist", id)
}

func (m *Memory) RemoveSource(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sources[id]; !exists {
		return fmt.Errorf("source %q does not exist", id)
	}
	for _, l := range m.layers {
		if l.Source == id {
			return fmt.Errorf("source %q is still in use by layer %q", id, l.ID)
		}
	}
	delete(m.sources, id)
	return nil
}

func (m *Memory) GetSource(ctx context.Context, id string) (Source, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.sources[id]
	return src, ok
}

func (m *Memory) SourceIDs(ctx context.Context) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sources))
	for id := range m.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Memory) SetCenter(ctx context.Context, center geo.Location, zoom float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = center
	m.zoom = zoom
	m.cameraMoves++
	return nil
}

func (m *Memory) FlyTo(ctx context.Context, camera Camera) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = camera.Center
	m.zoom = camera.Zoom
	m.lastFlight = &camera
	m.cameraMoves++
	return nil
}

func (m *Memory) FitBounds(ctx context.Context, bounds geo.BoundingBox, padding float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = geo.Location{
		Latitude:  (bounds.MinLat + bounds.MaxLat) / 2,
		Longitude: (bounds.MinLon + bounds.MaxLon) / 2,
	}
	m.lastBounds = &bounds
	m.lastPadding = padding
	m.cameraMoves++
	return nil
}

// SetStyle replaces the style document. Like a real renderer this discards
// every source and layer added so far.
func (m *Memory) SetStyle(ctx context.Context, styleURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.styleURL = styleURL
	m.sources = make(map[string]Source)
	m.layers = nil
	return nil
}

func (m *Memory) QueryRenderedFeatures(ctx context.Context, q RenderedQuery) ([]geo.Feature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]bool, len(q.Layers))
	for _, id := range q.Layers {
		wanted[id] = true
	}

	var out []geo.Feature
	for _, layer := range m.layers {
		if len(wanted) > 0 && !wanted[layer.ID] {
			continue
		}
		src, ok := m.sources[layer.Source]
		if !ok || src.Type != SourceTypeGeoJSON || src.Data == nil {
			continue
		}
		for _, f := range src.Data.Features {
			f.Layer = layer.ID
			f.Source = layer.Source
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *Memory) QuerySourceFeatures(ctx context.Context, sourceID string, q SourceQuery) ([]geo.Feature, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src, ok := m.sources[sourceID]
	if !ok {
		return nil, fmt.Errorf("source %q does not exist", sourceID)
	}
	if src.Type != SourceTypeGeoJSON || src.Data == nil {
		// Vector tile data lives on a tile server this engine never
		// contacts.
		return nil, nil
	}

	out := make([]geo.Feature, 0, len(src.Data.Features))
	for _, f := range src.Data.Features {
		f.Source = sourceID
		out = append(out, f)
	}
	return out, nil
}

func (m *Memory) EnablePopups(ctx context.Context, layerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popupLayers = append(m.popupLayers, layerID)
	return nil
}

func (m *Memory) EnableHoverCursor(ctx context.Context, layerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hoverLayers = append(m.hoverLayers, layerID)
	return nil
}

// LayerIDs returns the ids of all layers in render order.
func (m *Memory) LayerIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.layers))
	for _, l := range m.layers {
		ids = append(ids, l.ID)
	}
	return ids
}

// HasLayer reports whether a layer with the given id exists.
func (m *Memory) HasLayer(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.layers {
		if l.ID == id {
			return true
		}
	}
	return false
}

// GetLayer returns the layer with the given id, if any.
func (m *Memory) GetLayer(id string) (Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// StyleURL returns the currently applied style document URL.
func (m *Memory) StyleURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.styleURL
}

// Center returns the current camera center and zoom.
func (m *Memory) Center() (geo.Location, float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.center, m.zoom
}

// CameraMoves returns how many camera mutations have been issued.
func (m *Memory) CameraMoves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cameraMoves
}

// LastFlight returns the most recent animated transition, if any.
func (m *Memory) LastFlight() (Camera, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastFlight == nil {
		return Camera{}, false
	}
	return *m.lastFlight, true
}

// LastBounds returns the most recent fit-bounds target and padding, if any.
func (m *Memory) LastBounds() (geo.BoundingBox, float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastBounds == nil {
		return geo.BoundingBox{}, 0, false
	}
	return *m.lastBounds, m.lastPadding, true
}

// PopupLayers returns layers that had popup handling enabled.
func (m *Memory) PopupLayers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.popupLayers...)
}

// HoverLayers returns layers that had hover cursors enabled.
func (m *Memory) HoverLayers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.hoverLayers...)
}
