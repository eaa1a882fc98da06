package engine

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/glmaps/mapmcp/pkg/geo"
)

func pointCollection(coords ...[]float64) *geo.FeatureCollection {
	features := make([]geo.Feature, 0, len(coords))
	for _, c := range coords {
		features = append(features, geo.Feature{
			Type:       "Feature",
			Geometry:   geo.NewPoint(c[0], c[1]),
			Properties: map[string]any{},
		})
	}
	return geo.NewFeatureCollection(features...)
}

func TestMemoryAddSource(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		src     Source
		wantErr string
	}{
		{
			name: "geojson source",
			id:   "pts",
			src:  Source{Type: SourceTypeGeoJSON, Data: pointCollection([]float64{1, 2})},
		},
		{
			name:    "empty id",
			id:      "",
			src:     Source{Type: SourceTypeGeoJSON, Data: pointCollection()},
			wantErr: "must not be empty",
		},
		{
			name:    "geojson without data",
			id:      "empty",
			src:     Source{Type: SourceTypeGeoJSON},
			wantErr: "no data",
		},
		{
			name: "vector source",
			id:   "tiles",
			src:  Source{Type: SourceTypeVector, URL: "mapbox://mapbox.mapbox-streets-v8"},
		},
		{
			name:    "vector without url",
			id:      "tiles2",
			src:     Source{Type: SourceTypeVector},
			wantErr: "no url",
		},
		{
			name:    "unknown type",
			id:      "raster",
			src:     Source{Type: "raster"},
			wantErr: "unknown source type",
		},
		{
			name:    "latitude out of range",
			id:      "bad-lat",
			src:     Source{Type: SourceTypeGeoJSON, Data: pointCollection([]float64{0, 95})},
			wantErr: "invalid latitude",
		},
		{
			name:    "longitude out of range",
			id:      "bad-lon",
			src:     Source{Type: SourceTypeGeoJSON, Data: pointCollection([]float64{200, 0})},
			wantErr: "invalid longitude",
		},
	}

	m := NewMemory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.AddSource(ctx, tt.id, tt.src)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("AddSource() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("AddSource() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	// Duplicate id of a source that already landed.
	err := m.AddSource(ctx, "pts", Source{Type: SourceTypeGeoJSON, Data: pointCollection()})
	if err == nil || !strings.Contains(err.Error(), "already a source") {
		t.Errorf("duplicate AddSource() error = %v", err)
	}
}

func TestMemoryAddLayer(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.AddSource(ctx, "pts", Source{Type: SourceTypeGeoJSON, Data: pointCollection()}); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}

	if err := m.AddLayer(ctx, Layer{ID: "pts", Type: LayerTypeCircle, Source: "pts"}); err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}

	tests := []struct {
		name    string
		layer   Layer
		wantErr string
	}{
		{
			name:    "duplicate id",
			layer:   Layer{ID: "pts", Type: LayerTypeCircle, Source: "pts"},
			wantErr: "already a layer",
		},
		{
			name:    "unknown type",
			layer:   Layer{ID: "heat", Type: "heatmap", Source: "pts"},
			wantErr: "unknown layer type",
		},
		{
			name:    "missing source",
			layer:   Layer{ID: "orphan", Type: LayerTypeLine, Source: "nope"},
			wantErr: "not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.AddLayer(ctx, tt.layer)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("AddLayer() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMemoryRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.AddSource(ctx, "pts", Source{Type: SourceTypeGeoJSON, Data: pointCollection()}); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if err := m.AddLayer(ctx, Layer{ID: "pts", Type: LayerTypeCircle, Source: "pts"}); err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}

	if err := m.RemoveSource(ctx, "pts"); err == nil {
		t.Error("RemoveSource() should fail while a layer uses the source")
	}
	if err := m.RemoveLayer(ctx, "nope"); err == nil {
		t.Error("RemoveLayer() of unknown layer should fail")
	}
	if err := m.RemoveLayer(ctx, "pts"); err != nil {
		t.Fatalf("RemoveLayer() error = %v", err)
	}
	if err := m.RemoveSource(ctx, "pts"); err != nil {
		t.Fatalf("RemoveSource() error = %v", err)
	}
	if err := m.RemoveSource(ctx, "pts"); err == nil {
		t.Error("RemoveSource() of removed source should fail")
	}
}

func TestMemorySetStyleDiscardsState(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.AddSource(ctx, "pts", Source{Type: SourceTypeGeoJSON, Data: pointCollection()}); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if err := m.AddLayer(ctx, Layer{ID: "pts", Type: LayerTypeCircle, Source: "pts"}); err != nil {
		t.Fatalf("AddLayer() error = %v", err)
	}

	if err := m.SetStyle(ctx, "mapbox://styles/mapbox/dark-v11"); err != nil {
		t.Fatalf("SetStyle() error = %v", err)
	}
	if got := m.StyleURL(); got != "mapbox://styles/mapbox/dark-v11" {
		t.Errorf("StyleURL() = %q", got)
	}
	if got := m.SourceIDs(ctx); len(got) != 0 {
		t.Errorf("SourceIDs() after style swap = %v, want empty", got)
	}
	if got := m.LayerIDs(); len(got) != 0 {
		t.Errorf("LayerIDs() after style swap = %v, want empty", got)
	}
}

func TestMemoryQueryRenderedFeatures(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.AddSource(ctx, "a", Source{Type: SourceTypeGeoJSON, Data: pointCollection([]float64{1, 1})}); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if err := m.AddSource(ctx, "b", Source{Type: SourceTypeGeoJSON, Data: pointCollection([]float64{2, 2}, []float64{3, 3})}); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if err := m.AddLayer(ctx, Layer{ID: id, Type: LayerTypeCircle, Source: id}); err != nil {
			t.Fatalf("AddLayer(%s) error = %v", id, err)
		}
	}

	all, err := m.QueryRenderedFeatures(ctx, RenderedQuery{})
	if err != nil {
		t.Fatalf("QueryRenderedFeatures() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d features, want 3", len(all))
	}
	if all[0].Layer != "a" || all[0].Source != "a" {
		t.Errorf("feature annotation = %q/%q, want a/a", all[0].Layer, all[0].Source)
	}

	filtered, err := m.QueryRenderedFeatures(ctx, RenderedQuery{Layers: []string{"b"}})
	if err != nil {
		t.Fatalf("QueryRenderedFeatures() error = %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("got %d features from layer b, want 2", len(filtered))
	}
}

func TestMemoryQuerySourceFeatures(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	data := pointCollection([]float64{4, 5})
	if err := m.AddSource(ctx, "pts", Source{Type: SourceTypeGeoJSON, Data: data}); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}
	if err := m.AddSource(ctx, "tiles", Source{Type: SourceTypeVector, URL: "mapbox://x.y"}); err != nil {
		t.Fatalf("AddSource() error = %v", err)
	}

	got, err := m.QuerySourceFeatures(ctx, "pts", SourceQuery{})
	if err != nil {
		t.Fatalf("QuerySourceFeatures() error = %v", err)
	}
	if len(got) != 1 || got[0].Source != "pts" {
		t.Errorf("QuerySourceFeatures() = %v", got)
	}
	if !reflect.DeepEqual(got[0].Geometry, data.Features[0].Geometry) {
		t.Error("feature geometry was not passed through untouched")
	}

	vec, err := m.QuerySourceFeatures(ctx, "tiles", SourceQuery{SourceLayer: "road"})
	if err != nil {
		t.Fatalf("QuerySourceFeatures(vector) error = %v", err)
	}
	if len(vec) != 0 {
		t.Errorf("vector source returned %d features, want 0", len(vec))
	}

	if _, err := m.QuerySourceFeatures(ctx, "nope", SourceQuery{}); err == nil {
		t.Error("QuerySourceFeatures() of unknown source should fail")
	}
}

func TestMemoryCamera(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.SetCenter(ctx, geo.Location{Latitude: 48.85, Longitude: 2.35}, 11); err != nil {
		t.Fatalf("SetCenter() error = %v", err)
	}
	center, zoom := m.Center()
	if center.Latitude != 48.85 || center.Longitude != 2.35 || zoom != 11 {
		t.Errorf("Center() = %v zoom %g", center, zoom)
	}

	if err := m.FlyTo(ctx, Camera{Center: geo.Location{Latitude: 1, Longitude: 2}, Zoom: 5, DurationMS: 2000}); err != nil {
		t.Fatalf("FlyTo() error = %v", err)
	}
	flight, ok := m.LastFlight()
	if !ok || flight.DurationMS != 2000 {
		t.Errorf("LastFlight() = %v, %v", flight, ok)
	}

	if got := m.CameraMoves(); got != 2 {
		t.Errorf("CameraMoves() = %d, want 2", got)
	}
}
