package tools

import (
	"context"
	"reflect"
	"testing"
)

func TestAddPolygon(t *testing.T) {
	ctx := context.Background()
	r, m := newTestRegistry(t, nil)

	rings := [][][]float64{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}}
	res := r.Execute(ctx, "add_polygon", map[string]any{
		"coordinates": rings,
		"layerName":   "zone",
	})
	if res.IsError {
		t.Fatalf("add_polygon failed: %s", res.Text())
	}
	if res.LayerID != "zone-1" {
		t.Errorf("layer id = %q, want zone-1", res.LayerID)
	}
	if res.SourceID != res.LayerID {
		t.Errorf("source id = %q, want %q", res.SourceID, res.LayerID)
	}

	fill, ok := m.GetLayer(res.LayerID + "-fill")
	if !ok {
		t.Fatal("fill layer missing")
	}
	if fill.Type != "fill" {
		t.Errorf("fill layer type = %q, want fill", fill.Type)
	}
	stroke, ok := m.GetLayer(res.LayerID + "-stroke")
	if !ok {
		t.Fatal("stroke layer missing")
	}
	if stroke.Type != "line" {
		t.Errorf("stroke layer type = %q, want line", stroke.Type)
	}
	if m.HasLayer(res.LayerID) {
		t.Error("base handle should not name an engine layer itself")
	}
}

func TestAddPolygonRoundTrip(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, nil)

	rings := [][][]float64{
		{{13.3, 52.5}, {13.5, 52.5}, {13.5, 52.6}, {13.3, 52.6}, {13.3, 52.5}},
		{{13.38, 52.53}, {13.42, 52.53}, {13.42, 52.55}, {13.38, 52.55}, {13.38, 52.53}},
	}
	added := r.Execute(ctx, "add_polygon", map[string]any{"coordinates": rings})
	if added.IsError {
		t.Fatalf("add_polygon failed: %s", added.Text())
	}

	queried := r.Execute(ctx, "query_source_features", map[string]any{
		"sourceId": added.SourceID,
	})
	if queried.IsError {
		t.Fatalf("query_source_features failed: %s", queried.Text())
	}
	if queried.Data == nil || len(queried.Data.Features) != 1 {
		t.Fatalf("expected exactly one feature, got %v", queried.Data)
	}

	geom := queried.Data.Features[0].Geometry
	if geom == nil || geom.Type != "Polygon" {
		t.Fatalf("geometry = %v, want Polygon", geom)
	}
	if !reflect.DeepEqual(geom.Coordinates, rings) {
		t.Errorf("round-tripped coordinates = %v, want %v", geom.Coordinates, rings)
	}
}

func TestAddPolygonNoRings(t *testing.T) {
	ctx := context.Background()
	r, m := newTestRegistry(t, nil)

	res := r.Execute(ctx, "add_polygon", map[string]any{
		"coordinates": [][][]float64{},
	})
	if !res.IsError {
		t.Fatal("add_polygon with no rings should fail")
	}
	if len(m.LayerIDs()) != 0 || len(m.SourceIDs(ctx)) != 0 {
		t.Error("failed add_polygon mutated the engine")
	}
}

func TestAddPolygonUnclosedRingAccepted(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t, nil)

	// No closure check: the caller is responsible for repeating the
	// first point as the last.
	res := r.Execute(ctx, "add_polygon", map[string]any{
		"coordinates": [][][]float64{{{0, 0}, {1, 0}, {1, 1}}},
	})
	if res.IsError {
		t.Fatalf("add_polygon with unclosed ring failed: %s", res.Text())
	}
}
