package geo

import (
	"encoding/json"
	"testing"
)

func TestBoundingBoxExtendWithPoint(t *testing.T) {
	tests := []struct {
		name   string
		points [][2]float64 // lat, lon
		want   BoundingBox
	}{
		{
			name:   "single point",
			points: [][2]float64{{37.77, -122.41}},
			want:   BoundingBox{MinLat: 37.77, MinLon: -122.41, MaxLat: 37.77, MaxLon: -122.41},
		},
		{
			name:   "two points",
			points: [][2]float64{{37.77, -122.41}, {34.05, -118.24}},
			want:   BoundingBox{MinLat: 34.05, MinLon: -122.41, MaxLat: 37.77, MaxLon: -118.24},
		},
		{
			name:   "crossing the equator",
			points: [][2]float64{{-1.29, 36.82}, {9.03, 38.74}},
			want:   BoundingBox{MinLat: -1.29, MinLon: 36.82, MaxLat: 9.03, MaxLon: 38.74},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := NewBoundingBox()
			for _, p := range tt.points {
				bb.ExtendWithPoint(p[0], p[1])
			}
			if *bb != tt.want {
				t.Errorf("ExtendWithPoint() = %+v, want %+v", *bb, tt.want)
			}
		})
	}
}

func TestGeometryConstructors(t *testing.T) {
	point := NewPoint(-122.41, 37.77)
	if point.Type != "Point" {
		t.Errorf("NewPoint type = %q, want Point", point.Type)
	}
	coords, ok := point.Coordinates.([]float64)
	if !ok || len(coords) != 2 || coords[0] != -122.41 || coords[1] != 37.77 {
		t.Errorf("NewPoint coordinates = %v, want [-122.41 37.77]", point.Coordinates)
	}

	line := NewLineString([][]float64{{0, 0}, {1, 1}})
	if line.Type != "LineString" {
		t.Errorf("NewLineString type = %q, want LineString", line.Type)
	}

	poly := NewPolygon([][][]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	if poly.Type != "Polygon" {
		t.Errorf("NewPolygon type = %q, want Polygon", poly.Type)
	}
}

func TestFeatureCollectionJSON(t *testing.T) {
	fc := NewFeatureCollection(Feature{
		Type:       "Feature",
		Geometry:   NewPoint(13.4, 52.52),
		Properties: map[string]any{"title": "Berlin"},
	})

	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["type"] != "FeatureCollection" {
		t.Errorf("type = %v, want FeatureCollection", decoded["type"])
	}
	features, ok := decoded["features"].([]any)
	if !ok || len(features) != 1 {
		t.Fatalf("features = %v, want one feature", decoded["features"])
	}

	// An empty collection must still marshal features as [], not null.
	data, err = json.Marshal(NewFeatureCollection())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"type":"FeatureCollection","features":[]}` {
		t.Errorf("empty collection = %s", data)
	}
}
