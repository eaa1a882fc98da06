// Package geo provides common geographic and GeoJSON types shared by the
// map tools and the engine boundary. It centralizes location-based data
// structures to ensure consistency across the codebase.
package geo

// Location represents a geographic coordinate (latitude and longitude)
// with standardized JSON field names.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BoundingBox represents a geographic bounding box with southwest and northeast corners
type BoundingBox struct {
	MinLat float64 // Southern edge (minimum latitude)
	MinLon float64 // Western edge (minimum longitude)
	MaxLat float64 // Northern edge (maximum latitude)
	MaxLon float64 // Eastern edge (maximum longitude)
}

// NewBoundingBox creates a new empty bounding box
func NewBoundingBox() *BoundingBox {
	return &BoundingBox{
		MinLat: 90.0, // Start with inverted min/max so any point extends correctly
		MinLon: 180.0,
		MaxLat: -90.0,
		MaxLon: -180.0,
	}
}

// ExtendWithPoint extends the bounding box to include the specified point
func (bb *BoundingBox) ExtendWithPoint(lat, lon float64) {
	if lat < bb.MinLat {
		bb.MinLat = lat
	}
	if lat > bb.MaxLat {
		bb.MaxLat = lat
	}
	if lon < bb.MinLon {
		bb.MinLon = lon
	}
	if lon > bb.MaxLon {
		bb.MaxLon = lon
	}
}

// Geometry is a GeoJSON geometry. Coordinates holds the shape appropriate
// for Type: []float64 for Point, [][]float64 for LineString and
// [][][]float64 for Polygon.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// NewPoint returns a Point geometry at the given longitude and latitude.
func NewPoint(lon, lat float64) *Geometry {
	return &Geometry{Type: "Point", Coordinates: []float64{lon, lat}}
}

// NewLineString returns a LineString geometry from [lon, lat] pairs.
func NewLineString(coords [][]float64) *Geometry {
	return &Geometry{Type: "LineString", Coordinates: coords}
}

// NewPolygon returns a Polygon geometry from linear rings. The first ring
// is the exterior; any following rings are holes.
func NewPolygon(rings [][][]float64) *Geometry {
	return &Geometry{Type: "Polygon", Coordinates: rings}
}

// Feature is a GeoJSON feature. Layer and Source identify where a feature
// came from when it was read back out of a rendered scene; both are empty
// on features the tools construct themselves.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Geometry      `json:"geometry,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	Layer      string         `json:"layer,omitempty"`
	Source     string         `json:"source,omitempty"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection returns a FeatureCollection with its type set.
func NewFeatureCollection(features ...Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{Type: "FeatureCollection", Features: features}
}
