package tools

import (
	"context"
	"testing"
)

func TestSetCenterAnimated(t *testing.T) {
	ctx := context.Background()
	r, m := newTestRegistry(t, nil)

	res := r.Execute(ctx, "set_center", map[string]any{
		"longitude": 13.4,
		"latitude":  52.52,
	})
	if res.IsError {
		t.Fatalf("set_center failed: %s", res.Text())
	}

	flight, ok := m.LastFlight()
	if !ok {
		t.Fatal("animated set_center did not issue a flight")
	}
	if flight.Center.Longitude != 13.4 || flight.Center.Latitude != 52.52 {
		t.Errorf("flight center = %+v", flight.Center)
	}
	if flight.Zoom != 12 {
		t.Errorf("flight zoom = %g, want default 12", flight.Zoom)
	}
	if flight.DurationMS != flyDurationMS {
		t.Errorf("flight duration = %d, want %d", flight.DurationMS, flyDurationMS)
	}
}

func TestSetCenterImmediate(t *testing.T) {
	ctx := context.Background()
	r, m := newTestRegistry(t, nil)

	res := r.Execute(ctx, "set_center", map[string]any{
		"longitude": 2.35,
		"latitude":  48.86,
		"zoom":      0.0,
		"animate":   false,
	})
	if res.IsError {
		t.Fatalf("set_center failed: %s", res.Text())
	}

	if _, ok := m.LastFlight(); ok {
		t.Error("non-animated set_center issued a flight")
	}
	center, zoom := m.Center()
	if center.Longitude != 2.35 || center.Latitude != 48.86 {
		t.Errorf("center = %+v", center)
	}
	if zoom != 0 {
		t.Errorf("zoom = %g, want explicit 0", zoom)
	}
}

func TestFitBounds(t *testing.T) {
	ctx := context.Background()
	r, m := newTestRegistry(t, nil)

	res := r.Execute(ctx, "fit_bounds", map[string]any{
		"coordinates": [][]float64{{13.4, 52.52}, {2.35, 48.86}, {8.68, 50.11}},
	})
	if res.IsError {
		t.Fatalf("fit_bounds failed: %s", res.Text())
	}

	bounds, padding, ok := m.LastBounds()
	if !ok {
		t.Fatal("fit_bounds issued no camera mutation")
	}
	if bounds.MinLon != 2.35 || bounds.MaxLon != 13.4 || bounds.MinLat != 48.86 || bounds.MaxLat != 52.52 {
		t.Errorf("bounds = %+v", bounds)
	}
	if padding != defaultFitPadding {
		t.Errorf("padding = %g, want default %d", padding, defaultFitPadding)
	}
}

func TestFitBoundsCustomPadding(t *testing.T) {
	ctx := context.Background()
	r, m := newTestRegistry(t, nil)

	res := r.Execute(ctx, "fit_bounds", map[string]any{
		"coordinates": [][]float64{{0, 0}, {1, 1}},
		"padding":     120,
	})
	if res.IsError {
		t.Fatalf("fit_bounds failed: %s", res.Text())
	}
	if _, padding, _ := m.LastBounds(); padding != 120 {
		t.Errorf("padding = %g, want 120", padding)
	}
}

func TestFitBoundsEmptyCoordinates(t *testing.T) {
	ctx := context.Background()
	r, m := newTestRegistry(t, nil)

	res := r.Execute(ctx, "fit_bounds", map[string]any{
		"coordinates": [][]float64{},
	})
	if !res.IsError {
		t.Fatal("fit_bounds with empty coordinates should fail")
	}
	if m.CameraMoves() != 0 {
		t.Error("failed fit_bounds issued a camera mutation")
	}
}
