package engine

import (
	"context"

	"github.com/glmaps/mapmcp/pkg/geo"
	"golang.org/x/time/rate"
)

// Throttled wraps a Map and paces every engine call through a rate limiter.
// Useful in front of a remote renderer that should not be flooded with
// mutations faster than it can apply them.
type Throttled struct {
	inner   Map
	limiter *rate.Limiter
}

// NewThrottled wraps inner with the given limiter.
func NewThrottled(inner Map, limiter *rate.Limiter) *Throttled {
	return &Throttled{inner: inner, limiter: limiter}
}

// wait blocks until the limiter allows an event or the context is canceled.
func (t *Throttled) wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

func (t *Throttled) AddSource(ctx context.Context, id string, src Source) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.AddSource(ctx, id, src)
}

func (t *Throttled) AddLayer(ctx context.Context, layer Layer) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.AddLayer(ctx, layer)
}

func (t *Throttled) RemoveLayer(ctx context.Context, id string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.RemoveLayer(ctx, id)
}

func (t *Throttled) RemoveSource(ctx context.Context, id string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.RemoveSource(ctx, id)
}

func (t *Throttled) GetSource(ctx context.Context, id string) (Source, bool) {
	return t.inner.GetSource(ctx, id)
}

func (t *Throttled) SourceIDs(ctx context.Context) []string {
	return t.inner.SourceIDs(ctx)
}

func (t *Throttled) SetCenter(ctx context.Context, center geo.Location, zoom float64) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.SetCenter(ctx, center, zoom)
}

func (t *Throttled) FlyTo(ctx context.Context, camera Camera) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.FlyTo(ctx, camera)
}

func (t *Throttled) FitBounds(ctx context.Context, bounds geo.BoundingBox, padding float64) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.FitBounds(ctx, bounds, padding)
}

func (t *Throttled) SetStyle(ctx context.Context, styleURL string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.SetStyle(ctx, styleURL)
}

func (t *Throttled) QueryRenderedFeatures(ctx context.Context, q RenderedQuery) ([]geo.Feature, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.QueryRenderedFeatures(ctx, q)
}

func (t *Throttled) QuerySourceFeatures(ctx context.Context, sourceID string, q SourceQuery) ([]geo.Feature, error) {
	if err := t.wait(ctx); err != nil {
		return nil, err
	}
	return t.inner.QuerySourceFeatures(ctx, sourceID, q)
}

// EnablePopups forwards to the wrapped engine when it supports interaction.
func (t *Throttled) EnablePopups(ctx context.Context, layerID string) error {
	iv, ok := t.inner.(Interactive)
	if !ok {
		return ErrNotInteractive
	}
	return iv.EnablePopups(ctx, layerID)
}

// EnableHoverCursor forwards to the wrapped engine when it supports
// interaction.
func (t *Throttled) EnableHoverCursor(ctx context.Context, layerID string) error {
	iv, ok := t.inner.(Interactive)
	if !ok {
		return ErrNotInteractive
	}
	return iv.EnableHoverCursor(ctx, layerID)
}
