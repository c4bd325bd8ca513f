package overlay

import (
	"sync"
	"sync/atomic"

	"github.com/banshee-data/pose-overlay/internal/monitoring"
)

var logf = monitoring.Tagged("Overlay")

// Observer receives notifications from an Engine. Implementations must be
// safe for concurrent use; the engine calls them from whichever goroutine
// performs the mapping.
type Observer interface {
	// ConfigChanged is called after a new transform has been published.
	ConfigChanged(t *EffectiveTransform)
	// PointsMapped is called after a mapping call with the transform used,
	// the inputs and the corresponding outputs.
	PointsMapped(t *EffectiveTransform, in []NormalizedPoint, out []PixelPoint)
}

// Engine publishes the current EffectiveTransform to any number of readers.
// Configuration changes are serialized and swap in a freshly derived
// transform; mapping calls load the pointer once, so a single call never
// observes scale and offset from two different configurations.
type Engine struct {
	mu       sync.Mutex // serializes writers
	current  atomic.Pointer[EffectiveTransform]
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver installs an observer, typically a *Recorder. Engines have no
// observer by default.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// NewEngine creates an engine configured with cfg.
func NewEngine(cfg TransformConfig, opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	e.publish(nil, cfg)
	return e
}

// Configure replaces the whole configuration and returns the transform in
// effect afterwards. An unchanged configuration keeps the cached transform.
func (e *Engine) Configure(cfg TransformConfig) *EffectiveTransform {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.publish(e.current.Load(), cfg)
}

// Update applies fn to a copy of the current configuration and publishes the
// result.
func (e *Engine) Update(fn func(cfg *TransformConfig)) *EffectiveTransform {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.current.Load()
	cfg := prev.Config()
	fn(&cfg)
	return e.publish(prev, cfg)
}

// SetViewSize handles a viewport layout or resize event.
func (e *Engine) SetViewSize(width, height int) *EffectiveTransform {
	return e.Update(func(cfg *TransformConfig) {
		cfg.ViewWidth, cfg.ViewHeight = width, height
	})
}

// SetImageSize handles a change of the sensor buffer dimensions.
func (e *Engine) SetImageSize(width, height int) *EffectiveTransform {
	return e.Update(func(cfg *TransformConfig) {
		cfg.ImageWidth, cfg.ImageHeight = width, height
	})
}

// SetOrientation handles a device rotation or a front/back camera switch.
func (e *Engine) SetOrientation(rotationDegrees int, mirrored bool) *EffectiveTransform {
	return e.Update(func(cfg *TransformConfig) {
		cfg.RotationDegrees, cfg.Mirrored = rotationDegrees, mirrored
	})
}

// SetFitMode handles a fit-mode preference change.
func (e *Engine) SetFitMode(mode FitMode) *EffectiveTransform {
	return e.Update(func(cfg *TransformConfig) {
		cfg.FitMode = mode
	})
}

// publish derives and stores the transform for cfg. Callers hold e.mu,
// except NewEngine which runs before the engine is shared.
func (e *Engine) publish(prev *EffectiveTransform, cfg TransformConfig) *EffectiveTransform {
	if prev != nil && prev.config == cfg {
		return prev
	}
	next := NewEffectiveTransform(cfg)
	e.current.Store(next)

	switch {
	case next.Degenerate() && (prev == nil || !prev.Degenerate()):
		logf("degenerate transform config (%s); output is clamped pass-through", cfg)
	case !next.Degenerate() && prev != nil && prev.Degenerate():
		logf("transform configured (%s)", cfg)
	}
	if !next.Canonical() && (prev == nil || prev.Rotation() != next.Rotation()) {
		logf("non-canonical rotation %d°, using general rotation matrix", next.Rotation())
	}

	if e.observer != nil {
		e.observer.ConfigChanged(next)
	}
	return next
}

// Transform returns the transform currently in effect. The value is
// immutable; hold on to it to map several calls with one configuration.
func (e *Engine) Transform() *EffectiveTransform {
	return e.current.Load()
}

// Config returns the configuration currently in effect.
func (e *Engine) Config() TransformConfig {
	return e.current.Load().Config()
}

// ToPixel maps one point with the current transform.
func (e *Engine) ToPixel(p NormalizedPoint) PixelPoint {
	t := e.current.Load()
	out := t.ToPixel(p)
	if e.observer != nil {
		e.observer.PointsMapped(t, []NormalizedPoint{p}, []PixelPoint{out})
	}
	return out
}

// ToNormalized inverts one pixel with the current transform.
func (e *Engine) ToNormalized(p PixelPoint) NormalizedPoint {
	return e.current.Load().ToNormalized(p)
}

// ToPixelBatch maps points with a single transform snapshot.
func (e *Engine) ToPixelBatch(points []NormalizedPoint) []PixelPoint {
	t := e.current.Load()
	out := t.ToPixelBatch(points)
	if e.observer != nil {
		e.observer.PointsMapped(t, points, out)
	}
	return out
}

// AppendPixels maps points with a single transform snapshot and appends the
// results to dst.
func (e *Engine) AppendPixels(dst []PixelPoint, points []NormalizedPoint) []PixelPoint {
	t := e.current.Load()
	start := len(dst)
	dst = t.AppendPixels(dst, points)
	if e.observer != nil {
		e.observer.PointsMapped(t, points, dst[start:])
	}
	return dst
}

// ToPixelFrame maps every subject in f with a single transform snapshot.
func (e *Engine) ToPixelFrame(f Frame) PixelFrame {
	t := e.current.Load()
	out := t.ToPixelFrame(f)
	if e.observer != nil {
		for i, subject := range f.Subjects {
			e.observer.PointsMapped(t, subject, out.Subjects[i])
		}
	}
	return out
}

// VisibleRegion returns the visible region of the current transform.
func (e *Engine) VisibleRegion() Rect {
	return e.current.Load().VisibleRegion()
}

// IsVisible reports whether p is visible under the current transform.
func (e *Engine) IsVisible(p NormalizedPoint) bool {
	return e.current.Load().IsVisible(p)
}
