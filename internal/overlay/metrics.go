package overlay

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/banshee-data/pose-overlay/internal/timeutil"
)

// PerformanceSnapshot is a point-in-time copy of a Recorder's aggregates.
type PerformanceSnapshot struct {
	Calls          uint64           `json:"calls"`
	Points         uint64           `json:"points"`
	Samples        uint64           `json:"samples"`
	ClampedSamples uint64           `json:"clamped_samples"`
	AvgErrorPx     float64          `json:"avg_error_px"`
	MaxErrorPx     float64          `json:"max_error_px"`
	ConfigChanges  uint64           `json:"config_changes"`
	LastConfig     *TransformConfig `json:"last_config,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Recorder is an Observer that tracks call counts and reprojection error.
// It is purely diagnostic: install it with WithObserver only when the extra
// inverse mapping per sampled point is acceptable.
//
// All fields are updated atomically. Concurrent updates may lose an
// individual sample but never corrupt the aggregate: non-finite errors are
// dropped and counters only grow until Reset.
type Recorder struct {
	clock       timeutil.Clock
	sampleEvery uint64

	calls         atomic.Uint64
	points        atomic.Uint64
	samples       atomic.Uint64
	clamped       atomic.Uint64
	configChanges atomic.Uint64
	seq           atomic.Uint64
	errSumBits    atomic.Uint64
	errMaxBits    atomic.Uint64
	lastConfig    atomic.Pointer[TransformConfig]
	updatedNanos  atomic.Int64
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock sets the clock used for UpdatedAt. Defaults to RealClock.
func WithClock(c timeutil.Clock) RecorderOption {
	return func(r *Recorder) {
		r.clock = c
	}
}

// WithSampleInterval measures reprojection error for every nth point only.
// Values below 1 sample every point.
func WithSampleInterval(n int) RecorderOption {
	return func(r *Recorder) {
		if n < 1 {
			n = 1
		}
		r.sampleEvery = uint64(n)
	}
}

// NewRecorder creates an empty recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		clock:       timeutil.RealClock{},
		sampleEvery: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ConfigChanged implements Observer.
func (r *Recorder) ConfigChanged(t *EffectiveTransform) {
	cfg := t.Config()
	r.lastConfig.Store(&cfg)
	r.configChanges.Add(1)
	r.touch()
}

// PointsMapped implements Observer. in and out must have equal length.
func (r *Recorder) PointsMapped(t *EffectiveTransform, in []NormalizedPoint, out []PixelPoint) {
	r.calls.Add(1)
	r.points.Add(uint64(len(in)))
	n := min(len(in), len(out))
	for i := 0; i < n; i++ {
		if r.seq.Add(1)%r.sampleEvery != 0 {
			continue
		}
		if !t.IsVisible(in[i]) {
			r.clamped.Add(1)
			continue
		}
		if e, ok := t.reprojectionErrorOf(in[i], out[i]); ok {
			r.record(e)
		}
	}
	r.touch()
}

// Observe maps p forward and back with t and records the reprojection error.
// It returns the error and whether it was recorded.
func (r *Recorder) Observe(t *EffectiveTransform, p NormalizedPoint) (float64, bool) {
	r.calls.Add(1)
	r.points.Add(1)
	defer r.touch()
	e, ok := t.ReprojectionError(p)
	if !ok {
		r.clamped.Add(1)
		return 0, false
	}
	r.record(e)
	return e, true
}

func (r *Recorder) record(e float64) {
	if math.IsNaN(e) || math.IsInf(e, 0) || e < 0 {
		return
	}
	addFloat(&r.errSumBits, e)
	maxFloat(&r.errMaxBits, e)
	r.samples.Add(1)
}

func (r *Recorder) touch() {
	r.updatedNanos.Store(r.clock.Now().UnixNano())
}

// Snapshot returns the current aggregates.
func (r *Recorder) Snapshot() PerformanceSnapshot {
	s := PerformanceSnapshot{
		Calls:          r.calls.Load(),
		Points:         r.points.Load(),
		Samples:        r.samples.Load(),
		ClampedSamples: r.clamped.Load(),
		MaxErrorPx:     math.Float64frombits(r.errMaxBits.Load()),
		ConfigChanges:  r.configChanges.Load(),
	}
	if s.Samples > 0 {
		s.AvgErrorPx = math.Float64frombits(r.errSumBits.Load()) / float64(s.Samples)
	}
	if cfg := r.lastConfig.Load(); cfg != nil {
		c := *cfg
		s.LastConfig = &c
	}
	if ns := r.updatedNanos.Load(); ns != 0 {
		s.UpdatedAt = time.Unix(0, ns)
	}
	return s
}

// Reset zeroes all state.
func (r *Recorder) Reset() {
	r.calls.Store(0)
	r.points.Store(0)
	r.samples.Store(0)
	r.clamped.Store(0)
	r.configChanges.Store(0)
	r.seq.Store(0)
	r.errSumBits.Store(0)
	r.errMaxBits.Store(0)
	r.lastConfig.Store(nil)
	r.updatedNanos.Store(0)
}

func addFloat(bits *atomic.Uint64, delta float64) {
	for {
		old := bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if bits.CompareAndSwap(old, next) {
			return
		}
	}
}

func maxFloat(bits *atomic.Uint64, v float64) {
	for {
		old := bits.Load()
		if math.Float64frombits(old) >= v {
			return
		}
		if bits.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}
