package overlay

import (
	"fmt"
	"strings"
)

// FitMode selects how a source image is reconciled with a viewport of a
// different aspect ratio.
type FitMode int

const (
	// FitFill stretches each axis independently; aspect ratio is not preserved.
	FitFill FitMode = iota
	// FitCenterCrop scales uniformly to cover the view and crops the overflow.
	FitCenterCrop
	// FitCenterInside scales uniformly to fit inside the view with letterboxing.
	FitCenterInside
)

// String returns the config/text form of the fit mode.
func (m FitMode) String() string {
	switch m {
	case FitFill:
		return "fill"
	case FitCenterCrop:
		return "center_crop"
	case FitCenterInside:
		return "center_inside"
	default:
		return fmt.Sprintf("FitMode(%d)", int(m))
	}
}

// ParseFitMode parses the text form of a fit mode. Matching is
// case-insensitive and accepts both "center_crop" and "center-crop".
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "fill", "":
		return FitFill, nil
	case "center_crop", "crop":
		return FitCenterCrop, nil
	case "center_inside", "inside":
		return FitCenterInside, nil
	default:
		return FitFill, fmt.Errorf("unknown fit mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m FitMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FitMode) UnmarshalText(text []byte) error {
	parsed, err := ParseFitMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// NormalizedPoint is a coordinate relative to the source image, nominally in
// [0,1]². Values outside that range are accepted and clamped at output.
type NormalizedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PixelPoint is a viewport coordinate in pixels. Points returned by the
// mapper are always finite and inside [0,ViewWidth]×[0,ViewHeight].
type PixelPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in normalized image space.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// UnitRect is the full normalized image.
var UnitRect = Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}

const containsEpsilon = 1e-9

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	if r.Empty() {
		return false
	}
	return x >= r.MinX-containsEpsilon && x <= r.MaxX+containsEpsilon &&
		y >= r.MinY-containsEpsilon && y <= r.MaxY+containsEpsilon
}

// TransformConfig describes the viewport, the sensor image and how the two
// relate. ImageWidth and ImageHeight are the sensor buffer dimensions before
// rotation is applied.
type TransformConfig struct {
	ViewWidth       int     `json:"view_width"`
	ViewHeight      int     `json:"view_height"`
	ImageWidth      int     `json:"image_width"`
	ImageHeight     int     `json:"image_height"`
	RotationDegrees int     `json:"rotation_degrees"`
	Mirrored        bool    `json:"mirrored"`
	FitMode         FitMode `json:"fit_mode"`
}

// Degenerate reports whether any dimension is non-positive.
func (c TransformConfig) Degenerate() bool {
	return c.ViewWidth <= 0 || c.ViewHeight <= 0 || c.ImageWidth <= 0 || c.ImageHeight <= 0
}

// String renders a compact description used in log lines.
func (c TransformConfig) String() string {
	return fmt.Sprintf("view=%dx%d image=%dx%d rot=%d mirrored=%t fit=%s",
		c.ViewWidth, c.ViewHeight, c.ImageWidth, c.ImageHeight,
		c.RotationDegrees, c.Mirrored, c.FitMode)
}

// Frame is one detector output: every tracked subject's landmarks captured at
// the same instant.
type Frame struct {
	TimestampNanos int64
	Subjects       [][]NormalizedPoint
}

// PixelFrame is a Frame mapped into viewport pixels. Subjects keep the input
// order and cardinality.
type PixelFrame struct {
	TimestampNanos int64
	Subjects       [][]PixelPoint
}

// PointCount returns the total number of landmarks across subjects.
func (f Frame) PointCount() int {
	n := 0
	for _, s := range f.Subjects {
		n += len(s)
	}
	return n
}
