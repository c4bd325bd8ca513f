// Package overlay maps normalized landmark coordinates produced by a pose
// detector onto viewport pixels, and back.
//
// Responsibilities: rotation normalization, aspect-fit resolution, mirroring,
// single-point and batch mapping, visibility queries and optional
// reprojection-error metrics.
// Key types: TransformConfig, EffectiveTransform, Engine, Recorder.
//
// The package does no IO and never returns errors. Degenerate input (non-finite
// coordinates, non-positive dimensions, non-canonical angles) is handled by
// deterministic fallbacks so a frame can always be rendered.
package overlay
