// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertNear fails the test if got differs from want by more than tol or is
// not finite.
func AssertNear(t testing.TB, what string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("%s = %v, want finite value near %v", what, got, want)
		return
	}
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.6f, want %.6f ± %g", what, got, want, tol)
	}
}

// Grid returns n evenly spaced values covering [0,1] inclusive. n < 2
// returns the single value 0.5.
func Grid(n int) []float64 {
	if n < 2 {
		return []float64{0.5}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

// UnitGrid returns the n×n lattice of Grid(n) as (x, y) pairs, row-major.
func UnitGrid(n int) [][2]float64 {
	g := Grid(n)
	out := make([][2]float64, 0, len(g)*len(g))
	for _, y := range g {
		for _, x := range g {
			out = append(out, [2]float64{x, y})
		}
	}
	return out
}
