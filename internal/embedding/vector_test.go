package embedding

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize_UnitLength(t *testing.T) {
	v := Vector{3, 4}

	out := Normalize(v)

	var sum float64
	for _, x := range out {
		sum += float64(x) * float64(x)
	}

	if math.Abs(math.Sqrt(sum)-1.0) > 1e-6 {
		t.Errorf("expected unit length after normalize, got %f", math.Sqrt(sum))
	}

	// Direction preserved: 3-4-5 triangle
	if math.Abs(float64(out[0])-0.6) > 1e-6 || math.Abs(float64(out[1])-0.8) > 1e-6 {
		t.Errorf("expected [0.6, 0.8], got %v", out)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	v := Vector{3, 4}

	Normalize(v)

	if v[0] != 3 || v[1] != 4 {
		t.Errorf("input vector mutated: %v", v)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := Vector{0, 0, 0}

	out := Normalize(v)

	for i, x := range out {
		if x != 0 {
			t.Errorf("expected zero vector unchanged, got %f at index %d", x, i)
		}
	}
}

func TestCosineSimilarity_SelfMatch(t *testing.T) {
	v := Vector{0.25, -0.5, 0.75, 0.1}

	sim, err := CosineSimilarity(v, v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(sim-1.0) > 1e-6 {
		t.Errorf("expected self similarity ~1.0, got %f", sim)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := Vector{1, 0}
	b := Vector{0, 1}

	sim, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(sim) > 1e-6 {
		t.Errorf("expected orthogonal similarity 0, got %f", sim)
	}
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{-1, -2, -3}

	sim, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(sim-(-1.0)) > 1e-6 {
		t.Errorf("expected opposite similarity -1, got %f", sim)
	}
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{10, 20, 30}

	sim, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(sim-1.0) > 1e-6 {
		t.Errorf("expected scaled vector similarity ~1.0, got %f", sim)
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{1, 2}

	_, err := CosineSimilarity(a, b)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCosineSimilarity_EmptyVectors(t *testing.T) {
	_, err := CosineSimilarity(Vector{}, Vector{})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for empty vectors, got %v", err)
	}
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	a := Vector{0, 0, 0}
	b := Vector{1, 2, 3}

	sim, err := CosineSimilarity(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sim != 0 {
		t.Errorf("expected zero similarity against zero vector, got %f", sim)
	}
}

func TestCosineSimilarity_ClampedToRange(t *testing.T) {
	// Many near-identical high-dim values accumulate float error toward >1.
	a := make(Vector, 512)
	for i := range a {
		a[i] = 0.044194173 // ~1/sqrt(512)
	}

	sim, err := CosineSimilarity(a, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sim > 1 || sim < -1 {
		t.Errorf("similarity out of [-1,1]: %f", sim)
	}
}
