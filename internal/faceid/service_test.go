package faceid

import (
	"context"
	"errors"
	"testing"

	"github.com/edulink/faceid/internal/embedding"
	"github.com/edulink/faceid/internal/extractor"
	"github.com/edulink/faceid/internal/store"
	"github.com/edulink/faceid/internal/store/mock"
)

// stubExtractor returns a fixed vector or error per call.
type stubExtractor struct {
	vec embedding.Vector
	err error
}

func (s *stubExtractor) Extract(ctx context.Context, imageData []byte) (embedding.Vector, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vec, nil
}

func TestService_EnrollStoresNormalized(t *testing.T) {
	st := mock.NewStore()
	svc := NewService(&stubExtractor{vec: embedding.Vector{3, 4}}, st, 0.5, 2, "buffalo_l")

	if err := svc.Enroll(context.Background(), "S001", "3 Amanah", []byte("img")); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	if len(st.SaveCalls) != 1 {
		t.Fatalf("expected 1 save, got %d", len(st.SaveCalls))
	}

	saved := st.SaveCalls[0]
	if saved.StudentID != "S001" || saved.Class != "3 Amanah" || saved.Model != "buffalo_l" {
		t.Errorf("unexpected enrollment saved: %+v", saved)
	}

	// 3-4-5 triangle normalizes to [0.6, 0.8].
	if saved.Embedding[0] != 0.6 || saved.Embedding[1] != 0.8 {
		t.Errorf("expected normalized embedding [0.6 0.8], got %v", saved.Embedding)
	}
}

func TestService_EnrollExtractorFailureLeavesStoreUntouched(t *testing.T) {
	st := mock.NewStore()
	st.AddEnrollment(store.Enrollment{StudentID: "S001", Embedding: embedding.Vector{1, 0}})

	svc := NewService(&stubExtractor{err: extractor.ErrNoFace}, st, 0.5, 2, "buffalo_l")

	err := svc.Enroll(context.Background(), "S001", "", []byte("img"))
	if !errors.Is(err, extractor.ErrNoFace) {
		t.Fatalf("expected ErrNoFace, got %v", err)
	}

	if len(st.SaveCalls) != 0 {
		t.Error("expected no save after extraction failure")
	}

	prior, err := st.Get(context.Background(), "S001")
	if err != nil {
		t.Fatalf("prior enrollment lost: %v", err)
	}
	if prior.Embedding[0] != 1 {
		t.Error("prior embedding modified after failed re-enrollment")
	}
}

func TestService_EnrollSaveFailurePropagates(t *testing.T) {
	st := mock.NewStore()
	st.SaveError = errors.New("disk full")

	svc := NewService(&stubExtractor{vec: embedding.Vector{1, 0}}, st, 0.5, 2, "buffalo_l")

	if err := svc.Enroll(context.Background(), "S001", "", []byte("img")); err == nil {
		t.Fatal("expected save error to propagate")
	}
}

func TestService_UnenrollMissing(t *testing.T) {
	st := mock.NewStore()
	svc := NewService(&stubExtractor{}, st, 0.5, 2, "buffalo_l")

	err := svc.Unenroll(context.Background(), "ghost")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_IdentifyMatches(t *testing.T) {
	st := mock.NewStore()
	st.AddEnrollment(store.Enrollment{StudentID: "S001", Embedding: embedding.Normalize(embedding.Vector{1, 0})})
	st.AddEnrollment(store.Enrollment{StudentID: "S002", Embedding: embedding.Normalize(embedding.Vector{0, 1})})

	svc := NewService(&stubExtractor{vec: embedding.Vector{0.98, 0.1}}, st, 0.5, 2, "buffalo_l")

	result, err := svc.Identify(context.Background(), []byte("img"), "")
	if err != nil {
		t.Fatalf("identify failed: %v", err)
	}

	if !result.Matched || result.StudentID != "S001" {
		t.Errorf("expected match on S001, got %+v", result)
	}
}

func TestService_IdentifyExtractorErrorsPropagate(t *testing.T) {
	st := mock.NewStore()

	for _, tc := range []struct {
		name string
		err  error
	}{
		{"no face", extractor.ErrNoFace},
		{"multiple faces", extractor.NewMultipleFacesError(2)},
		{"unavailable", extractor.ErrUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&stubExtractor{err: tc.err}, st, 0.5, 2, "buffalo_l")
			_, err := svc.Identify(context.Background(), []byte("img"), "")
			if !errors.Is(err, tc.err) {
				t.Errorf("expected %v to propagate, got %v", tc.err, err)
			}
		})
	}
}

func TestService_IdentifyEmptyStore(t *testing.T) {
	st := mock.NewStore()
	svc := NewService(&stubExtractor{vec: embedding.Vector{1, 0}}, st, 0.5, 2, "buffalo_l")

	result, err := svc.Identify(context.Background(), []byte("img"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Matched || result.Reason != ReasonEmptyCandidateSet {
		t.Errorf("expected empty candidate set outcome, got %+v", result)
	}
}

func TestService_IdentifyClassFilter(t *testing.T) {
	st := mock.NewStore()
	shared := embedding.Normalize(embedding.Vector{1, 0})
	st.AddEnrollment(store.Enrollment{StudentID: "S001", Class: "3 Amanah", Embedding: shared})
	st.AddEnrollment(store.Enrollment{StudentID: "S002", Class: "4 Bestari", Embedding: shared})

	svc := NewService(&stubExtractor{vec: embedding.Vector{1, 0}}, st, 0.5, 2, "buffalo_l")

	// Whole school: two identical faces, ambiguous.
	all, err := svc.Identify(context.Background(), []byte("img"), "")
	if err != nil {
		t.Fatalf("identify failed: %v", err)
	}
	if all.Reason != ReasonAmbiguous {
		t.Errorf("expected ambiguous across whole school, got %s", all.Reason)
	}

	// Filtered to one class: unambiguous.
	filtered, err := svc.Identify(context.Background(), []byte("img"), "3 amánah")
	if err != nil {
		t.Fatalf("identify failed: %v", err)
	}
	if !filtered.Matched || filtered.StudentID != "S001" {
		t.Errorf("expected S001 within class filter, got %+v", filtered)
	}
}

// Re-enrollment replaces the stored vector; a probe of the old face scores
// against the new vector only.
func TestService_ReEnrollmentReplaces(t *testing.T) {
	st := mock.NewStore()
	ext := &stubExtractor{vec: embedding.Vector{1, 0}}
	svc := NewService(ext, st, 0.9, 2, "buffalo_l")
	ctx := context.Background()

	if err := svc.Enroll(ctx, "S001", "", []byte("old")); err != nil {
		t.Fatalf("enroll failed: %v", err)
	}

	// Re-enroll with a very different face.
	ext.vec = embedding.Vector{0, 1}
	if err := svc.Enroll(ctx, "S001", "", []byte("new")); err != nil {
		t.Fatalf("re-enroll failed: %v", err)
	}

	// Probe with the old face: scored against the new vector, no match.
	ext.vec = embedding.Vector{1, 0}
	result, err := svc.Identify(ctx, []byte("probe"), "")
	if err != nil {
		t.Fatalf("identify failed: %v", err)
	}
	if result.Matched {
		t.Errorf("expected stale probe to miss after re-enrollment, got %+v", result)
	}
	if result.Reason != ReasonBelowThreshold {
		t.Errorf("expected ReasonBelowThreshold, got %s", result.Reason)
	}

	// Probe with the new face: matches.
	ext.vec = embedding.Vector{0, 1}
	result, err = svc.Identify(ctx, []byte("probe"), "")
	if err != nil {
		t.Fatalf("identify failed: %v", err)
	}
	if !result.Matched || result.StudentID != "S001" {
		t.Errorf("expected new face to match S001, got %+v", result)
	}
}
