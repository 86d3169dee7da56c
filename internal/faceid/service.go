package faceid

import (
	"context"
	"fmt"

	"github.com/edulink/faceid/internal/embedding"
	"github.com/edulink/faceid/internal/extractor"
	"github.com/edulink/faceid/internal/store"
)

// Service ties the extractor and the enrollment store together into the
// enroll/identify operations.
type Service struct {
	extractor extractor.Extractor
	store     store.EnrollmentWriter
	threshold float64
	dim       int
	model     string
}

// NewService creates the identification service. The store is injected so
// tests and backends are interchangeable.
func NewService(ext extractor.Extractor, st store.EnrollmentWriter, threshold float64, dim int, model string) *Service {
	return &Service{
		extractor: ext,
		store:     st,
		threshold: threshold,
		dim:       dim,
		model:     model,
	}
}

// Threshold returns the active similarity threshold.
func (s *Service) Threshold() float64 { return s.threshold }

// Dim returns the configured embedding dimension.
func (s *Service) Dim() int { return s.dim }

// Model returns the extractor model variant in use.
func (s *Service) Model() string { return s.model }

// Store exposes read access to the enrollment store for status endpoints.
func (s *Service) Store() store.EnrollmentReader { return s.store }

// Enroll extracts the face embedding from the image and binds it to the
// student, replacing any previous enrollment. On any failure the student's
// prior state is untouched: extraction happens fully before the single
// atomic Save.
func (s *Service) Enroll(ctx context.Context, studentID, class string, image []byte) error {
	vec, err := s.extractor.Extract(ctx, image)
	if err != nil {
		return fmt.Errorf("enrolling %s: %w", studentID, err)
	}

	err = s.store.Save(ctx, store.Enrollment{
		StudentID: studentID,
		Class:     class,
		Embedding: embedding.Normalize(vec),
		Model:     s.model,
		Dim:       s.dim,
	})
	if err != nil {
		return fmt.Errorf("enrolling %s: %w", studentID, err)
	}
	return nil
}

// Unenroll removes the student's enrollment.
func (s *Service) Unenroll(ctx context.Context, studentID string) error {
	if err := s.store.Delete(ctx, studentID); err != nil {
		return fmt.Errorf("unenrolling %s: %w", studentID, err)
	}
	return nil
}

// Identify extracts the probe embedding and scores it against the current
// enrollment snapshot. An empty classFilter means the whole school.
// Extractor failures are errors; non-matches come back as MatchResult
// outcomes with Matched=false.
func (s *Service) Identify(ctx context.Context, image []byte, classFilter string) (MatchResult, error) {
	probe, err := s.extractor.Extract(ctx, image)
	if err != nil {
		return MatchResult{}, fmt.Errorf("identify: %w", err)
	}

	var candidates []store.Enrollment
	if classFilter != "" {
		candidates, err = s.store.ListByClass(ctx, classFilter)
	} else {
		candidates, err = s.store.List(ctx)
	}
	if err != nil {
		return MatchResult{}, fmt.Errorf("identify: loading candidates: %w", err)
	}

	return BestMatch(probe, candidates, s.threshold)
}
