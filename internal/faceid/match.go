package faceid

import (
	"fmt"
	"math"

	"github.com/edulink/faceid/internal/embedding"
	"github.com/edulink/faceid/internal/store"
)

// Epsilon is the similarity margin within which two candidates are
// considered indistinguishable. Two enrollees this close to the best score
// make the identification ambiguous and it is rejected rather than guessed.
const Epsilon = 1e-6

// BestMatch scores the probe against every candidate and applies the decision
// policy: ambiguity rejection first, then the threshold. A dimension mismatch
// between the probe and any stored vector is an error, never a silent skip.
func BestMatch(probe embedding.Vector, candidates []store.Enrollment, threshold float64) (MatchResult, error) {
	if len(candidates) == 0 {
		return MatchResult{
			Matched: false,
			Reason:  ReasonEmptyCandidateSet,
			Message: "no students enrolled",
		}, nil
	}

	probe = embedding.Normalize(probe)

	best := math.Inf(-1)
	bestID := ""
	scores := make([]float64, len(candidates))

	for i, c := range candidates {
		sim, err := embedding.CosineSimilarity(probe, c.Embedding)
		if err != nil {
			return MatchResult{}, fmt.Errorf("scoring candidate %s: %w", c.StudentID, err)
		}
		scores[i] = sim
		if sim > best {
			best = sim
			bestID = c.StudentID
		}
	}

	within := 0
	for _, sim := range scores {
		if best-sim <= Epsilon {
			within++
		}
	}

	if within > 1 {
		return MatchResult{
			Matched:    false,
			Similarity: best,
			Reason:     ReasonAmbiguous,
			Message:    fmt.Sprintf("%d students are equally similar, cannot identify reliably", within),
		}, nil
	}

	if best < threshold {
		return MatchResult{
			Matched:    false,
			Similarity: best,
			Reason:     ReasonBelowThreshold,
			Message:    fmt.Sprintf("best similarity %.4f below threshold %.4f", best, threshold),
		}, nil
	}

	return MatchResult{
		Matched:    true,
		StudentID:  bestID,
		Similarity: best,
		Reason:     ReasonMatched,
	}, nil
}
