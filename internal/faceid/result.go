// Package faceid is the identification engine: it turns a probe embedding and
// the enrolled population into a match decision.
package faceid

// Reason classifies the outcome of an identification attempt. Non-match
// reasons are legitimate business results, not errors.
type Reason string

const (
	ReasonMatched           Reason = "matched"
	ReasonEmptyCandidateSet Reason = "empty_candidate_set"
	ReasonBelowThreshold    Reason = "below_threshold"
	ReasonAmbiguous         Reason = "ambiguous"
)

// MatchResult is the outcome of scoring a probe against the candidate set.
// StudentID is only set when Matched is true. Similarity carries the best
// score observed even for non-matches, so operators can tune the threshold.
type MatchResult struct {
	Matched    bool
	StudentID  string
	Similarity float64
	Reason     Reason
	Message    string
}
