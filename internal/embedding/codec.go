package embedding

import (
	"encoding/json"
	"fmt"
)

// Codec converts embedding vectors to and from their persisted text form:
// a JSON array of floats. This is the format the legacy SIS database already
// holds in its face_embedding column, so both backends share it.
type Codec struct {
	Dim int // expected vector length; Decode rejects anything else
}

// DecodeError reports a persisted embedding that could not be turned back
// into a usable vector.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode embedding: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode embedding: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes a vector for storage. The vector must match the codec
// dimension; a wrong-length vector here means an upstream bug, not bad data.
func (c Codec) Encode(v Vector) (string, error) {
	if len(v) != c.Dim {
		return "", fmt.Errorf("encode embedding: got %d values, want %d: %w", len(v), c.Dim, ErrDimensionMismatch)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode embedding: %w", err)
	}
	return string(data), nil
}

// Decode parses a persisted embedding. Malformed JSON, non-numeric tokens and
// wrong-length arrays all fail with a *DecodeError; a stored vector is never
// silently truncated or padded.
func (c Codec) Decode(text string) (Vector, error) {
	var v Vector
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &DecodeError{Reason: "not a JSON array of numbers", Err: err}
	}

	if len(v) != c.Dim {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("got %d values, want %d", len(v), c.Dim),
			Err:    ErrDimensionMismatch,
		}
	}
	return v, nil
}
