// Package store defines the enrollment repository: one face embedding per
// student, with pluggable backends (in-memory, PostgreSQL, legacy MariaDB).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/edulink/faceid/internal/embedding"
)

// ErrNotFound is returned when no enrollment exists for a student.
var ErrNotFound = errors.New("enrollment not found")

// Enrollment binds a student to their face embedding. At most one exists per
// student; re-enrollment replaces the whole record.
type Enrollment struct {
	StudentID string
	Class     string // class/homeroom label, used for candidate filtering
	Embedding embedding.Vector
	Model     string // extractor model variant that produced the vector
	Dim       int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EnrollmentReader provides read-only access to enrollments
type EnrollmentReader interface {
	// Get retrieves an enrollment by student id, ErrNotFound if absent
	Get(ctx context.Context, studentID string) (*Enrollment, error)
	// Has checks if an enrollment exists for the given student id
	Has(ctx context.Context, studentID string) (bool, error)
	// Count returns the total number of enrollments stored
	Count(ctx context.Context) (int, error)
	// List returns all enrollments
	List(ctx context.Context) ([]Enrollment, error)
	// ListByClass returns enrollments whose class matches the given label.
	// Comparison is case- and diacritic-insensitive ("3 Amánah" matches "3 amanah").
	ListByClass(ctx context.Context, class string) ([]Enrollment, error)
}

// EnrollmentWriter provides write access to enrollments
type EnrollmentWriter interface {
	EnrollmentReader

	// Save stores an enrollment, replacing any existing record for the same
	// student as a single atomic operation. No history is kept.
	Save(ctx context.Context, e Enrollment) error

	// Delete removes the enrollment for a student, ErrNotFound if absent
	Delete(ctx context.Context, studentID string) error
}
