package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/edulink/faceid/internal/embedding"
	"github.com/edulink/faceid/internal/store"
)

// EnrollmentRepository provides PostgreSQL-backed enrollment storage.
type EnrollmentRepository struct {
	pool *Pool
	dim  int
}

// NewEnrollmentRepository creates a repository bound to the configured
// embedding dimension. Rows stored with a different dim are rejected at read
// time, never silently truncated.
func NewEnrollmentRepository(pool *Pool, dim int) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool, dim: dim}
}

const enrollmentColumns = "student_id, class, embedding, model, dim, created_at, updated_at"

func (r *EnrollmentRepository) scanEnrollment(row interface{ Scan(...any) error }) (*store.Enrollment, error) {
	var e store.Enrollment
	var vec pgvector.Vector

	err := row.Scan(&e.StudentID, &e.Class, &vec, &e.Model, &e.Dim, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Embedding = vec.Slice()
	if e.Dim != r.dim || len(e.Embedding) != r.dim {
		return nil, fmt.Errorf("enrollment %s: stored dim %d, expected %d: %w",
			e.StudentID, e.Dim, r.dim, embedding.ErrDimensionMismatch)
	}
	return &e, nil
}

// Get retrieves an enrollment by student id
func (r *EnrollmentRepository) Get(ctx context.Context, studentID string) (*store.Enrollment, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollments WHERE student_id = $1"

	e, err := r.scanEnrollment(r.pool.QueryRow(ctx, query, studentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query enrollment: %w", err)
	}
	return e, nil
}

// Has checks if an enrollment exists for the given student id
func (r *EnrollmentRepository) Has(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1)", studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment exists: %w", err)
	}
	return exists, nil
}

// Count returns the total number of enrollments stored
func (r *EnrollmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM enrollments").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

// List returns all enrollments
func (r *EnrollmentRepository) List(ctx context.Context) ([]store.Enrollment, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollments ORDER BY student_id"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	return r.scanEnrollments(rows)
}

// ListByClass returns enrollments for a class, matched on the normalized label
func (r *EnrollmentRepository) ListByClass(ctx context.Context, class string) ([]store.Enrollment, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollments WHERE class_normalized = $1 ORDER BY student_id"

	rows, err := r.pool.Query(ctx, query, store.NormalizeClass(class))
	if err != nil {
		return nil, fmt.Errorf("query enrollments by class: %w", err)
	}
	defer rows.Close()

	return r.scanEnrollments(rows)
}

func (r *EnrollmentRepository) scanEnrollments(rows *sql.Rows) ([]store.Enrollment, error) {
	var out []store.Enrollment
	for rows.Next() {
		e, err := r.scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return out, nil
}

// Save stores an enrollment (upsert). The ON CONFLICT clause makes
// re-enrollment a single atomic row replace.
func (r *EnrollmentRepository) Save(ctx context.Context, e store.Enrollment) error {
	if len(e.Embedding) != r.dim {
		return fmt.Errorf("save enrollment %s: got %d-dim embedding, want %d: %w",
			e.StudentID, len(e.Embedding), r.dim, embedding.ErrDimensionMismatch)
	}

	query := `
		INSERT INTO enrollments (student_id, class, class_normalized, embedding, model, dim)
		VALUES ($1, $2, $3, $4::vector, $5, $6)
		ON CONFLICT (student_id) DO UPDATE SET
			class = EXCLUDED.class,
			class_normalized = EXCLUDED.class_normalized,
			embedding = EXCLUDED.embedding,
			model = EXCLUDED.model,
			dim = EXCLUDED.dim,
			updated_at = NOW()
	`

	vec := pgvector.NewVector(e.Embedding)
	_, err := r.pool.Exec(ctx, query, e.StudentID, e.Class, store.NormalizeClass(e.Class), vec, e.Model, e.Dim)
	if err != nil {
		return fmt.Errorf("save enrollment: %w", err)
	}
	return nil
}

// Delete removes the enrollment for a student
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID string) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM enrollments WHERE student_id = $1", studentID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Verify interface compliance
var _ store.EnrollmentReader = (*EnrollmentRepository)(nil)
var _ store.EnrollmentWriter = (*EnrollmentRepository)(nil)
