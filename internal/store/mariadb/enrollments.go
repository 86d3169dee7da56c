package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edulink/faceid/internal/embedding"
	"github.com/edulink/faceid/internal/store"
)

// EnrollmentRepository reads and writes enrollments through the SIS students
// table. The schema predates this service: the embedding lives in a TEXT
// column (face_embedding) holding a JSON array, NULL when not enrolled.
type EnrollmentRepository struct {
	pool  *Pool
	codec embedding.Codec
	model string
}

// NewEnrollmentRepository creates a repository over the students table.
func NewEnrollmentRepository(pool *Pool, dim int, model string) *EnrollmentRepository {
	return &EnrollmentRepository{
		pool:  pool,
		codec: embedding.Codec{Dim: dim},
		model: model,
	}
}

const studentColumns = "student_id, class_name, face_embedding, face_updated_at"

type studentRow struct {
	studentID string
	className sql.NullString
	faceText  sql.NullString
	updatedAt sql.NullTime
}

func (r *EnrollmentRepository) rowToEnrollment(row studentRow) (*store.Enrollment, error) {
	vec, err := r.codec.Decode(row.faceText.String)
	if err != nil {
		return nil, fmt.Errorf("enrollment %s: %w", row.studentID, err)
	}

	e := &store.Enrollment{
		StudentID: row.studentID,
		Class:     row.className.String,
		Embedding: vec,
		Model:     r.model,
		Dim:       r.codec.Dim,
	}
	if row.updatedAt.Valid {
		e.UpdatedAt = row.updatedAt.Time
		e.CreatedAt = row.updatedAt.Time
	}
	return e, nil
}

// Get retrieves an enrollment by student id. A student row without a
// face_embedding counts as not enrolled.
func (r *EnrollmentRepository) Get(ctx context.Context, studentID string) (*store.Enrollment, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE student_id = ?"

	var row studentRow
	err := r.pool.db.QueryRowContext(ctx, query, studentID).
		Scan(&row.studentID, &row.className, &row.faceText, &row.updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query student: %w", err)
	}

	if !row.faceText.Valid || row.faceText.String == "" {
		return nil, store.ErrNotFound
	}
	return r.rowToEnrollment(row)
}

// Has checks if an enrollment exists for the given student id
func (r *EnrollmentRepository) Has(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.pool.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM students WHERE student_id = ? AND face_embedding IS NOT NULL)",
		studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment exists: %w", err)
	}
	return exists, nil
}

// Count returns the number of students with a stored embedding
func (r *EnrollmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM students WHERE face_embedding IS NOT NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

// List returns all enrollments
func (r *EnrollmentRepository) List(ctx context.Context) ([]store.Enrollment, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE face_embedding IS NOT NULL ORDER BY student_id"

	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	return r.scanEnrollments(rows)
}

// ListByClass returns enrollments for a class. The SIS stores class names as
// teachers typed them, so the normalized comparison happens here rather than
// in SQL.
func (r *EnrollmentRepository) ListByClass(ctx context.Context, class string) ([]store.Enrollment, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	want := store.NormalizeClass(class)
	var out []store.Enrollment
	for _, e := range all {
		if store.NormalizeClass(e.Class) == want {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *EnrollmentRepository) scanEnrollments(rows *sql.Rows) ([]store.Enrollment, error) {
	var out []store.Enrollment
	for rows.Next() {
		var row studentRow
		if err := rows.Scan(&row.studentID, &row.className, &row.faceText, &row.updatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		if !row.faceText.Valid || row.faceText.String == "" {
			continue
		}
		e, err := r.rowToEnrollment(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return out, nil
}

// Save writes the embedding into the student's row. The single UPDATE makes
// re-enrollment an atomic replace; the student must already exist in the SIS.
func (r *EnrollmentRepository) Save(ctx context.Context, e store.Enrollment) error {
	text, err := r.codec.Encode(e.Embedding)
	if err != nil {
		return fmt.Errorf("save enrollment %s: %w", e.StudentID, err)
	}

	result, err := r.pool.db.ExecContext(ctx,
		"UPDATE students SET face_embedding = ?, face_updated_at = ? WHERE student_id = ?",
		text, time.Now().UTC(), e.StudentID)
	if err != nil {
		return fmt.Errorf("save enrollment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save enrollment: %w", err)
	}
	if affected == 0 {
		// Re-check: MariaDB reports 0 affected rows when the new value equals
		// the old one, which is not an error.
		var exists bool
		if err := r.pool.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM students WHERE student_id = ?)", e.StudentID).Scan(&exists); err != nil {
			return fmt.Errorf("save enrollment: %w", err)
		}
		if !exists {
			return fmt.Errorf("save enrollment %s: student not in SIS: %w", e.StudentID, store.ErrNotFound)
		}
	}
	return nil
}

// Delete clears the embedding for a student
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID string) error {
	result, err := r.pool.db.ExecContext(ctx,
		"UPDATE students SET face_embedding = NULL, face_updated_at = NULL WHERE student_id = ? AND face_embedding IS NOT NULL",
		studentID)
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
