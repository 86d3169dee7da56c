// Package mock provides a mock enrollment store for testing.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/edulink/faceid/internal/store"
)

// Store is a mock implementation of store.EnrollmentWriter with per-method
// error injection and call tracking.
type Store struct {
	mu          sync.RWMutex
	enrollments map[string]*store.Enrollment

	// Track calls
	SaveCalls   []store.Enrollment
	DeleteCalls []string

	// Error injection
	GetError         error
	HasError         error
	CountError       error
	ListError        error
	ListByClassError error
	SaveError        error
	DeleteError      error
}

var _ store.EnrollmentWriter = (*Store)(nil)

// NewStore creates an empty mock store.
func NewStore() *Store {
	return &Store{
		enrollments: make(map[string]*store.Enrollment),
	}
}

// AddEnrollment seeds the mock with an enrollment.
func (m *Store) AddEnrollment(e store.Enrollment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments[e.StudentID] = &e
}

func (m *Store) Get(ctx context.Context, studentID string) (*store.Enrollment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.enrollments[studentID]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (m *Store) Has(ctx context.Context, studentID string) (bool, error) {
	if m.HasError != nil {
		return false, m.HasError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.enrollments[studentID]
	return ok, nil
}

func (m *Store) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.enrollments), nil
}

func (m *Store) List(ctx context.Context) ([]store.Enrollment, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.Enrollment, 0, len(m.enrollments))
	for _, e := range m.enrollments {
		out = append(out, *e)
	}
	return out, nil
}

func (m *Store) ListByClass(ctx context.Context, class string) ([]store.Enrollment, error) {
	if m.ListByClassError != nil {
		return nil, m.ListByClassError
	}
	want := store.NormalizeClass(class)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.Enrollment
	for _, e := range m.enrollments {
		if store.NormalizeClass(e.Class) == want {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *Store) Save(ctx context.Context, e store.Enrollment) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, e)
	stored := e
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}
	m.enrollments[e.StudentID] = &stored
	return nil
}

func (m *Store) Delete(ctx context.Context, studentID string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, studentID)
	if _, ok := m.enrollments[studentID]; !ok {
		return store.ErrNotFound
	}
	delete(m.enrollments, studentID)
	return nil
}
