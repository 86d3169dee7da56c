package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is a mutex-guarded in-memory enrollment store. It is the default
// backend when no database DSN is configured and the test double for handlers.
type Memory struct {
	mu sync.RWMutex
	// Values are immutable once stored: Save inserts a fresh pointer, so a
	// reader holding an old snapshot sees the old record or the new one,
	// never a half-written mix.
	enrollments map[string]*Enrollment
}

var _ EnrollmentWriter = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		enrollments: make(map[string]*Enrollment),
	}
}

func (m *Memory) Get(ctx context.Context, studentID string) (*Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.enrollments[studentID]
	if !ok {
		return nil, ErrNotFound
	}

	out := *e
	return &out, nil
}

func (m *Memory) Has(ctx context.Context, studentID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.enrollments[studentID]
	return ok, nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.enrollments), nil
}

func (m *Memory) List(ctx context.Context) ([]Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Enrollment, 0, len(m.enrollments))
	for _, e := range m.enrollments {
		out = append(out, *e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (m *Memory) ListByClass(ctx context.Context, class string) ([]Enrollment, error) {
	want := NormalizeClass(class)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Enrollment
	for _, e := range m.enrollments {
		if NormalizeClass(e.Class) == want {
			out = append(out, *e)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (m *Memory) Save(ctx context.Context, e Enrollment) error {
	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := e
	if prev, ok := m.enrollments[e.StudentID]; ok {
		stored.CreatedAt = prev.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	m.enrollments[e.StudentID] = &stored
	return nil
}

func (m *Memory) Delete(ctx context.Context, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.enrollments[studentID]; !ok {
		return ErrNotFound
	}

	delete(m.enrollments, studentID)
	return nil
}
