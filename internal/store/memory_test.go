package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/edulink/faceid/internal/embedding"
)

func TestMemory_SaveAndGet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	err := s.Save(ctx, Enrollment{
		StudentID: "S001",
		Class:     "3 Amanah",
		Embedding: embedding.Vector{1, 0, 0},
		Model:     "buffalo_l",
		Dim:       3,
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	e, err := s.Get(ctx, "S001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if e.StudentID != "S001" || e.Class != "3 Amanah" {
		t.Errorf("unexpected enrollment: %+v", e)
	}

	if e.UpdatedAt.IsZero() || e.CreatedAt.IsZero() {
		t.Error("expected timestamps to be set on save")
	}
}

func TestMemory_GetMissing(t *testing.T) {
	s := NewMemory()

	_, err := s.Get(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_SaveReplaces(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	s.Save(ctx, Enrollment{StudentID: "S001", Embedding: embedding.Vector{1, 0}, Dim: 2})
	s.Save(ctx, Enrollment{StudentID: "S001", Embedding: embedding.Vector{0, 1}, Dim: 2})

	e, err := s.Get(ctx, "S001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if e.Embedding[0] != 0 || e.Embedding[1] != 1 {
		t.Errorf("expected replaced embedding [0 1], got %v", e.Embedding)
	}

	count, _ := s.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 enrollment after replace, got %d", count)
	}
}

func TestMemory_SaveKeepsCreatedAt(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	s.Save(ctx, Enrollment{StudentID: "S001", Embedding: embedding.Vector{1}})
	first, _ := s.Get(ctx, "S001")

	s.Save(ctx, Enrollment{StudentID: "S001", Embedding: embedding.Vector{2}})
	second, _ := s.Get(ctx, "S001")

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("expected CreatedAt preserved across re-enrollment")
	}

	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Error("expected UpdatedAt to advance on re-enrollment")
	}
}

func TestMemory_Delete(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	s.Save(ctx, Enrollment{StudentID: "S001", Embedding: embedding.Vector{1}})

	if err := s.Delete(ctx, "S001"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	has, _ := s.Has(ctx, "S001")
	if has {
		t.Error("expected enrollment gone after delete")
	}

	if err := s.Delete(ctx, "S001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemory_ListSorted(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	for _, id := range []string{"S003", "S001", "S002"} {
		s.Save(ctx, Enrollment{StudentID: id, Embedding: embedding.Vector{1}})
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(list) != 3 {
		t.Fatalf("expected 3 enrollments, got %d", len(list))
	}

	for i, want := range []string{"S001", "S002", "S003"} {
		if list[i].StudentID != want {
			t.Errorf("index %d: expected %s, got %s", i, want, list[i].StudentID)
		}
	}
}

func TestMemory_ListByClass(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	s.Save(ctx, Enrollment{StudentID: "S001", Class: "3 Amánah", Embedding: embedding.Vector{1}})
	s.Save(ctx, Enrollment{StudentID: "S002", Class: "3  amanah ", Embedding: embedding.Vector{1}})
	s.Save(ctx, Enrollment{StudentID: "S003", Class: "4 Bestari", Embedding: embedding.Vector{1}})

	list, err := s.ListByClass(ctx, "3 AMANAH")
	if err != nil {
		t.Fatalf("list by class failed: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("expected 2 enrollments in class, got %d", len(list))
	}
}

func TestMemory_ConcurrentSaveAndList(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Save(ctx, Enrollment{
					StudentID: "S001",
					Embedding: embedding.Vector{float32(j), float32(j)},
					Dim:       2,
				})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				e, err := s.Get(ctx, "S001")
				if errors.Is(err, ErrNotFound) {
					continue
				}
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				// Old-or-new, never a half-written mix.
				if e.Embedding[0] != e.Embedding[1] {
					t.Errorf("torn read: %v", e.Embedding)
					return
				}
			}
		}()
	}
	wg.Wait()
}
