package extractor

import (
	"context"
	"fmt"

	"github.com/edulink/faceid/internal/embedding"
)

// Pool bounds the number of concurrent inference requests in flight against
// the sidecar. The detector holds model weights in GPU/CPU memory and falls
// over under unbounded fan-out from busy classrooms.
type Pool struct {
	inner Extractor
	slots chan struct{}
}

var _ Extractor = (*Pool)(nil)

// NewPool wraps an extractor with a fixed number of worker slots.
func NewPool(inner Extractor, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		inner: inner,
		slots: make(chan struct{}, workers),
	}
}

// Extract blocks until a slot is free, then delegates. Cancellation while
// waiting returns the context error without touching the sidecar.
func (p *Pool) Extract(ctx context.Context, imageData []byte) (embedding.Vector, error) {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for extractor slot: %w", ctx.Err())
	}
	defer func() { <-p.slots }()

	return p.inner.Extract(ctx, imageData)
}
