package insight

import (
	"context"
	"sync"
)

// Tracker keeps at most one request of a kind in flight. Starting a new
// request cancels the previous one, and a result that arrives after it has
// been superseded is dropped.
type Tracker[T any] struct {
	cancel context.CancelFunc
	latest T
	seq    uint64
	mu     sync.Mutex
	have   bool
}

func (t *Tracker[T]) begin(ctx context.Context) (context.Context, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.seq++
	return ctx, t.seq
}

func (t *Tracker[T]) finish(seq uint64, result T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seq != t.seq {
		return false
	}
	t.latest = result
	t.have = true
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	return true
}

// Do runs fn as the newest request. current is false when another request
// started before fn returned; the caller should then ignore result.
func (t *Tracker[T]) Do(ctx context.Context, fn func(context.Context) T) (result T, current bool) {
	runCtx, seq := t.begin(ctx)
	result = fn(runCtx)
	return result, t.finish(seq, result)
}

// Go runs fn in the background and calls deliver with its result unless
// the request has been superseded by then.
func (t *Tracker[T]) Go(ctx context.Context, fn func(context.Context) T, deliver func(T)) {
	runCtx, seq := t.begin(ctx)
	go func() {
		result := fn(runCtx)
		if t.finish(seq, result) && deliver != nil {
			deliver(result)
		}
	}()
}

// Latest returns the last result accepted from a current request.
func (t *Tracker[T]) Latest() (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest, t.have
}

// Cancel aborts the in-flight request, if any, so its result is dropped.
func (t *Tracker[T]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.seq++
}
