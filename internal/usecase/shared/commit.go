package shared

import (
	"context"
	"sync"
)

type commitHooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func(context.Context)
}

// WithCommitHooks returns a context that collects AfterCommit callbacks and a
// function that runs them. Transactors call run only after a successful commit.
func WithCommitHooks(ctx context.Context) (context.Context, func(context.Context)) {
	h := &commitHooks{}
	run := func(ctx context.Context) {
		h.mu.Lock()
		fns := h.fns
		h.fns = nil
		h.mu.Unlock()
		for _, fn := range fns {
			fn(ctx)
		}
	}
	return context.WithValue(ctx, commitHooksKey{}, h), run
}

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(commitHooksKey{}).(*commitHooks)
	return ok
}

// AfterCommit defers fn until the transaction carried by ctx commits.
// Without a transaction fn runs immediately. On rollback fn never runs.
func AfterCommit(ctx context.Context, fn func(context.Context)) {
	if h, ok := ctx.Value(commitHooksKey{}).(*commitHooks); ok {
		h.mu.Lock()
		h.fns = append(h.fns, fn)
		h.mu.Unlock()
		return
	}
	fn(ctx)
}
