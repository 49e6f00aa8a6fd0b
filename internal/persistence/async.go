package persistence

import (
	"context"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/logger"
	"github.com/hammamikhairi/pantrycost/internal/store"
)

// LoadResult is the outcome of a background load.
type LoadResult struct {
	State *domain.State
	Found bool
	Err   error
}

// LoadAsync loads on a background goroutine. The channel receives exactly
// one result and is then closed.
func LoadAsync(ctx context.Context, repo domain.StateRepository) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		st, found, err := repo.Load(ctx)
		out <- LoadResult{State: st, Found: found, Err: err}
	}()
	return out
}

// SaveAsync saves a state on a background goroutine. The caller passes a
// snapshot it no longer mutates. The channel receives exactly one error
// (nil on success) and is then closed.
func SaveAsync(ctx context.Context, repo domain.StateRepository, st *domain.State) <-chan error {
	out := make(chan error, 1)
	go func() {
		defer close(out)
		out <- repo.Save(ctx, st)
	}()
	return out
}

// Restore loads the saved document and swaps it into the store. When
// nothing was saved, or the load fails, the store keeps what it has and
// Restore reports false. Failures are logged, never fatal.
func Restore(ctx context.Context, repo domain.StateRepository, s *store.Store, log *logger.Logger) bool {
	res := <-LoadAsync(ctx, repo)
	switch {
	case res.Err != nil:
		log.Error("restoring saved state: %v", res.Err)
		return false
	case !res.Found:
		log.Info("no saved state, starting fresh")
		return false
	}

	if err := s.Replace(ctx, res.State); err != nil {
		log.Error("restoring saved state: %v", err)
		return false
	}
	return true
}
