// Package failover tries an ordered list of candidates until one succeeds.
package failover

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrExhausted is returned (joined with every attempt's error) when no candidate succeeded.
var ErrExhausted = errors.New("all candidates failed")

// ErrNoCandidates is returned when the candidate list is empty.
var ErrNoCandidates = errors.New("no candidates configured")

// Named is anything that can identify itself in logs.
type Named interface {
	Name() string
}

// Run calls fn with each candidate in order and returns the first successful
// result. Each candidate is tried at most once and there is no backoff between
// attempts. A cancelled context stops the walk before the next attempt.
func Run[C Named, T any](ctx context.Context, candidates []C, fn func(context.Context, C) (T, error)) (T, error) {
	var zero T
	if len(candidates) == 0 {
		return zero, ErrNoCandidates
	}

	errs := []error{ErrExhausted}
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return zero, errors.Join(append(errs, err)...)
		}

		log.Debug().Str("component", "failover").Str("candidate", c.Name()).Msg("attempting")
		out, err := fn(ctx, c)
		if err == nil {
			return out, nil
		}
		log.Warn().Err(err).Str("component", "failover").Str("candidate", c.Name()).Msg("candidate failed")
		errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
	}
	return zero, errors.Join(errs...)
}
