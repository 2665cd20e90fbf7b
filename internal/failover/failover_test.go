package failover

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type candidate string

func (c candidate) Name() string { return string(c) }

func TestRunReturnsFirstSuccess(t *testing.T) {
	var tried []string
	out, err := Run(context.Background(), []candidate{"a", "b", "c"}, func(_ context.Context, c candidate) (string, error) {
		tried = append(tried, c.Name())
		if c == "a" {
			return "", errors.New("boom")
		}
		return "reply from " + c.Name(), nil
	})

	require.NoError(t, err)
	assert.Equal(t, "reply from b", out)
	assert.Equal(t, []string{"a", "b"}, tried)
}

func TestRunTriesEachCandidateOnce(t *testing.T) {
	calls := map[string]int{}
	_, err := Run(context.Background(), []candidate{"a", "b"}, func(_ context.Context, c candidate) (int, error) {
		calls[c.Name()]++
		return 0, errors.New("down")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Contains(t, err.Error(), "a: down")
	assert.Contains(t, err.Error(), "b: down")
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, calls)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Run(ctx, []candidate{"a", "b"}, func(_ context.Context, c candidate) (int, error) {
		calls++
		cancel()
		return 0, errors.New("down")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRunWithoutCandidates(t *testing.T) {
	_, err := Run(context.Background(), []candidate(nil), func(context.Context, candidate) (int, error) {
		return 1, nil
	})
	assert.ErrorIs(t, err, ErrNoCandidates)
}
