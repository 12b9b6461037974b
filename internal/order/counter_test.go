package order

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newSequencer(t *testing.T) *Sequencer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Sequencer{R: client, Prefix: "SF-", Padding: 6}
}

func TestSequencerIssuesDistinctIncreasingNumbers(t *testing.T) {
	seq := newSequencer(t)
	ctx := context.Background()

	first, err := seq.Next(ctx)
	require.NoError(t, err)
	second, err := seq.Next(ctx)
	require.NoError(t, err)

	require.Equal(t, "SF-000001", first)
	require.Equal(t, "SF-000002", second)
	require.Less(t, first, second)
}

func TestSequencerFormatPadding(t *testing.T) {
	seq := &Sequencer{Prefix: "SF-", Padding: 6}
	require.Equal(t, "SF-000042", seq.Format(42))
	require.Equal(t, "SF-1234567", seq.Format(1234567))
}
