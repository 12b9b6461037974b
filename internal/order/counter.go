package order

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultCounterKey is the Redis key backing the order number sequence.
const DefaultCounterKey = "orders:counter"

// Sequencer issues monotonically increasing order numbers via Redis INCR.
// The counter is only advanced once an order has passed every validation
// gate, so failed attempts leave no gaps.
type Sequencer struct {
	R       *redis.Client
	Key     string
	Prefix  string
	Padding int
}

// Next reserves the next sequence value and formats it as an order number.
func (s *Sequencer) Next(ctx context.Context) (string, error) {
	key := s.Key
	if key == "" {
		key = DefaultCounterKey
	}
	n, err := s.R.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("order counter: %w", err)
	}
	return s.Format(n), nil
}

// Format renders a raw sequence value with the configured prefix and
// zero padding.
func (s *Sequencer) Format(n int64) string {
	padding := s.Padding
	if padding <= 0 {
		padding = 6
	}
	return fmt.Sprintf("%s%0*d", s.Prefix, padding, n)
}
