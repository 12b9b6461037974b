package promo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRulesKey is the well-known key holding the promo rule collection.
const DefaultRulesKey = "promo:rules"

// Store reads and replaces the promo rule collection kept as a single JSON
// document in Redis. Reads normalize on the way out so the engine only ever
// sees well-typed rules.
type Store struct {
	R   *redis.Client
	Key string
}

func (s *Store) key() string {
	if s.Key == "" {
		return DefaultRulesKey
	}
	return s.Key
}

// Load fetches the raw collection, normalizes it, and substitutes the
// default rule set when nothing usable is stored. Every call reads fresh
// state; the engine deliberately has no cache to invalidate.
func (s *Store) Load(ctx context.Context) ([]Rule, error) {
	if s == nil || s.R == nil {
		return nil, errors.New("promo: rule store not configured")
	}
	raw, err := s.R.Get(ctx, s.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return WithDefaults(nil), nil
		}
		return nil, fmt.Errorf("promo: load rules: %w", err)
	}
	return WithDefaults(Normalize(DecodeRules(raw))), nil
}

// Replace overwrites the whole collection. Callers are expected to have
// validated, de-duplicated, and sorted the rules first (see Service).
func (s *Store) Replace(ctx context.Context, rules []Rule) error {
	if s == nil || s.R == nil {
		return errors.New("promo: rule store not configured")
	}
	payload, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("promo: encode rules: %w", err)
	}
	if err := s.R.Set(ctx, s.key(), payload, 0).Err(); err != nil {
		return fmt.Errorf("promo: store rules: %w", err)
	}
	return nil
}
