package promo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/shopfront/backend-shopfront/internal/common"
	"github.com/shopfront/backend-shopfront/internal/lock"
)

const replaceLockKey = "promo:rules:replace"

// Service wraps the rule store with admin-side validation. Unlike the
// lenient read path, admin writes reject malformed rules outright.
type Service struct {
	Store    *Store
	Locker   lock.Locker
	LockTTL  time.Duration
	Validate *validator.Validate
	Now      func() time.Time
}

// List returns the full normalized collection, inactive rules included.
func (s *Service) List(ctx context.Context) ([]Rule, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("promo: service not configured")
	}
	return s.Store.Load(ctx)
}

// Active returns only rules visible to shoppers.
func (s *Service) Active(ctx context.Context) ([]Rule, error) {
	rules, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

// Replace validates and stores a full rule collection. Codes are
// upper-cased, duplicates collapse to the last occurrence, and the result
// is sorted by code for deterministic listing. The write is serialized
// through a Redis lock so concurrent admin saves cannot interleave.
func (s *Service) Replace(ctx context.Context, incoming []Rule) ([]Rule, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("promo: service not configured")
	}
	now := s.now().UTC().Format(time.RFC3339)

	byCode := make(map[string]int, len(incoming))
	rules := make([]Rule, 0, len(incoming))
	for i := range incoming {
		rule := incoming[i]
		rule.Code = strings.ToUpper(strings.TrimSpace(rule.Code))
		rule.Label = strings.TrimSpace(rule.Label)
		rule.Description = strings.TrimSpace(rule.Description)
		rule.Type = normalizeType(rule.Type)
		if rule.CreatedAt == "" {
			rule.CreatedAt = now
		}
		rule.UpdatedAt = now
		if err := s.validateRule(i, rule); err != nil {
			return nil, err
		}
		if at, seen := byCode[rule.Code]; seen {
			rules[at] = rule
			continue
		}
		byCode[rule.Code] = len(rules)
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Code < rules[j].Code })

	replace := func(ctx context.Context) error { return s.Store.Replace(ctx, rules) }
	if s.Locker.R != nil {
		ttl := s.LockTTL
		if ttl <= 0 {
			ttl = 10 * time.Second
		}
		if err := s.Locker.WithLock(ctx, replaceLockKey, ttl, replace); err != nil {
			return nil, err
		}
	} else if err := replace(ctx); err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *Service) validateRule(index int, rule Rule) error {
	if s.Validate == nil {
		return nil
	}
	if err := s.Validate.Struct(rule); err != nil {
		var verrs validator.ValidationErrors
		details := map[string]any{"index": index, "code": rule.Code}
		if errors.As(err, &verrs) && len(verrs) > 0 {
			details["field"] = verrs[0].Field()
			details["constraint"] = verrs[0].Tag()
		}
		return common.NewAppError(
			"VALIDATION_ERROR",
			fmt.Sprintf("promo rule %d is invalid", index),
			http.StatusBadRequest,
			err,
		).WithDetails(details)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
