package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopfront/backend-shopfront/internal/common"
	"github.com/shopfront/backend-shopfront/internal/pricing"
)

type productSource interface {
	List(ctx context.Context, limit, offset int) ([]Product, int64, error)
	GetBySlug(ctx context.Context, slug string) (Product, error)
	ResolveByIDs(ctx context.Context, ids []string) (map[string]Product, error)
}

// Service orchestrates product queries, DTO assembly, and caching.
type Service struct {
	store        productSource
	cache        *Cache
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store        productSource
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs the catalog service with sane pagination bounds.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		store:        cfg.Store,
		cache:        cfg.Cache,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
	if s.defaultLimit <= 0 {
		s.defaultLimit = 20
	}
	if s.maxLimit <= 0 {
		s.maxLimit = 100
	}
	return s
}

// ProductList is the paginated listing response.
type ProductList struct {
	Data  []Product `json:"data"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Total int64     `json:"total"`
}

// ListProducts returns one page of active products.
func (s *Service) ListProducts(ctx context.Context, page, limit int) (ProductList, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	key := fmt.Sprintf("catalog:products:p%d:l%d", page, limit)
	var cached ProductList
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	products, total, err := s.store.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return ProductList{}, err
	}
	if products == nil {
		products = []Product{}
	}
	out := ProductList{Data: products, Page: page, Limit: limit, Total: total}
	_ = s.cache.SetJSON(ctx, key, out)
	return out, nil
}

// GetProduct returns a single active product by slug.
func (s *Service) GetProduct(ctx context.Context, slug string) (Product, error) {
	key := "catalog:product:" + slug
	var cached Product
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	p, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		if err == ErrProductNotFound {
			return Product{}, common.NewAppError("NOT_FOUND", "product not found", http.StatusNotFound, err)
		}
		return Product{}, err
	}
	_ = s.cache.SetJSON(ctx, key, p)
	return p, nil
}

// ResolvePricing resolves product ids to unit prices for order assembly.
// It always reads the store directly: prices must reflect the catalog at
// the moment of evaluation, never a cached listing.
func (s *Service) ResolvePricing(ctx context.Context, ids []string) (map[string]pricing.Money, error) {
	products, err := s.store.ResolveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]pricing.Money, len(products))
	for id, p := range products {
		prices[id] = p.Price
	}
	return prices, nil
}
