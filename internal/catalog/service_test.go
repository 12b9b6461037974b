package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/backend-shopfront/internal/common"
	"github.com/shopfront/backend-shopfront/internal/pricing"
)

type fakeStore struct {
	products []Product
	listHits int
}

func (f *fakeStore) List(_ context.Context, limit, offset int) ([]Product, int64, error) {
	f.listHits++
	if offset >= len(f.products) {
		return nil, int64(len(f.products)), nil
	}
	end := offset + limit
	if end > len(f.products) {
		end = len(f.products)
	}
	return f.products[offset:end], int64(len(f.products)), nil
}

func (f *fakeStore) GetBySlug(_ context.Context, slug string) (Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}

func (f *fakeStore) ResolveByIDs(_ context.Context, ids []string) (map[string]Product, error) {
	out := map[string]Product{}
	for _, id := range ids {
		for _, p := range f.products {
			if p.ID == id {
				out[p.ID] = p
			}
		}
	}
	return out, nil
}

func fixtureProducts() []Product {
	return []Product{
		{ID: "11111111-1111-4111-8111-111111111111", Slug: "mug", Title: "Mug", Price: 1200, Active: true},
		{ID: "22222222-2222-4222-8222-222222222222", Slug: "tee", Title: "Tee", Price: 2500, Active: true},
		{ID: "33333333-3333-4333-8333-333333333333", Slug: "cap", Title: "Cap", Price: 1800, Active: true},
	}
}

func newCatalogService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(ServiceConfig{
		Store:        store,
		Cache:        NewCache(client, time.Minute),
		DefaultLimit: 2,
		MaxLimit:     10,
	})
}

func TestListProductsPaginatesAndCaches(t *testing.T) {
	store := &fakeStore{products: fixtureProducts()}
	svc := newCatalogService(t, store)

	list, err := svc.ListProducts(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	require.Equal(t, int64(3), list.Total)

	// Second identical request is served from the cache.
	again, err := svc.ListProducts(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, list, again)
	require.Equal(t, 1, store.listHits)
}

func TestListProductsClampsLimit(t *testing.T) {
	store := &fakeStore{products: fixtureProducts()}
	svc := newCatalogService(t, store)

	list, err := svc.ListProducts(context.Background(), 0, 9999)
	require.NoError(t, err)
	require.Equal(t, 1, list.Page)
	require.Equal(t, 10, list.Limit)
}

func TestGetProductNotFound(t *testing.T) {
	store := &fakeStore{products: fixtureProducts()}
	svc := newCatalogService(t, store)

	_, err := svc.GetProduct(context.Background(), "ghost")
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestResolvePricingSkipsCache(t *testing.T) {
	store := &fakeStore{products: fixtureProducts()}
	svc := newCatalogService(t, store)

	prices, err := svc.ResolvePricing(context.Background(), []string{
		"11111111-1111-4111-8111-111111111111",
		"99999999-9999-4999-8999-999999999999",
	})
	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.Equal(t, pricing.Money(1200), prices["11111111-1111-4111-8111-111111111111"])
}
