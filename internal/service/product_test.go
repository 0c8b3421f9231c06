package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/cache"
	"github.com/artisania/storefront/pkg/credentials"
)

func newTestClient(t *testing.T, handler http.Handler) (*api.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.New(api.Config{BaseURL: srv.URL}, credentials.Static{Token: "test-token"}, zap.NewNop())
	return client, srv
}

func newProductService(t *testing.T, handler http.Handler) (*ProductService, *countingHandler) {
	t.Helper()
	counting := &countingHandler{next: handler}
	client, srv := newTestClient(t, counting)
	tr := transform.New(srv.URL, zap.NewNop())
	return NewProductService(client, cache.NewMemory(5*time.Minute), tr, zap.NewNop()), counting
}

type countingHandler struct {
	next http.Handler
	hits int
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hits++
	h.next.ServeHTTP(w, r)
}

const productListJSON = `[
	{"id":1,"name":"Walnut Bowl","price":45.50,"stockQuantity":3,"isFeatured":true,
	 "artisan":{"id":2,"displayName":"Mara Holt","user":{"id":9}},
	 "category":{"id":4,"name":"Woodwork"}},
	{"id":2,"name":"","price":10,"stockQuantity":1,"isFeatured":false,
	 "artisan":{"id":2,"displayName":"Mara Holt","user":{"id":9}},
	 "category":{"id":4,"name":"Woodwork"}},
	{"id":3,"name":"Clay Mug","price":18.00,"stockQuantity":0,"isFeatured":false,
	 "artisan":{"id":2,"displayName":"Mara Holt","user":{"id":9}},
	 "category":{"id":5,"name":"Ceramics"}}
]`

func TestProductListFiltersInvalidAndPaginates(t *testing.T) {
	svc, _ := newProductService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(productListJSON))
	}))

	page, err := svc.List(context.Background(), ProductFilter{})
	require.NoError(t, err)

	// The nameless product is dropped.
	assert.Equal(t, 2, page.TotalElements)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Walnut Bowl", page.Content[0].Name)
	assert.Equal(t, "Clay Mug", page.Content[1].Name)
	assert.True(t, page.First)
	assert.True(t, page.Last)
}

func TestProductListServedFromCache(t *testing.T) {
	svc, counting := newProductService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(productListJSON))
	}))

	_, err := svc.List(context.Background(), ProductFilter{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), ProductFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, counting.hits)
}

func TestProductListDistinctFiltersMissCache(t *testing.T) {
	svc, counting := newProductService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(productListJSON))
	}))

	_, err := svc.List(context.Background(), ProductFilter{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), ProductFilter{CategoryID: 4})
	require.NoError(t, err)

	assert.Equal(t, 2, counting.hits)
}

func TestProductCreateInvalidatesCache(t *testing.T) {
	svc, counting := newProductService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":9,"name":"New","price":5,"stockQuantity":1,"isFeatured":false,
				"artisan":{"id":2,"displayName":"Mara Holt","user":{"id":9}},
				"category":{"id":4,"name":"Woodwork"}}`))
			return
		}
		w.Write([]byte(productListJSON))
	}))

	ctx := context.Background()
	_, err := svc.List(ctx, ProductFilter{})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateProductRequest{Name: "New"})
	require.NoError(t, err)

	_, err = svc.List(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, counting.hits)
}

func TestProductSearchBlankFallsBackToList(t *testing.T) {
	var paths []string
	svc, _ := newProductService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))

	ctx := context.Background()
	_, err := svc.Search(ctx, "   ", ProductFilter{})
	require.NoError(t, err)
	_, err = svc.Search(ctx, "bowl", ProductFilter{})
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, "/api/products", paths[0])
	assert.Equal(t, "/api/products/search", paths[1])
}

func TestProductByIDNotFound(t *testing.T) {
	svc, _ := newProductService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "", http.StatusNotFound)
	}))

	_, err := svc.ByID(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, api.KindNotFound, api.KindOf(err))
}

func TestProductMineResolvesProfileFirst(t *testing.T) {
	var paths []string
	svc, _ := newProductService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/user/artisan" {
			w.Write([]byte(`{"id":2,"displayName":"Mara Holt","user":{"id":9}}`))
			return
		}
		w.Write([]byte(productListJSON))
	}))

	_, err := svc.Mine(context.Background(), ProductFilter{})
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, "/api/user/artisan", paths[0])
	assert.Equal(t, "/api/products/artisan/2", paths[1])
}
