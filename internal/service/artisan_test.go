package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/cache"
)

const artisanJSON = `{"id":2,"displayName":"Mara Holt","bio":"Woodworker",
	"profileImageUrl":"/api/files/images/artisans/mara.jpg",
	"user":{"id":9,"email":"mara@example.com","firstName":"Mara","lastName":"Holt"}}`

func newArtisanService(t *testing.T, handler http.Handler) *ArtisanService {
	t.Helper()
	client, srv := newTestClient(t, handler)
	tr := transform.New(srv.URL, zap.NewNop())
	c := cache.NewMemory(5 * time.Minute)
	products := NewProductService(client, c, tr, zap.NewNop())
	return NewArtisanService(client, c, tr, products, zap.NewNop())
}

func TestArtisanListHandlesBareArray(t *testing.T) {
	svc := newArtisanService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[` + artisanJSON + `,{"id":0,"displayName":""}]`))
	}))

	page, err := svc.List(context.Background(), ArtisanFilter{})
	require.NoError(t, err)

	// The invalid entry is dropped; a bare array becomes a single page.
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Mara Holt", page.Content[0].DisplayName)
	assert.Equal(t, 1, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
}

func TestArtisanListHandlesPageObject(t *testing.T) {
	svc := newArtisanService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[` + artisanJSON + `],
			"totalElements":37,"totalPages":4,"size":10,"number":1,"first":false,"last":false,"empty":false}`))
	}))

	page, err := svc.List(context.Background(), ArtisanFilter{PageParams: PageParams{Page: 1, Size: 10}})
	require.NoError(t, err)

	assert.Equal(t, 37, page.TotalElements)
	assert.Equal(t, 4, page.TotalPages)
	assert.False(t, page.First)
	require.Len(t, page.Content, 1)
}

func TestArtisanWithProductsSetsCount(t *testing.T) {
	svc := newArtisanService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/api/products/artisan/") {
			w.Write([]byte(productListJSON))
			return
		}
		w.Write([]byte(artisanJSON))
	}))

	res, err := svc.WithProducts(context.Background(), 2, PageParams{})
	require.NoError(t, err)

	assert.Equal(t, "Mara Holt", res.Artisan.DisplayName)
	assert.Equal(t, res.Products.TotalElements, res.Artisan.ProductCount)
	assert.Equal(t, 2, res.Artisan.ProductCount)
}

func TestArtisanSearchBlankFallsBackToList(t *testing.T) {
	var queries []string
	svc := newArtisanService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("displayName"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))

	ctx := context.Background()
	_, err := svc.Search(ctx, "  ", ArtisanFilter{})
	require.NoError(t, err)
	_, err = svc.Search(ctx, "Mara", ArtisanFilter{})
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Empty(t, queries[0])
	assert.Equal(t, "Mara", queries[1])
}

func TestUploadProfileImage(t *testing.T) {
	svc := newArtisanService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/profile-image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "me.jpg", header.Filename)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"imageUrl":"/api/files/images/artisans/me.jpg"}`))
	}))

	url, err := svc.UploadProfileImage(context.Background(), "me.jpg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, "/api/files/images/artisans/me.jpg", url)
}
