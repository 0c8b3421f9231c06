package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/pkg/cache"
)

// jsonRaw keeps the raw-decode call sites short.
type jsonRaw = json.RawMessage

// Cache key prefixes, one per owning service. Writes clear their own prefix
// and nothing else.
const (
	prefixProducts   = "products"
	prefixArtisans   = "artisans"
	prefixCategories = "categories"
)

// PageParams is the page/size/sort triple every list endpoint accepts.
type PageParams struct {
	Page int
	Size int
	Sort string
}

func (p PageParams) apply(q url.Values) {
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
}

// fetchRaw serves a GET from the cache when possible and stores misses. The
// cache holds the raw response bytes so both backends stay byte-oriented.
func fetchRaw(ctx context.Context, client *api.Client, c cache.Cache, log *zap.Logger, prefix, path string, query url.Values) (json.RawMessage, error) {
	key := cache.Key(prefix, struct {
		Path  string `json:"path"`
		Query string `json:"query"`
	}{path, query.Encode()})

	if data, ok := c.Get(ctx, key); ok {
		return data, nil
	}

	var raw json.RawMessage
	if err := client.Get(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	c.Set(ctx, key, raw)
	return raw, nil
}

func decodeCached[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return v, nil
}
