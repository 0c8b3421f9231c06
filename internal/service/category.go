package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/pkg/cache"
)

const categoriesEndpoint = "/api/categories"

type CategoryFilter struct {
	Name string
	PageParams
}

func (f CategoryFilter) query() url.Values {
	q := url.Values{}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	f.apply(q)
	return q
}

// CategoryStats maps category id to its product count.
type CategoryStats map[int64]struct {
	ProductCount int `json:"productCount"`
}

// CategoryService serves the category tree. Categories change rarely, so this
// service gets the long cache TTL.
type CategoryService struct {
	client *api.Client
	cache  cache.Cache
	log    *zap.Logger
}

func NewCategoryService(client *api.Client, c cache.Cache, log *zap.Logger) *CategoryService {
	return &CategoryService{client: client, cache: c, log: log}
}

func (s *CategoryService) List(ctx context.Context, f CategoryFilter) (page api.Page[api.Category], err error) {
	raw, err := fetchRaw(ctx, s.client, s.cache, s.log, prefixCategories, categoriesEndpoint, f.query())
	if err != nil {
		return page, fmt.Errorf("failed to fetch categories: %w", err)
	}

	decoded, err := api.DecodeList[api.Category](raw)
	if err != nil {
		return page, err
	}
	if decoded.Meta != nil {
		return api.PageWithMeta(decoded.Items, *decoded.Meta), nil
	}
	return api.BuildPage(decoded.Items, f.Page, f.Size), nil
}

// All returns every category unpaginated.
func (s *CategoryService) All(ctx context.Context) ([]api.Category, error) {
	raw, err := fetchRaw(ctx, s.client, s.cache, s.log, prefixCategories, categoriesEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	decoded, err := api.DecodeList[api.Category](raw)
	if err != nil {
		return nil, err
	}
	return decoded.Items, nil
}

func (s *CategoryService) ByID(ctx context.Context, id int64) (resp api.Category, err error) {
	raw, err := fetchRaw(ctx, s.client, s.cache, s.log, prefixCategories, fmt.Sprintf("%s/%d", categoriesEndpoint, id), nil)
	if err != nil {
		return resp, fmt.Errorf("failed to fetch category %d: %w", id, err)
	}
	return decodeCached[api.Category](raw)
}

func (s *CategoryService) Search(ctx context.Context, query string, f CategoryFilter) (api.Page[api.Category], error) {
	query = strings.TrimSpace(query)
	if query != "" {
		f.Name = query
	}
	return s.List(ctx, f)
}

func (s *CategoryService) Stats(ctx context.Context) (CategoryStats, error) {
	raw, err := fetchRaw(ctx, s.client, s.cache, s.log, prefixCategories, categoriesEndpoint+"/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category stats: %w", err)
	}
	return decodeCached[CategoryStats](raw)
}

// NameByID resolves a category name from the full listing so one cached fetch
// serves repeated lookups.
func (s *CategoryService) NameByID(ctx context.Context, id int64) (string, error) {
	categories, err := s.All(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.ID == id {
			return c.Name, nil
		}
	}
	return "", fmt.Errorf("category %d not found", id)
}

// ByName matches case-insensitively. A miss returns nil, not an error.
func (s *CategoryService) ByName(ctx context.Context, name string) (*api.Category, error) {
	categories, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}
