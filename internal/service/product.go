package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/cache"
)

const (
	productsEndpoint    = "/api/products"
	userArtisanEndpoint = "/api/user/artisan"
)

// ProductFilter carries the browse filters the catalog endpoints accept.
// Pointer fields distinguish "unset" from a zero value.
type ProductFilter struct {
	CategoryID int64
	ArtisanID  int64
	Featured   *bool
	Name       string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	PageParams
}

func (f ProductFilter) query() url.Values {
	q := url.Values{}
	if f.CategoryID != 0 {
		q.Set("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.ArtisanID != 0 {
		q.Set("artisanId", strconv.FormatInt(f.ArtisanID, 10))
	}
	if f.Featured != nil {
		q.Set("featured", strconv.FormatBool(*f.Featured))
	}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	if f.InStock != nil {
		q.Set("inStock", strconv.FormatBool(*f.InStock))
	}
	f.apply(q)
	return q
}

type CreateProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	CategoryID    int64           `json:"categoryId"`
	IsFeatured    bool            `json:"isFeatured,omitempty"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stockQuantity,omitempty"`
	CategoryID    *int64           `json:"categoryId,omitempty"`
	IsFeatured    *bool            `json:"isFeatured,omitempty"`
}

// ProductService reads the product catalog through a short-lived cache and
// exposes the artisan's own CRUD surface. List responses are normalized to
// page form regardless of whether the backend sent an array or a page object.
type ProductService struct {
	client *api.Client
	cache  cache.Cache
	tr     *transform.Transformer
	log    *zap.Logger
}

func NewProductService(client *api.Client, c cache.Cache, tr *transform.Transformer, log *zap.Logger) *ProductService {
	return &ProductService{client: client, cache: c, tr: tr, log: log}
}

func (s *ProductService) list(ctx context.Context, path string, f ProductFilter) (page api.Page[transform.Product], err error) {
	raw, err := fetchRaw(ctx, s.client, s.cache, s.log, prefixProducts, path, f.query())
	if err != nil {
		return page, fmt.Errorf("failed to fetch products: %w", err)
	}

	decoded, err := api.DecodeList[api.Product](raw)
	if err != nil {
		return page, err
	}

	valid := decoded.Items[:0:0]
	for _, p := range decoded.Items {
		if transform.ValidProduct(p) {
			valid = append(valid, p)
		} else {
			s.log.Warn("dropping invalid product entity", zap.Int64("id", p.ID))
		}
	}

	items := s.tr.Products(valid)
	if decoded.Meta != nil {
		return api.PageWithMeta(items, *decoded.Meta), nil
	}
	return api.BuildPage(items, f.Page, f.Size), nil
}

func (s *ProductService) List(ctx context.Context, f ProductFilter) (api.Page[transform.Product], error) {
	return s.list(ctx, productsEndpoint, f)
}

func (s *ProductService) ByID(ctx context.Context, id int64) (resp transform.Product, err error) {
	path := fmt.Sprintf("%s/%d", productsEndpoint, id)
	raw, err := fetchRaw(ctx, s.client, s.cache, s.log, prefixProducts, path, nil)
	if err != nil {
		return resp, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}

	b, err := decodeCached[api.Product](raw)
	if err != nil {
		return resp, err
	}
	if !transform.ValidProduct(b) {
		return resp, fmt.Errorf("invalid product data received from server")
	}
	return s.tr.Product(b), nil
}

func (s *ProductService) ByCategory(ctx context.Context, categoryID int64, f ProductFilter) (api.Page[transform.Product], error) {
	f.CategoryID = 0
	return s.list(ctx, fmt.Sprintf("%s/category/%d", productsEndpoint, categoryID), f)
}

func (s *ProductService) ByArtisan(ctx context.Context, artisanID int64, f ProductFilter) (api.Page[transform.Product], error) {
	f.ArtisanID = 0
	return s.list(ctx, fmt.Sprintf("%s/artisan/%d", productsEndpoint, artisanID), f)
}

func (s *ProductService) Featured(ctx context.Context, f ProductFilter) (api.Page[transform.Product], error) {
	f.Featured = nil
	return s.list(ctx, productsEndpoint+"/featured", f)
}

// Search falls back to a plain listing when the query is blank.
func (s *ProductService) Search(ctx context.Context, query string, f ProductFilter) (api.Page[transform.Product], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, f)
	}
	f.Name = query
	return s.list(ctx, productsEndpoint+"/search", f)
}

// Mine resolves the caller's artisan profile first, then lists that artisan's
// products.
func (s *ProductService) Mine(ctx context.Context, f ProductFilter) (page api.Page[transform.Product], err error) {
	var profile api.ArtisanProfile
	if err := s.client.Get(ctx, userArtisanEndpoint, nil, &profile); err != nil {
		return page, fmt.Errorf("failed to resolve own artisan profile: %w", err)
	}
	if profile.ID == 0 {
		return page, fmt.Errorf("user does not have an artisan profile")
	}
	return s.ByArtisan(ctx, profile.ID, f)
}

func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (resp transform.Product, err error) {
	var b api.Product
	if err := s.client.Post(ctx, productsEndpoint, req, &b); err != nil {
		return resp, fmt.Errorf("failed to create product: %w", err)
	}
	if !transform.ValidProduct(b) {
		return resp, fmt.Errorf("invalid product data received from server")
	}
	s.cache.ClearPrefix(ctx, prefixProducts)
	return s.tr.Product(b), nil
}

func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (resp transform.Product, err error) {
	var b api.Product
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d", productsEndpoint, id), req, &b); err != nil {
		return resp, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	if !transform.ValidProduct(b) {
		return resp, fmt.Errorf("invalid product data received from server")
	}
	s.cache.ClearPrefix(ctx, prefixProducts)
	return s.tr.Product(b), nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", productsEndpoint, id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	s.cache.ClearPrefix(ctx, prefixProducts)
	return nil
}
