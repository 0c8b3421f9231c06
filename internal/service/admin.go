package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/cache"
)

const (
	adminUsersEndpoint      = "/api/users"
	adminProductsEndpoint   = "/api/products"
	adminCategoriesEndpoint = "/api/categories"
	adminOrdersEndpoint     = "/api/orders"
)

// DashboardStats is assembled client-side from the raw listings; the backend
// has no stats endpoint.
type DashboardStats struct {
	TotalUsers       int `json:"totalUsers"`
	TotalArtisans    int `json:"totalArtisans"`
	TotalCustomers   int `json:"totalCustomers"`
	TotalProducts    int `json:"totalProducts"`
	FeaturedProducts int `json:"featuredProducts"`
	TotalCategories  int `json:"totalCategories"`
	TotalOrders      int `json:"totalOrders"`
	PendingOrders    int `json:"pendingOrders"`
}

type AdminProductUpdate struct {
	Name             *string          `json:"name,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	StockQuantity    *int             `json:"stockQuantity,omitempty"`
	CategoryID       *int64           `json:"categoryId,omitempty"`
	IsFeatured       *bool            `json:"isFeatured,omitempty"`
	IsActive         *bool            `json:"isActive,omitempty"`
	ModerationStatus string           `json:"moderationStatus,omitempty"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
}

// AdminService is the management surface: user administration, catalog
// moderation, category CRUD and the order overview. It invalidates the shared
// catalog caches on writes so the public pages never serve stale moderated
// content.
type AdminService struct {
	client *api.Client
	cache  cache.Cache
	tr     *transform.Transformer
	log    *zap.Logger
}

func NewAdminService(client *api.Client, c cache.Cache, tr *transform.Transformer, log *zap.Logger) *AdminService {
	return &AdminService{client: client, cache: c, tr: tr, log: log}
}

// DashboardStats fetches the four listings concurrently and counts locally.
func (s *AdminService) DashboardStats(ctx context.Context) (stats DashboardStats, err error) {
	var (
		users      []api.User
		products   api.ListResponse[api.Product]
		categories api.ListResponse[api.Category]
		orders     []api.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.client.Get(gctx, adminUsersEndpoint, nil, &users)
	})
	g.Go(func() error {
		var raw jsonRaw
		if err := s.client.Get(gctx, adminProductsEndpoint, nil, &raw); err != nil {
			return err
		}
		var derr error
		products, derr = api.DecodeList[api.Product](raw)
		return derr
	})
	g.Go(func() error {
		var raw jsonRaw
		if err := s.client.Get(gctx, adminCategoriesEndpoint, nil, &raw); err != nil {
			return err
		}
		var derr error
		categories, derr = api.DecodeList[api.Category](raw)
		return derr
	})
	g.Go(func() error {
		return s.client.Get(gctx, adminOrdersEndpoint, nil, &orders)
	})
	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("failed to fetch dashboard stats: %w", err)
	}

	stats.TotalUsers = len(users)
	for _, u := range users {
		switch u.Role {
		case "ARTISAN":
			stats.TotalArtisans++
		case "CUSTOMER":
			stats.TotalCustomers++
		}
	}

	stats.TotalProducts = len(products.Items)
	if products.Meta != nil {
		stats.TotalProducts = products.Meta.TotalElements
	}
	for _, p := range products.Items {
		if p.IsFeatured {
			stats.FeaturedProducts++
		}
	}

	stats.TotalCategories = len(categories.Items)
	if categories.Meta != nil {
		stats.TotalCategories = categories.Meta.TotalElements
	}

	stats.TotalOrders = len(orders)
	for _, o := range orders {
		if o.Status == api.OrderPending {
			stats.PendingOrders++
		}
	}
	return stats, nil
}

func (s *AdminService) Products(ctx context.Context, search string, p PageParams) (page api.Page[transform.Product], err error) {
	q := url.Values{}
	if search = strings.TrimSpace(search); search != "" {
		q.Set("search", search)
	}
	p.apply(q)

	var raw jsonRaw
	if err := s.client.Get(ctx, adminProductsEndpoint, q, &raw); err != nil {
		return page, fmt.Errorf("failed to fetch products: %w", err)
	}
	decoded, err := api.DecodeList[api.Product](raw)
	if err != nil {
		return page, err
	}

	items := s.tr.Products(decoded.Items)
	if decoded.Meta != nil {
		return api.PageWithMeta(items, *decoded.Meta), nil
	}
	return api.BuildPage(items, p.Page, p.Size), nil
}

func (s *AdminService) SetProductFeatured(ctx context.Context, productID int64, featured bool) (resp transform.Product, err error) {
	var b api.Product
	path := fmt.Sprintf("%s/%d/featured", adminProductsEndpoint, productID)
	if err := s.client.Put(ctx, path, map[string]bool{"isFeatured": featured}, &b); err != nil {
		return resp, fmt.Errorf("failed to toggle featured flag: %w", err)
	}
	s.cache.ClearPrefix(ctx, prefixProducts)
	return s.tr.Product(b), nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, productID int64, req AdminProductUpdate) (resp transform.Product, err error) {
	var b api.Product
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d", adminProductsEndpoint, productID), req, &b); err != nil {
		return resp, fmt.Errorf("failed to update product %d: %w", productID, err)
	}
	s.cache.ClearPrefix(ctx, prefixProducts)
	return s.tr.Product(b), nil
}

func (s *AdminService) Artisans(ctx context.Context) ([]api.User, error) {
	var users []api.User
	if err := s.client.Get(ctx, adminUsersEndpoint+"/role/ARTISAN", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to fetch artisan users: %w", err)
	}
	return users, nil
}

func (s *AdminService) Customers(ctx context.Context) ([]api.User, error) {
	var users []api.User
	if err := s.client.Get(ctx, adminUsersEndpoint+"/role/CUSTOMER", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to fetch customer users: %w", err)
	}
	return users, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", adminUsersEndpoint, userID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}

func (s *AdminService) setUserActive(ctx context.Context, userID int64, action string) (resp api.User, err error) {
	path := fmt.Sprintf("%s/%d/%s", adminUsersEndpoint, userID, action)
	if err := s.client.Put(ctx, path, nil, &resp); err != nil {
		return resp, fmt.Errorf("failed to %s user %d: %w", action, userID, err)
	}
	return resp, nil
}

func (s *AdminService) ActivateUser(ctx context.Context, userID int64) (api.User, error) {
	return s.setUserActive(ctx, userID, "activate")
}

func (s *AdminService) DeactivateUser(ctx context.Context, userID int64) (api.User, error) {
	return s.setUserActive(ctx, userID, "deactivate")
}

func (s *AdminService) CustomerOrders(ctx context.Context, customerID int64) ([]transform.Order, error) {
	var bs []api.Order
	path := fmt.Sprintf("%s/customer/%d", adminOrdersEndpoint, customerID)
	if err := s.client.Get(ctx, path, nil, &bs); err != nil {
		return nil, fmt.Errorf("failed to fetch customer orders: %w", err)
	}
	return s.tr.Orders(bs), nil
}

// Orders lists every order; the status filter is applied client-side because
// the backend listing does not accept one.
func (s *AdminService) Orders(ctx context.Context, status api.OrderStatus, p PageParams) ([]transform.Order, error) {
	q := url.Values{}
	p.apply(q)

	var bs []api.Order
	if err := s.client.Get(ctx, adminOrdersEndpoint, q, &bs); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	if status != "" {
		filtered := bs[:0:0]
		for _, o := range bs {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		bs = filtered
	}
	return s.tr.Orders(bs), nil
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, orderID int64, status api.OrderStatus) (resp transform.Order, err error) {
	var b api.Order
	path := fmt.Sprintf("%s/%d/status", adminOrdersEndpoint, orderID)
	if err := s.client.Put(ctx, path, map[string]string{"status": string(status)}, &b); err != nil {
		return resp, fmt.Errorf("failed to update order %d status: %w", orderID, err)
	}
	return s.tr.Order(b), nil
}

func (s *AdminService) Categories(ctx context.Context) ([]api.Category, error) {
	var raw jsonRaw
	if err := s.client.Get(ctx, adminCategoriesEndpoint, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	decoded, err := api.DecodeList[api.Category](raw)
	if err != nil {
		return nil, err
	}
	return decoded.Items, nil
}

// CreateCategory derives a slug from the name when none was given.
func (s *AdminService) CreateCategory(ctx context.Context, req CategoryRequest) (resp api.Category, err error) {
	if req.Slug == "" {
		req.Slug = slugify(req.Name)
	}
	if err := s.client.Post(ctx, adminCategoriesEndpoint, req, &resp); err != nil {
		return resp, fmt.Errorf("failed to create category: %w", err)
	}
	s.cache.ClearPrefix(ctx, prefixCategories)
	return resp, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, categoryID int64, req CategoryRequest) (resp api.Category, err error) {
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d", adminCategoriesEndpoint, categoryID), req, &resp); err != nil {
		return resp, fmt.Errorf("failed to update category %d: %w", categoryID, err)
	}
	s.cache.ClearPrefix(ctx, prefixCategories)
	return resp, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, categoryID int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", adminCategoriesEndpoint, categoryID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", categoryID, err)
	}
	s.cache.ClearPrefix(ctx, prefixCategories)
	return nil
}

func slugify(name string) string {
	var b strings.Builder
	dash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == ' ' || r == '-' || r == '_':
			if !dash {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
