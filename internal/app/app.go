package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/artisania/storefront/config"
	"github.com/artisania/storefront/internal/api"
	delivery "github.com/artisania/storefront/internal/delivery/http"
	"github.com/artisania/storefront/internal/service"
	"github.com/artisania/storefront/internal/store"
	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/cache"
	"github.com/artisania/storefront/pkg/credentials"
	"github.com/artisania/storefront/pkg/events"
	"github.com/artisania/storefront/pkg/lifecycle"
)

// App assembles the storefront and runs its stateful components in order:
// the cache backend and event sender first, then the HTTP server once
// everything it serves from is ready. Stop walks the same list in reverse.
type App struct {
	cfg  config.Config
	log  *zap.Logger
	cmps []cmp
}

type cmp struct {
	Service lifecycle.Component
	Name    string
}

func New(cfg config.Config, log *zap.Logger) *App {
	return &App{cfg: cfg, log: log}
}

func (app *App) Start(ctx context.Context) error {
	creds := credentials.NewFileStore(app.cfg.Credentials.File)
	client := api.New(app.cfg.API, creds, app.log)
	tr := transform.New(client.BaseURL(), app.log)

	catalogTTL := time.Duration(app.cfg.Cache.TTLSeconds) * time.Second
	categoryTTL := time.Duration(app.cfg.Cache.CategoryTTLSeconds) * time.Second

	var catalogCache, categoryCache cache.Cache
	if app.cfg.Cache.UseRedis {
		shared := cache.NewRedis(app.cfg.Redis, catalogTTL)
		catalogCache, categoryCache = shared, shared
		app.cmps = append(app.cmps, cmp{shared, "redis cache"})
	} else {
		catalogCache = cache.NewMemory(catalogTTL)
		categoryCache = cache.NewMemory(categoryTTL)
	}

	var publisher events.Publisher = events.Nop{}
	if len(app.cfg.Kafka.Brokers) > 0 {
		sender := events.NewSender(app.cfg.Kafka, app.log)
		publisher = sender
		app.cmps = append(app.cmps, cmp{sender, "kafka sender"})
	}

	products := service.NewProductService(client, catalogCache, tr, app.log)
	artisans := service.NewArtisanService(client, catalogCache, tr, products, app.log)
	categories := service.NewCategoryService(client, categoryCache, app.log)
	cart := service.NewCartService(client, tr, app.log)
	orders := service.NewOrderService(client, tr, publisher, app.log)
	admin := service.NewAdminService(client, catalogCache, tr, app.log)
	auth := service.NewAuthService(client, creds, app.log)

	authStore := store.NewAuthStore(auth, creds, publisher, app.log)
	cartStore := store.NewCartStore(cart, authStore, app.log)

	handler := delivery.NewHandler(products, artisans, categories, orders, admin, auth, authStore, cartStore, app.log)
	server := delivery.NewServer(app.cfg.HTTP, handler, app.log)
	app.cmps = append(app.cmps, cmp{server, "http server"})

	okCh, errCh := make(chan struct{}), make(chan error)

	go func() {
		for _, c := range app.cmps {
			app.log.Info("starting component", zap.String("name", c.Name))

			if err := c.Service.Start(ctx); err != nil {
				errCh <- fmt.Errorf("cannot start %s: %w", c.Name, err)
				return
			}

			app.log.Info("component started", zap.String("name", c.Name))
		}
		okCh <- struct{}{}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("startup cancelled: %w", ctx.Err())
	case err := <-errCh:
		return err
	case <-okCh:
		app.log.Info("application started")
		return nil
	}
}

func (app *App) Stop(ctx context.Context) error {
	app.log.Info("shutting down")
	okCh, errCh := make(chan struct{}), make(chan error)

	go func() {
		for i := len(app.cmps) - 1; i >= 0; i-- {
			c := app.cmps[i]
			app.log.Info("stopping component", zap.String("name", c.Name))

			if err := c.Service.Stop(ctx); err != nil {
				errCh <- fmt.Errorf("cannot stop %s: %w", c.Name, err)
				return
			}
		}
		okCh <- struct{}{}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown cancelled: %w", ctx.Err())
	case err := <-errCh:
		return err
	case <-okCh:
		app.log.Info("application stopped")
		return nil
	}
}
