package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Config struct {
	Host           string   `json:"host"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// Server is the storefront's HTTP face: JSON view models for every page the
// site renders. It follows the lifecycle contract; Serve errors after a clean
// Shutdown are expected and swallowed.
type Server struct {
	cfg        Config
	handler    *Handler
	log        *zap.Logger
	httpServer *http.Server
}

func NewServer(cfg Config, handler *Handler, log *zap.Logger) *Server {
	return &Server{cfg: cfg, handler: handler, log: log}
}

func (s *Server) Start(ctx context.Context) error {
	if s.httpServer != nil {
		return errors.New("server is already running")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsCfg))

	s.handler.Register(engine)

	s.httpServer = &http.Server{
		Addr:              s.cfg.Host,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server failed", zap.Error(err))
		}
	}()

	s.log.Info("http server is running", zap.String("addr", s.cfg.Host))
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return errors.New("server is not running")
	}
	return s.httpServer.Shutdown(ctx)
}
