package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/pixvault/pixvault/internal/blob"
	"github.com/pixvault/pixvault/internal/ingest"
	"github.com/pixvault/pixvault/internal/logger"
	"github.com/pixvault/pixvault/internal/search"
	"github.com/pixvault/pixvault/internal/store"
	"github.com/pixvault/pixvault/internal/vectorindex"
)

// Server exposes the application over HTTP.
type Server struct {
	echo   *echo.Echo
	cfg    Config
	logger *logger.Logger

	pipeline     *ingest.Pipeline
	synchronizer *ingest.Synchronizer
	enricher     *search.Enricher
	customers    *store.CustomerRegistry
	images       *store.ImageStore
	index        *vectorindex.Client
	metrics      Metrics
}

// Metrics receives request instrumentation. Implemented by *metrics.Metrics.
type Metrics interface {
	SearchRequest(status string)
}

// NewServer builds the echo instance with recovery, request-id and
// request-logging middleware, registers all routes, and serves uploaded
// blobs directly when the disk driver is configured.
func NewServer(
	cfg Config,
	blobCfg blob.Config,
	log *logger.Logger,
	pipeline *ingest.Pipeline,
	synchronizer *ingest.Synchronizer,
	enricher *search.Enricher,
	customers *store.CustomerRegistry,
	images *store.ImageStore,
	index *vectorindex.Client,
	metrics Metrics,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
	e.Use(requestLogger(log.Zap))

	s := &Server{
		echo:         e,
		cfg:          cfg,
		logger:       log,
		pipeline:     pipeline,
		synchronizer: synchronizer,
		enricher:     enricher,
		customers:    customers,
		images:       images,
		index:        index,
		metrics:      metrics,
	}

	s.registerRoutes()

	if blobCfg.Driver == blob.DriverDisk {
		e.Static(blobCfg.Disk.PublicBase, blobCfg.Disk.Directory)
	}

	return s
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			log.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("/api")

	api.POST("/search", s.handleSearch)

	api.POST("/images", s.handleUpload)
	api.POST("/images/sync", s.handleUploadSync)
	api.POST("/images/:id/files", s.handleAppend)
	api.GET("/images", s.handleListImages)
	api.GET("/images/:id", s.handleGetImage)
	api.DELETE("/images/:filename", s.handleDeleteFilename)

	api.POST("/customers", s.handleCreateCustomer)
	api.GET("/customers", s.handleListCustomers)
	api.GET("/customers/:id", s.handleGetCustomer)
	api.PUT("/customers/:id", s.handleUpdateCustomer)
	api.DELETE("/customers/:id", s.handleDeleteCustomer)

	api.POST("/index/reload", s.handleIndexReload)
	api.POST("/index/reset", s.handleIndexReset)
}

// healthResponse is the response body for GET /health.
type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// Start begins serving on the configured address. It blocks until the
// server stops.
func (s *Server) Start() error {
	return s.echo.Start(s.cfg.Address)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
