package rolodex

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// HTTP is an interface for the HTTP server
type HTTP interface {
	Use(middlewares ...gin.HandlerFunc) gin.IRoutes

	GET(path string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(path string, handlers ...gin.HandlerFunc) gin.IRoutes
	PUT(path string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(path string, handlers ...gin.HandlerFunc) gin.IRoutes

	AddRoute(operation *HTTPOperation) gin.IRoutes
	Handler() http.Handler
	Serve() error
	Shutdown(ctx context.Context) error
}

// HTTPResponse represents a response structure for an HTTP operation
type HTTPResponse struct {
	Status int
	Ref    string
	Errors []int
}

// HTTPOperation represents a given API action that can be used to register endpoints & spawn documentation
type HTTPOperation struct {
	Name        string
	Description string
	Tag         string
	Method      string
	Path        string
	Handler     gin.HandlerFunc
	Parameters  []string
	Query       []string
	RequestBody string
	Response    *HTTPResponse
}

var pathParam = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// zHTTP is responsible for setting up the HTTP router
type zHTTP struct {
	*gin.Engine

	config Config
	log    Logger
	server *http.Server
}

// NewHTTP creates a new HTTP instance with recovery, tracing, request logging
// and, when enabled, Prometheus metrics middleware.
func NewHTTP(l Logger, c Config) HTTP {
	gin.SetMode(gin.ReleaseMode) // disable GIN debug logs
	e := gin.New()

	e.Use(gin.Recovery())
	e.Use(otelgin.Middleware(c.Title()))
	e.Use(LogMiddleware(l))

	if c.MetricsEnabled() {
		p := ginprometheus.NewPrometheus("rolodex")
		// Collapse ids so every contact does not get its own series.
		p.ReqCntURLLabelMappingFn = func(ctx *gin.Context) string {
			if ctx.FullPath() != "" {
				return ctx.FullPath()
			}
			return "unmatched"
		}
		p.Use(e)
	}

	return &zHTTP{
		Engine: e,
		config: c,
		log:    l,
		server: &http.Server{
			Addr:    c.Addr(),
			Handler: e,
		},
	}
}

// AddRoute registers an HTTP operation with the Gin router
func (h *zHTTP) AddRoute(operation *HTTPOperation) gin.IRoutes {
	h.log.Debug("Adding route",
		zap.String("method", operation.Method),
		zap.String("path", operation.Path),
	)

	path := pathParam.ReplaceAllString(operation.Path, `:$1`)

	switch operation.Method {
	case http.MethodGet:
		return h.GET(path, operation.Handler)
	case http.MethodPost:
		return h.POST(path, operation.Handler)
	case http.MethodPut:
		return h.PUT(path, operation.Handler)
	case http.MethodDelete:
		return h.DELETE(path, operation.Handler)
	default:
		h.log.Error("Unsupported HTTP method", zap.String("method", operation.Method))
		return nil
	}
}

// Handler exposes the router, mainly for httptest.
func (h *zHTTP) Handler() http.Handler {
	return h.Engine
}

// Serve the HTTP router on the configured address. It returns nil once
// Shutdown has been called.
func (h *zHTTP) Serve() error {
	h.log.Info("Starting HTTP server", zap.String("address", h.config.Addr()))
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (h *zHTTP) Shutdown(ctx context.Context) error {
	h.log.Info("Stopping HTTP server")
	return h.server.Shutdown(ctx)
}
