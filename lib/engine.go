package rolodex

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// Resource is a group of operations that also knows how to describe its
// parameters and payloads to the documentation service.
type Resource interface {
	Document(d Docs)
	Operations() []*HTTPOperation
}

// Engine wires HTTP operations into the router and the documentation service.
type Engine interface {
	Attach(ops ...*HTTPOperation)
	Mount(resources ...Resource)
	Docs() Docs
	Handler() http.Handler
	Start() error
	Shutdown(ctx context.Context) error
}

// zEngine holds the router, documentation and health services.
type zEngine struct {
	log    Logger
	docs   Docs
	health Health
	http   HTTP
}

// NewEngine initializes a new Engine with documentation and health endpoints attached.
func NewEngine(l Logger, c Config, p Pinger) Engine {
	engine := &zEngine{
		log:    l,
		docs:   NewDocs(l, c),
		health: NewHealth(l, p),
		http:   NewHTTP(l, c),
	}
	engine.prime()
	return engine
}

// Attach HTTP operations to the router & documentation service.
func (e *zEngine) Attach(ops ...*HTTPOperation) {
	e.log.Debug("Attaching HTTP operations", zap.Int("count", len(ops)))
	for _, op := range ops {
		e.docs.AddPath(op)
		e.http.AddRoute(op)
	}
}

// Mount documents a resource and attaches its operations.
func (e *zEngine) Mount(resources ...Resource) {
	for _, r := range resources {
		r.Document(e.docs)
		e.Attach(r.Operations()...)
	}
}

func (e *zEngine) Docs() Docs {
	return e.docs
}

func (e *zEngine) Handler() http.Handler {
	return e.http.Handler()
}

// prime sets up the default endpoints
func (e *zEngine) prime() {
	e.log.Debug("Priming the engine")

	e.http.GET("/openapi", e.docs.SpecHandler)
	e.http.GET("/openapi.json", e.docs.JSONHandler)

	e.docs.AddTag("Health", "Service liveness")
	e.Attach(&HTTPOperation{
		Name:        "Health Check",
		Description: "Reports whether the service and its store are reachable.",
		Method:      http.MethodGet,
		Path:        "/health",
		Tag:         "Health",
		Handler:     e.health.HealthCheckHandler,
		Response: &HTTPResponse{
			Status: http.StatusOK,
			Errors: []int{http.StatusServiceUnavailable},
		},
	})
}

// Start the engine by running an HTTP server; blocks until Shutdown.
func (e *zEngine) Start() error {
	e.log.Debug("Starting the engine")
	return e.http.Serve()
}

// Shutdown stops accepting connections and drains in-flight requests.
func (e *zEngine) Shutdown(ctx context.Context) error {
	return e.http.Shutdown(ctx)
}
