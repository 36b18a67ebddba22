// internal/handlers/router.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/pantry-be/internal/core/ports"
	"github.com/ammerola/pantry-be/internal/handlers/middleware"
	"github.com/ammerola/pantry-be/internal/pkg/config"
	"github.com/ammerola/pantry-be/internal/pkg/metrics"
	"github.com/ammerola/pantry-be/internal/workers"
)

// APIPrefix is the mount point of every versioned route.
const APIPrefix = "/api/v1"

// Dependencies are the collaborators the router wires into handlers.
// Classifier, Enqueuer, Redis, Inspector and Metrics are optional.
type Dependencies struct {
	Auth       AccountService
	Inventory  ports.InventoryService
	Exports    ReportService
	Classifier ImageClassifier
	Enqueuer   workers.Enqueuer
	Store      ports.Database
	Redis      *redis.Client
	Inspector  QueueInspector
	Metrics    *metrics.Metrics
	Config     *config.Config
	Logger     *slog.Logger
}

// NewRouter registers every route and wraps the mux in the middleware chain.
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logger := deps.Logger
	mux := http.NewServeMux()

	auth := NewAuthHandler(deps.Auth, logger)
	inventory := NewInventoryHandler(deps.Inventory, logger)
	exports := NewExportHandler(deps.Exports, logger)
	imports := NewImportHandler(deps.Inventory, deps.Enqueuer, cfg.Server.MaxUploadBytes, logger)
	classify := NewClassifyHandler(deps.Classifier, deps.Inventory, deps.Enqueuer, logger)

	protect := middleware.Authenticate(deps.Auth, logger)
	private := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, protect(h))
	}

	mux.HandleFunc("POST "+APIPrefix+"/auth/sign-in", auth.SignIn)
	mux.HandleFunc("POST "+APIPrefix+"/auth/register", auth.Register)
	private("POST "+APIPrefix+"/auth/sign-out", auth.SignOut)
	private("POST "+APIPrefix+"/auth/sign-out-all", auth.SignOutAll)
	private("GET "+APIPrefix+"/auth/session", auth.Session)

	private("GET "+APIPrefix+"/items", inventory.ListItems)
	private("POST "+APIPrefix+"/items", inventory.AddItem)
	private("GET "+APIPrefix+"/summary", inventory.Summary)
	private("POST "+APIPrefix+"/items/import", imports.Import)
	private("GET "+APIPrefix+"/items/{name}", inventory.GetItem)
	private("DELETE "+APIPrefix+"/items/{name}", inventory.DeleteItem)
	private("POST "+APIPrefix+"/items/{name}/remove-one", inventory.RemoveOne)
	private("POST "+APIPrefix+"/items/{name}/classification", classify.AttachClassification)
	mux.HandleFunc("GET "+APIPrefix+"/categories", inventory.Categories)

	private("GET "+APIPrefix+"/export/{format}", exports.Export)
	private("POST "+APIPrefix+"/export/{format}/archive", exports.Archive)

	private("POST "+APIPrefix+"/classify", classify.Classify)

	if cfg.Server.EnableHealthCheck {
		health := NewHealthHandler(deps.Store, deps.Redis, deps.Inspector, cfg.App.Version, cfg.App.Environment, logger)
		mux.HandleFunc("GET /health", health.Health)
		mux.HandleFunc("GET /health/live", health.Liveness)
		mux.HandleFunc("GET /health/ready", health.Readiness)
	}
	if cfg.Server.EnableMetrics && deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
	}
	if deps.Metrics != nil {
		chain = append(chain, middleware.Metrics(deps.Metrics, mux))
	}
	chain = append(chain, middleware.CORS(cfg.Security.AllowedOrigins))
	if cfg.Security.SecureHeaders {
		chain = append(chain, middleware.SecureHeaders)
	}
	chain = append(chain,
		middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration),
		middleware.Timeout(cfg.Server.RequestTimeout),
		middleware.MaxBody(cfg.Server.MaxUploadBytes),
		middleware.Compression,
	)

	return middleware.Chain(mux, chain...)
}
