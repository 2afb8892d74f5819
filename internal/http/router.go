package http

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"designlift/internal/assets"
	"designlift/internal/config"
	"designlift/internal/metrics"
	"designlift/internal/model"
	"designlift/internal/services"
	"designlift/internal/store"
)

// ExtractionRecords reads stored extraction runs.
type ExtractionRecords interface {
	GetExtraction(ctx context.Context, id uuid.UUID) (store.Extraction, error)
	Ping(ctx context.Context) error
}

// ProjectAssets manages the stored asset namespaces.
type ProjectAssets interface {
	Root() string
	ListProjectAssets(projectID string) ([]model.Asset, error)
	CleanupProject(projectID string) error
}

// Deps are the collaborators handlers reach through the request context.
// Records and Assets are optional; their routes answer 404 / 503 without
// them.
type Deps struct {
	Extraction services.ExtractionService
	Records    ExtractionRecords
	Assets     ProjectAssets
}

type Server struct {
	app    *fiber.App
	config *config.Config
	logger *slog.Logger
}

func NewServer(cfg *config.Config, deps Deps, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	// Inject config and collaborators into context for handlers
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		c.Locals("extraction", deps.Extraction)
		if deps.Records != nil {
			c.Locals("records", deps.Records)
		}
		if deps.Assets != nil {
			c.Locals("assets", deps.Assets)
		}
		return c.Next()
	})

	// Request logging + metrics middleware
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		// Ensure a request ID exists
		reqID := c.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Locals("request_id", reqID)
		c.Set("X-Request-Id", reqID)
		if logger != nil {
			c.Locals("logger", logger)
		}

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()
		method := c.Method()
		path := c.Path()
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			// Route patterns keep IDs out of metric labels.
			path = r.Path
		}

		metrics.RecordRequest(method, path, status, latency.Milliseconds())

		if logger != nil {
			attrs := []any{
				"request_id", reqID,
				"method", method,
				"path", c.Path(),
				"status", status,
				"latency_ms", latency.Milliseconds(),
			}
			if tier := c.Locals("tier"); tier != nil {
				attrs = append(attrs, "tier", tier)
			}
			logger.Info("request", attrs...)
		}

		return err
	})

	// Redis client for rate limiting and health checks
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		if opt, err := redis.ParseURL(cfg.Redis.URL); err == nil {
			rdb = redis.NewClient(opt)
		} else if logger != nil {
			logger.Warn("invalid redis url, rate limiting disabled", "error", err)
		}
	}

	// Health endpoints
	app.Get("/healthz", func(c *fiber.Ctx) error {
		// Shallow health: process is up
		if c.Query("deep") != "true" {
			return c.JSON(fiber.Map{"status": "ok"})
		}

		// Deep health: check DB and Redis connectivity, the asset root and
		// rod configuration.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		dbStatus := "disabled"
		if deps.Records != nil {
			dbStatus = "ok"
			if err := deps.Records.Ping(ctx); err != nil {
				dbStatus = "error"
			}
		}

		redisStatus := "disabled"
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				redisStatus = "error"
			} else {
				redisStatus = "ok"
			}
		}

		assetsStatus := "disabled"
		if deps.Assets != nil {
			assetsStatus = "ok"
			if err := os.MkdirAll(deps.Assets.Root(), 0o755); err != nil {
				assetsStatus = "error"
			}
		}

		rodStatus := "disabled"
		if cfg.Rod.Enabled {
			// Launching a browser is too expensive for a health probe.
			rodStatus = "enabled"
		}

		status := "ok"
		if dbStatus == "error" || redisStatus == "error" || assetsStatus == "error" {
			status = "error"
		}

		return c.JSON(fiber.Map{
			"status": status,
			"db":     dbStatus,
			"redis":  redisStatus,
			"assets": assetsStatus,
			"rod":    rodStatus,
		})
	})

	// Prometheus-style metrics endpoint
	app.Get("/metrics", func(c *fiber.Ctx) error {
		c.Type("text/plain")
		return c.SendString(metrics.Export())
	})

	if deps.Assets != nil {
		prefix := cfg.Assets.PublicPrefix
		if prefix == "" {
			prefix = assets.DefaultPublicPrefix
		}
		app.Static(prefix, deps.Assets.Root(), fiber.Static{
			Browse: false,
			MaxAge: 86400,
		})
	}

	var rateMw fiber.Handler
	if rdb != nil {
		rateMw = rateLimitMiddleware(cfg, rdb)
	} else {
		rateMw = func(c *fiber.Ctx) error { return c.Next() }
	}

	v1 := app.Group("/v1", rateMw)
	registerV1Routes(v1)

	return &Server{
		app:    app,
		config: cfg,
		logger: logger,
	}
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerV1Routes(group fiber.Router) {
	group.Post("/extract", extractHandler)
	group.Post("/tier", tierHandler)
	group.Get("/extractions/:id", extractionStatusHandler)
	group.Get("/projects/:projectId/assets", withProjectAssets(listProjectAssetsHandler))
	group.Delete("/projects/:projectId/assets", withProjectAssets(deleteProjectAssetsHandler))
}
