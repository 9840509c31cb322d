package server

import (
	"context"
	"fmt"

	"rollerstone-site/internal/config"
	"rollerstone-site/internal/inquiry"
	"rollerstone-site/internal/pricing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Dependencies are the services the HTTP layer talks to.
type Dependencies struct {
	Quoter    *pricing.Quoter
	Inquiries *inquiry.Service // nil when intake is not wired
	Logger    *zap.Logger

	// SiteDir is the generated gallery served under /. Empty disables it.
	SiteDir    string
	GalleryURL string

	// Checks are probed by /health, keyed by backend name.
	Checks map[string]func(ctx context.Context) error
}

type Server struct {
	app    *fiber.App
	addr   string
	logger *zap.Logger
}

func New(cfg config.HTTPConfig, deps *Dependencies) (*Server, error) {
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             64 * 1024,
		AppName:               "RollerStone",
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	if err := SetupRoutes(app, deps); err != nil {
		return nil, err
	}

	return &Server{app: app, addr: cfg.Addr, logger: deps.Logger}, nil
}

// SetupRoutes registers middleware, pages and the API on app.
func SetupRoutes(app *fiber.App, deps *Dependencies) error {
	tmpl, err := parseEstimatorTemplate()
	if err != nil {
		return err
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metricsMiddleware())
	app.Use(accessLogMiddleware(deps.Logger))

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	app.Get("/metrics", metricsHandler())
	app.Get("/health", HealthHandler(deps))

	app.Get("/", EstimatorHandler(deps, tmpl))

	v1 := app.Group("/api/v1")
	v1.Get("/quote", QuoteHandler(deps))
	v1.Get("/tiers", TiersHandler(deps))
	v1.Get("/chart", ChartHandler(deps))
	v1.Post("/inquiries", CreateInquiryHandler(deps))

	// Generated gallery: /gallery_works.html and /works/case_{id}.html.
	if deps.SiteDir != "" {
		app.Static("/", deps.SiteDir, fiber.Static{MaxAge: 3600})
	}
	return nil
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	s.logger.Info("HTTP server starting", zap.String("addr", s.addr))
	if err := s.app.Listen(s.addr); err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
