package handler

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rxtech-lab/x402-marketplace/internal/api"
	"github.com/rxtech-lab/x402-marketplace/internal/config"
	"github.com/rxtech-lab/x402-marketplace/internal/logger"
	"github.com/rxtech-lab/x402-marketplace/internal/mcp"
	"github.com/rxtech-lab/x402-marketplace/internal/server"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
)

var (
	apiServer *api.APIServer
	initOnce  sync.Once
	initErr   error
)

// Handler is the main Vercel function handler
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(func() {
		initErr = initializeAPIServer()
	})
	if initErr != nil {
		logger.Error(fmt.Errorf("failed to initialize API server: %w", initErr))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	adaptor.FiberApp(apiServer.GetFiberApp())(w, r)
}

// initializeAPIServer wires the API server from MARKETPLACE_* environment
// variables. Serverless deployments are expected to use postgres.
func initializeAPIServer() error {
	cfg, err := config.Load("", ".")
	if err != nil {
		return err
	}

	if err := logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags:      map[string]string{"binary": "serverless"},
	}); err != nil {
		return err
	}

	dbService, err := server.InitializeDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	media, err := server.InitializeMediaService(cfg.Cloudflare)
	if err != nil {
		return err
	}
	svcs := server.InitializeServices(dbService.GetDB(), media)

	var authenticator *utils.JwtAuthenticator
	if cfg.Auth.JWKSURL != "" {
		authenticator = utils.NewJwtAuthenticator(cfg.Auth.JWKSURL)
	} else {
		authenticator = utils.NewSimpleJwtAuthenticator(cfg.Auth.JWTSecret)
	}

	apiServer = api.NewAPIServer(dbService, svcs, authenticator, cfg.Auth.Audience,
		api.WithProtectedResource(api.ProtectedResourceFromConfig(cfg.Auth)))
	apiServer.SetMCPServer(mcp.NewMCPServer(svcs.Chains, svcs.Tokens, svcs.ApiEndpoints, svcs.Media, cfg.Gateway.BaseURL))
	if err := apiServer.EnableStreamableHttp(); err != nil {
		return err
	}

	// Add a root route for Vercel
	apiServer.GetFiberApp().Get("/", func(c *fiber.Ctx) error {
		return c.JSON(map[string]interface{}{
			"message": "x402 Marketplace API",
			"status":  "running",
			"version": "1.0.0",
		})
	})

	return nil
}
