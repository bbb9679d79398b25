package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxtech-lab/x402-marketplace/internal/api"
	"github.com/rxtech-lab/x402-marketplace/internal/api/middleware"
	"github.com/rxtech-lab/x402-marketplace/internal/config"
	"github.com/rxtech-lab/x402-marketplace/internal/logger"
	"github.com/rxtech-lab/x402-marketplace/internal/mcp"
	"github.com/rxtech-lab/x402-marketplace/internal/server"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
	"go.uber.org/zap"
)

// newAuthenticator prefers the auth provider's JWKS and falls back to a shared secret.
func newAuthenticator(cfg config.AuthConfig) (middleware.TokenValidator, error) {
	switch {
	case cfg.JWKSURL != "":
		return utils.NewJwtAuthenticator(cfg.JWKSURL), nil
	case cfg.JWTSecret != "":
		return utils.NewSimpleJwtAuthenticator(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("either auth.jwks_url or auth.jwt_secret must be set")
	}
}

func configureAndStartServer(cfg *config.Config, dbService services.DBService, port int) (*api.APIServer, int, error) {
	authenticator, err := newAuthenticator(cfg.Auth)
	if err != nil {
		return nil, 0, err
	}

	media, err := server.InitializeMediaService(cfg.Cloudflare)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to initialize media service: %w", err)
	}
	svcs := server.InitializeServices(dbService.GetDB(), media)

	mcpServer := mcp.NewMCPServer(svcs.Chains, svcs.Tokens, svcs.ApiEndpoints, svcs.Media, cfg.Gateway.BaseURL)
	apiServer := api.NewAPIServer(dbService, svcs, authenticator, cfg.Auth.Audience,
		api.WithHost(cfg.Server.Host),
		api.WithProtectedResource(api.ProtectedResourceFromConfig(cfg.Auth)),
	)
	apiServer.SetMCPServer(mcpServer)
	if err := apiServer.EnableStreamableHttp(); err != nil {
		return nil, 0, err
	}

	var portPtr *int
	if port != 0 {
		portPtr = &port
	}
	startedPort, err := apiServer.Start(portPtr)
	if err != nil {
		return nil, 0, err
	}
	return apiServer, startedPort, nil
}

func main() {
	configFile := flag.String("config", "", "Path to a YAML config file")
	envPath := flag.String("env", ".", "Directory containing .env files")
	flag.Parse()

	cfg, err := config.Load(*configFile, *envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags:      map[string]string{"binary": "streamable-http"},
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Flush(2 * time.Second)

	dbService, err := server.InitializeDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database service", zap.Error(err))
	}
	defer dbService.Close()

	apiServer, port, err := configureAndStartServer(cfg, dbService, cfg.Server.Port)
	if err != nil {
		logger.Fatal("Failed to start API server", zap.Error(err))
	}
	logger.Info("API server started", zap.Int("port", port), zap.String("driver", cfg.Database.Driver))

	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("Shutting down server")
	if err := apiServer.Shutdown(); err != nil {
		logger.Error(fmt.Errorf("error shutting down API server: %w", err))
	}
	logger.Info("Server shut down successfully")
}
