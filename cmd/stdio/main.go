package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rxtech-lab/x402-marketplace/internal/api/middleware"
	"github.com/rxtech-lab/x402-marketplace/internal/config"
	"github.com/rxtech-lab/x402-marketplace/internal/logger"
	"github.com/rxtech-lab/x402-marketplace/internal/mcp"
	"github.com/rxtech-lab/x402-marketplace/internal/server"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
	"go.uber.org/zap"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

// callerContext returns the base context for tool calls. Without a token only
// the catalog and pricing tools are usable.
func callerContext(cfg *config.Config) (context.Context, error) {
	ctx := context.Background()
	if cfg.Auth.Token == "" {
		return ctx, nil
	}

	var validator middleware.TokenValidator
	switch {
	case cfg.Auth.JWKSURL != "":
		validator = utils.NewJwtAuthenticator(cfg.Auth.JWKSURL)
	case cfg.Auth.JWTSecret != "":
		validator = utils.NewSimpleJwtAuthenticator(cfg.Auth.JWTSecret)
	}

	user, err := middleware.Authenticate(validator, cfg.Auth.Audience, cfg.Auth.Token)
	if err != nil {
		return nil, fmt.Errorf("invalid auth.token: %w", err)
	}
	return utils.WithAuthenticatedUser(ctx, user), nil
}

func configureMCPServer(cfg *config.Config, dbService services.DBService) (*mcp.MCPServer, error) {
	media, err := server.InitializeMediaService(cfg.Cloudflare)
	if err != nil {
		return nil, err
	}
	svcs := server.InitializeServices(dbService.GetDB(), media)
	return mcp.NewMCPServer(svcs.Chains, svcs.Tokens, svcs.ApiEndpoints, svcs.Media, cfg.Gateway.BaseURL), nil
}

func main() {
	// Command line flags
	var showVersion = flag.Bool("version", false, "Show version information")
	var showHelp = flag.Bool("help", false, "Show help information")
	var enableLog = flag.Bool("log", false, "Enable logging output (stderr)")
	var configFile = flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	if *showVersion {
		fmt.Fprintf(os.Stderr, "x402 Marketplace MCP Server\nVersion: %s\nCommit: %s\nBuilt: %s\n", Version, CommitHash, BuildTime)
		return
	}

	if *showHelp {
		fmt.Fprintf(os.Stderr, "x402 Marketplace MCP Server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSet MARKETPLACE_AUTH_TOKEN to act as a provider.\n")
		return
	}

	cfg, err := config.Load(*configFile, ".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logging stays disabled by default; stdout carries the protocol
	if *enableLog {
		if err := logger.Initialize(logger.Config{
			Debug:     cfg.Debug,
			SentryDSN: cfg.SentryDSN,
			Tags:      map[string]string{"binary": "stdio"},
		}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Flush(2 * time.Second)
	}

	ctx, err := callerContext(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dbService, err := server.InitializeDatabase(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer dbService.Close()

	mcpServer, err := configureMCPServer(cfg, dbService)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize MCP server: %v\n", err)
		os.Exit(1)
	}

	logger.Info("serving MCP over stdio", zap.String("driver", cfg.Database.Driver))
	if err := mcpServer.StartStdioServer(ctx); err != nil {
		logger.Error(fmt.Errorf("MCP stdio server stopped: %w", err))
	}
}
