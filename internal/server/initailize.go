package server

import (
	"github.com/rxtech-lab/x402-marketplace/internal/adapter"
	"github.com/rxtech-lab/x402-marketplace/internal/config"
	"github.com/rxtech-lab/x402-marketplace/internal/logger"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services groups every service the HTTP and MCP surfaces depend on.
type Services struct {
	Chains       services.ChainService
	Tokens       services.TokenService
	Wallets      services.WalletService
	ApiEndpoints services.ApiEndpointService
	Media        services.MediaService
}

func InitializeServices(db *gorm.DB, media services.MediaService) Services {
	wallets := services.NewWalletService(db)
	if media == nil {
		media = services.NewMediaService(nil, "", "")
	}

	return Services{
		Chains:       services.NewChainService(db),
		Tokens:       services.NewTokenService(db),
		Wallets:      wallets,
		ApiEndpoints: services.NewApiEndpointService(db, wallets),
		Media:        media,
	}
}

// InitializeMediaService builds the Cloudflare backed media service. Uploads
// fail with services.ErrMediaNotConfigured when no credentials are set.
func InitializeMediaService(cfg config.CloudflareConfig) (services.MediaService, error) {
	if cfg.AccountID == "" || cfg.APIToken == "" {
		logger.Warn("cloudflare images is not configured, uploads are disabled")
		return services.NewMediaService(nil, "", cfg.DeliveryVariant), nil
	}

	client, err := adapter.NewCloudflareClient(cfg.APIToken)
	if err != nil {
		return nil, err
	}
	logger.Info("cloudflare images configured", zap.String("variant", cfg.DeliveryVariant))
	return services.NewMediaService(client, cfg.AccountID, cfg.DeliveryVariant), nil
}

// InitializeDatabase opens the database selected by cfg.Driver.
func InitializeDatabase(cfg config.DatabaseConfig) (services.DBService, error) {
	if cfg.Driver == config.DriverPostgres {
		return services.NewPostgresDBService(cfg.URL)
	}
	return services.NewSqliteDBService(cfg.SqlitePath)
}
