package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rxtech-lab/x402-marketplace/internal/models"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const gatewayPathIDLength = 10

// ApiEndpointService manages the endpoints a provider sells on the marketplace.
// Every method is scoped to providerID; rows owned by someone else behave as
// if they did not exist.
type ApiEndpointService interface {
	ListApiEndpoints(providerID string) ([]models.ApiEndpointSummary, error)
	GetApiEndpoint(providerID string, id string) (*models.ApiEndpoint, error)
	CreateApiEndpoint(providerID string, req validators.CreateApiEndpointRequest) (string, error)
	UpdateApiEndpoint(providerID string, id string, req validators.UpdateApiEndpointRequest) error
	DeleteApiEndpoint(providerID string, id string) error
}

type apiEndpointService struct {
	db      *gorm.DB
	wallets WalletService
}

// NewApiEndpointService creates a new ApiEndpointService
func NewApiEndpointService(db *gorm.DB, wallets WalletService) ApiEndpointService {
	return &apiEndpointService{db: db, wallets: wallets}
}

func (s *apiEndpointService) ListApiEndpoints(providerID string) ([]models.ApiEndpointSummary, error) {
	endpoints := []models.ApiEndpointSummary{}
	err := s.db.Table("api_endpoints").
		Select(`api_endpoints.*,
			tokens.symbol AS token_symbol,
			tokens.decimals AS token_decimals,
			chains.name AS chain_name,
			wallets.address AS wallet_address`).
		Joins("LEFT JOIN tokens ON tokens.id = api_endpoints.token_id").
		Joins("LEFT JOIN chains ON chains.id = tokens.chain_id").
		Joins("LEFT JOIN wallets ON wallets.id = api_endpoints.wallet_id").
		Where("api_endpoints.provider_id = ?", providerID).
		Order("api_endpoints.created_at DESC").
		Scan(&endpoints).Error
	return endpoints, err
}

// GetApiEndpoint returns the endpoint with its headers, query params and body fields.
func (s *apiEndpointService) GetApiEndpoint(providerID string, id string) (*models.ApiEndpoint, error) {
	var endpoint models.ApiEndpoint
	err := s.db.
		Preload("UpstreamHeaders", orderByCreatedAt).
		Preload("QueryParams", orderByCreatedAt).
		Preload("RequestBody", orderByCreatedAt).
		Where("id = ? AND provider_id = ?", id, providerID).
		First(&endpoint).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &endpoint, nil
}

func (s *apiEndpointService) CreateApiEndpoint(providerID string, req validators.CreateApiEndpointRequest) (string, error) {
	if err := s.checkWallet(providerID, req.WalletID); err != nil {
		return "", err
	}

	gatewayPath := ""
	if req.GatewayPath != nil {
		gatewayPath = *req.GatewayPath
	}
	if gatewayPath == "" {
		id, err := gonanoid.New(gatewayPathIDLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate gateway path: %w", err)
		}
		gatewayPath = "/" + id
	}

	now := time.Now()
	endpoint := models.ApiEndpoint{
		ID:             uuid.NewString(),
		Description:    models.NullIfEmpty(req.Description),
		DocsURL:        models.NullIfEmpty(req.DocsURL),
		ImageURL:       models.NullIfEmpty(req.ImageURL),
		SampleResponse: models.NullIfEmpty(req.SampleResponse),
		ProviderID:     providerID,
		WalletID:       req.WalletID,
		PriceAmount:    req.PriceAmount,
		TokenID:        req.TokenID,
		ProviderURL:    req.ProviderURL,
		GatewayPath:    gatewayPath,
		Category:       models.NullIfEmpty(req.Category),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&endpoint).Error; err != nil {
			return err
		}
		if err := insertUpstreamHeaders(tx, endpoint.ID, req.UpstreamHeaders, now); err != nil {
			return err
		}
		if err := insertQueryParams(tx, endpoint.ID, req.QueryParams, now); err != nil {
			return err
		}
		return insertRequestBody(tx, endpoint.ID, req.RequestBody, now)
	})
	if err != nil {
		return "", err
	}
	return endpoint.ID, nil
}

// UpdateApiEndpoint merges the keys present in req. A child array that is
// present replaces the stored rows entirely, an empty array clears them.
func (s *apiEndpointService) UpdateApiEndpoint(providerID string, id string, req validators.UpdateApiEndpointRequest) error {
	if err := s.checkOwnership(providerID, id); err != nil {
		return err
	}
	if req.WalletID != nil && *req.WalletID != "" {
		if err := s.checkWallet(providerID, *req.WalletID); err != nil {
			return err
		}
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	setText := func(column string, value *string) {
		if value != nil {
			updates[column] = models.NullIfEmpty(*value)
		}
	}
	setText("description", req.Description)
	setText("docs_url", req.DocsURL)
	setText("image_url", req.ImageURL)
	setText("sample_response", req.SampleResponse)
	setText("category", req.Category)
	if req.WalletID != nil {
		updates["wallet_id"] = *req.WalletID
	}
	if req.PriceAmount != nil {
		updates["price_amount"] = *req.PriceAmount
	}
	if req.TokenID != nil {
		updates["token_id"] = *req.TokenID
	}
	if req.ProviderURL != nil {
		updates["provider_url"] = *req.ProviderURL
	}
	if req.GatewayPath != nil {
		updates["gateway_path"] = *req.GatewayPath
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ApiEndpoint{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		if req.UpstreamHeaders != nil {
			if err := tx.Where("api_endpoint_id = ?", id).Delete(&models.UpstreamHeader{}).Error; err != nil {
				return err
			}
			if err := insertUpstreamHeaders(tx, id, *req.UpstreamHeaders, now); err != nil {
				return err
			}
		}
		if req.QueryParams != nil {
			if err := tx.Where("api_endpoint_id = ?", id).Delete(&models.QueryParam{}).Error; err != nil {
				return err
			}
			if err := insertQueryParams(tx, id, *req.QueryParams, now); err != nil {
				return err
			}
		}
		if req.RequestBody != nil {
			if err := tx.Where("api_endpoint_id = ?", id).Delete(&models.RequestBodyField{}).Error; err != nil {
				return err
			}
			if err := insertRequestBody(tx, id, *req.RequestBody, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteApiEndpoint removes the child rows and then the endpoint in one transaction.
func (s *apiEndpointService) DeleteApiEndpoint(providerID string, id string) error {
	if err := s.checkOwnership(providerID, id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("api_endpoint_id = ?", id).Delete(&models.UpstreamHeader{}).Error; err != nil {
			return err
		}
		if err := tx.Where("api_endpoint_id = ?", id).Delete(&models.QueryParam{}).Error; err != nil {
			return err
		}
		if err := tx.Where("api_endpoint_id = ?", id).Delete(&models.RequestBodyField{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.ApiEndpoint{}).Error
	})
}

func (s *apiEndpointService) checkOwnership(providerID string, id string) error {
	var count int64
	err := s.db.Model(&models.ApiEndpoint{}).
		Where("id = ? AND provider_id = ?", id, providerID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *apiEndpointService) checkWallet(providerID string, walletID string) error {
	owned, err := s.wallets.IsOwnedBy(providerID, walletID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrWalletNotOwned
	}
	return nil
}

func orderByCreatedAt(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func insertUpstreamHeaders(tx *gorm.DB, endpointID string, inputs []validators.UpstreamHeaderInput, now time.Time) error {
	if len(inputs) == 0 {
		return nil
	}
	rows := make([]models.UpstreamHeader, 0, len(inputs))
	for i, input := range inputs {
		rows = append(rows, models.UpstreamHeader{
			ID:            uuid.NewString(),
			ApiEndpointID: endpointID,
			HeaderName:    input.HeaderName,
			HeaderValue:   input.HeaderValue,
			CreatedAt:     rowTime(now, i),
			UpdatedAt:     now,
		})
	}
	return tx.Create(&rows).Error
}

func insertQueryParams(tx *gorm.DB, endpointID string, inputs []validators.QueryParamInput, now time.Time) error {
	if len(inputs) == 0 {
		return nil
	}
	rows := make([]models.QueryParam, 0, len(inputs))
	for i, input := range inputs {
		rows = append(rows, models.QueryParam{
			ID:            uuid.NewString(),
			ApiEndpointID: endpointID,
			Name:          input.Name,
			Type:          input.Type,
			Required:      input.Required,
			Description:   optionalText(input.Description),
			DefaultValue:  optionalText(input.DefaultValue),
			CreatedAt:     rowTime(now, i),
		})
	}
	return tx.Create(&rows).Error
}

func insertRequestBody(tx *gorm.DB, endpointID string, inputs []validators.RequestBodyFieldInput, now time.Time) error {
	if len(inputs) == 0 {
		return nil
	}
	rows := make([]models.RequestBodyField, 0, len(inputs))
	for i, input := range inputs {
		rows = append(rows, models.RequestBodyField{
			ID:            uuid.NewString(),
			ApiEndpointID: endpointID,
			FieldName:     input.FieldName,
			FieldType:     input.FieldType,
			Required:      input.Required,
			Description:   optionalText(input.Description),
			ExampleValue:  optionalText(input.ExampleValue),
			CreatedAt:     rowTime(now, i),
		})
	}
	return tx.Create(&rows).Error
}

// rowTime spaces child rows a microsecond apart so reads return them in
// submission order.
func rowTime(now time.Time, index int) time.Time {
	return now.Add(time.Duration(index) * time.Microsecond)
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	return models.NullIfEmpty(*value)
}
