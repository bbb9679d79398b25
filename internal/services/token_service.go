package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/x402-marketplace/internal/models"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
	"gorm.io/gorm"
)

// TokenService manages the global payment-token catalogue
type TokenService interface {
	ListTokens() ([]models.TokenWithChain, error)
	GetTokenByID(id string) (*models.Token, error)
	CreateToken(req validators.CreateTokenRequest) (*models.Token, error)
	UpdateToken(id string, req validators.UpdateTokenRequest) error
	DeleteToken(id string) error
}

type tokenService struct {
	db *gorm.DB
}

// NewTokenService creates a new TokenService
func NewTokenService(db *gorm.DB) TokenService {
	return &tokenService{db: db}
}

// ListTokens returns every token with the name of its chain.
func (s *tokenService) ListTokens() ([]models.TokenWithChain, error) {
	tokens := []models.TokenWithChain{}
	err := s.db.Table("tokens").
		Select("tokens.*, chains.name AS chain_name").
		Joins("LEFT JOIN chains ON chains.id = tokens.chain_id").
		Order("tokens.symbol ASC").
		Scan(&tokens).Error
	return tokens, err
}

func (s *tokenService) GetTokenByID(id string) (*models.Token, error) {
	var token models.Token
	if err := s.db.Where("id = ?", id).First(&token).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &token, nil
}

func (s *tokenService) CreateToken(req validators.CreateTokenRequest) (*models.Token, error) {
	token := &models.Token{
		ID:              uuid.NewString(),
		Symbol:          req.Symbol,
		ChainID:         req.ChainID,
		ContractAddress: utils.NormalizeAddress(req.ContractAddress),
		Decimals:        *req.Decimals,
		CreatedAt:       time.Now(),
	}
	if req.Name != nil {
		token.Name = models.NullIfEmpty(*req.Name)
	}
	if req.ImageURI != nil {
		token.ImageURI = models.NullIfEmpty(*req.ImageURI)
	}
	if req.ExplorerTokenURL != nil {
		token.ExplorerTokenURL = models.NullIfEmpty(*req.ExplorerTokenURL)
	}

	if err := s.db.Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

func (s *tokenService) UpdateToken(id string, req validators.UpdateTokenRequest) error {
	if _, err := s.GetTokenByID(id); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.Symbol != nil {
		updates["symbol"] = *req.Symbol
	}
	if req.Name != nil {
		updates["name"] = models.NullIfEmpty(*req.Name)
	}
	if req.ChainID != nil {
		updates["chain_id"] = *req.ChainID
	}
	if req.ContractAddress != nil {
		updates["contract_address"] = utils.NormalizeAddress(*req.ContractAddress)
	}
	if req.Decimals != nil {
		updates["decimals"] = *req.Decimals
	}
	if req.ExplorerTokenURL != nil {
		updates["explorer_token_url"] = models.NullIfEmpty(*req.ExplorerTokenURL)
	}
	if req.ImageURI != nil {
		updates["image_uri"] = models.NullIfEmpty(*req.ImageURI)
	}
	if len(updates) == 0 {
		return nil
	}

	return s.db.Model(&models.Token{}).Where("id = ?", id).Updates(updates).Error
}

func (s *tokenService) DeleteToken(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Token{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
