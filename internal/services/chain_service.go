package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/x402-marketplace/internal/models"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
	"gorm.io/gorm"
)

// ChainService manages the global chain catalogue
type ChainService interface {
	ListChains() ([]models.Chain, error)
	GetChainByID(id string) (*models.Chain, error)
	CreateChain(req validators.CreateChainRequest) (*models.Chain, error)
	UpdateChain(id string, req validators.UpdateChainRequest) error
	DeleteChain(id string) error
}

type chainService struct {
	db *gorm.DB
}

// NewChainService creates a new ChainService
func NewChainService(db *gorm.DB) ChainService {
	return &chainService{db: db}
}

func (s *chainService) ListChains() ([]models.Chain, error) {
	chains := []models.Chain{}
	err := s.db.Order("name ASC").Find(&chains).Error
	return chains, err
}

func (s *chainService) GetChainByID(id string) (*models.Chain, error) {
	var chain models.Chain
	if err := s.db.Where("id = ?", id).First(&chain).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &chain, nil
}

// CreateChain inserts a chain. Duplicate names or chain ids fail on the
// unique indexes and are returned unclassified.
func (s *chainService) CreateChain(req validators.CreateChainRequest) (*models.Chain, error) {
	chain := &models.Chain{
		ID:              uuid.NewString(),
		Name:            req.Name,
		ChainID:         *req.ChainID,
		ExplorerBaseURL: req.ExplorerBaseURL,
		CreatedAt:       time.Now(),
	}
	if req.ImageURI != nil {
		chain.ImageURI = models.NullIfEmpty(*req.ImageURI)
	}

	if err := s.db.Create(chain).Error; err != nil {
		return nil, err
	}
	return chain, nil
}

func (s *chainService) UpdateChain(id string, req validators.UpdateChainRequest) error {
	if _, err := s.GetChainByID(id); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ChainID != nil {
		updates["chain_id"] = *req.ChainID
	}
	if req.ExplorerBaseURL != nil {
		updates["explorer_base_url"] = *req.ExplorerBaseURL
	}
	if req.ImageURI != nil {
		updates["image_uri"] = models.NullIfEmpty(*req.ImageURI)
	}
	if len(updates) == 0 {
		return nil
	}

	return s.db.Model(&models.Chain{}).Where("id = ?", id).Updates(updates).Error
}

func (s *chainService) DeleteChain(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Chain{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
