package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/x402-marketplace/internal/models"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
	"gorm.io/gorm"
)

// WalletService manages the payout wallets linked to each user
type WalletService interface {
	ListWallets(userID string) ([]models.Wallet, error)
	// SaveWallet links address to userID. An address that is already linked,
	// by anyone, is not inserted again: its id is returned with created=false.
	SaveWallet(userID string, address string) (id string, created bool, err error)
	DeleteWallet(userID string, id string) error
	IsOwnedBy(userID string, walletID string) (bool, error)
}

type walletService struct {
	db *gorm.DB
}

// NewWalletService creates a new WalletService
func NewWalletService(db *gorm.DB) WalletService {
	return &walletService{db: db}
}

func (s *walletService) ListWallets(userID string) ([]models.Wallet, error) {
	wallets := []models.Wallet{}
	err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&wallets).Error
	return wallets, err
}

func (s *walletService) SaveWallet(userID string, address string) (string, bool, error) {
	address = utils.NormalizeAddress(address)

	var existing models.Wallet
	err := s.db.Where("address = ?", address).First(&existing).Error
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	now := time.Now()
	wallet := models.Wallet{
		ID:        uuid.NewString(),
		UserID:    userID,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Create(&wallet).Error; err != nil {
		return "", false, err
	}
	return wallet.ID, true, nil
}

func (s *walletService) DeleteWallet(userID string, id string) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Wallet{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *walletService) IsOwnedBy(userID string, walletID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Wallet{}).Where("id = ? AND user_id = ?", walletID, userID).Count(&count).Error
	return count > 0, err
}
