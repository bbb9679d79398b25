package models

import "time"

// Chain is a blockchain network that tokens live on.
type Chain struct {
	ID              string    `gorm:"primaryKey;type:text" json:"id"`
	Name            string    `gorm:"not null;uniqueIndex" json:"name"`
	ChainID         int64     `gorm:"column:chain_id;not null;uniqueIndex" json:"chainId"`
	ImageURI        *string   `json:"imageUri"`
	ExplorerBaseURL string    `gorm:"not null" json:"explorerBaseUrl"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
}

// Token is a payment token accepted for API calls. ChainID references Chain.ID,
// not the numeric network id.
type Token struct {
	ID               string    `gorm:"primaryKey;type:text" json:"id"`
	Symbol           string    `gorm:"not null;uniqueIndex:tokens_symbol_chain_id_idx" json:"symbol"`
	Name             *string   `json:"name"`
	ImageURI         *string   `json:"imageUri"`
	ChainID          string    `gorm:"column:chain_id;not null;uniqueIndex:tokens_symbol_chain_id_idx" json:"chainId"`
	ContractAddress  string    `gorm:"not null" json:"contractAddress"`
	Decimals         int       `gorm:"not null" json:"decimals"`
	ExplorerTokenURL *string   `json:"explorerTokenUrl"`
	CreatedAt        time.Time `gorm:"not null" json:"createdAt"`
}

// TokenWithChain is a token row joined with the name of its chain.
type TokenWithChain struct {
	Token
	ChainName *string `json:"chainName"`
}

// Wallet is a payout address linked to a user.
type Wallet struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	UserID    string    `gorm:"not null;index:wallets_user_id_idx" json:"-"`
	Address   string    `gorm:"not null;uniqueIndex" json:"address"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

// User mirrors the account row owned by the external auth provider.
type User struct {
	ID            string    `gorm:"primaryKey;type:text" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Email         string    `gorm:"not null;uniqueIndex" json:"email"`
	EmailVerified bool      `gorm:"not null;default:false" json:"emailVerified"`
	Image         *string   `json:"image"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}
