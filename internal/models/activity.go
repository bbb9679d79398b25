package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ApiCallStatus string

const (
	ApiCallStatusSuccess  ApiCallStatus = "success"
	ApiCallStatusFailed   ApiCallStatus = "failed"
	ApiCallStatusRefunded ApiCallStatus = "refunded"
)

type EmailStatus string

const (
	EmailStatusQueued EmailStatus = "queued"
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// ApiTag is a free-form search tag on an endpoint.
type ApiTag struct {
	ID            string    `gorm:"primaryKey;type:text" json:"id"`
	ApiEndpointID string    `gorm:"not null;index:api_tags_api_endpoint_id_idx" json:"apiEndpointId"`
	Tag           string    `gorm:"not null;index:api_tags_tag_idx" json:"tag"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
}

// ApiCall is written by the gateway for every paid invocation.
type ApiCall struct {
	ID            string          `gorm:"primaryKey;type:text" json:"id"`
	ApiEndpointID string          `gorm:"not null;index:api_calls_api_endpoint_id_idx" json:"apiEndpointId"`
	CallerWallet  string          `gorm:"not null;index:api_calls_caller_wallet_idx" json:"callerWallet"`
	PriceUSD      decimal.Decimal `gorm:"column:price_usd;type:decimal(10,4);not null" json:"priceUsd"`
	Status        ApiCallStatus   `gorm:"type:varchar(16);not null" json:"status"`
	RequestHash   *string         `gorm:"uniqueIndex" json:"requestHash"`
	ErrorMessage  *string         `json:"errorMessage"`
	LatencyMs     *int            `json:"latencyMs"`
	CreatedAt     time.Time       `gorm:"not null;index:api_calls_created_at_idx" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updatedAt"`
}

type ApiReview struct {
	ID            string    `gorm:"primaryKey;type:text" json:"id"`
	ApiEndpointID string    `gorm:"not null;uniqueIndex:api_reviews_api_endpoint_id_reviewer_id_idx" json:"apiEndpointId"`
	ReviewerID    string    `gorm:"not null;uniqueIndex:api_reviews_api_endpoint_id_reviewer_id_idx" json:"reviewerId"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       *string   `json:"comment"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

type Favorite struct {
	ID            string    `gorm:"primaryKey;type:text" json:"id"`
	UserID        string    `gorm:"not null;uniqueIndex:favorites_user_id_api_endpoint_id_idx" json:"userId"`
	ApiEndpointID string    `gorm:"not null;uniqueIndex:favorites_user_id_api_endpoint_id_idx" json:"apiEndpointId"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

// Email is an outbound notification queued for delivery.
type Email struct {
	ID           string      `gorm:"primaryKey;type:text" json:"id"`
	UserID       *string     `gorm:"index:emails_user_id_idx" json:"userId"`
	Email        string      `gorm:"not null" json:"email"`
	Subject      string      `gorm:"not null" json:"subject"`
	Body         string      `gorm:"not null" json:"body"`
	Status       EmailStatus `gorm:"type:varchar(16);not null;index:emails_status_idx" json:"status"`
	ErrorMessage *string     `json:"errorMessage"`
	SentAt       *time.Time  `json:"sentAt"`
	CreatedAt    time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updatedAt"`
}
