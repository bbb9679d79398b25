package models

import "time"

// ApiEndpoint is a provider's paid API registered on the marketplace.
// PriceAmount is an integer string in the token's smallest unit.
type ApiEndpoint struct {
	ID             string    `gorm:"primaryKey;type:text" json:"id"`
	Description    *string   `json:"description"`
	DocsURL        *string   `json:"docsUrl"`
	ImageURL       *string   `json:"imageUrl"`
	SampleResponse *string   `json:"sampleResponse"`
	ProviderID     string    `gorm:"not null;index:api_endpoints_provider_id_idx" json:"providerId"`
	WalletID       string    `gorm:"not null" json:"walletId"`
	PriceAmount    string    `gorm:"not null" json:"priceAmount"`
	TokenID        string    `gorm:"not null" json:"tokenId"`
	ProviderURL    string    `gorm:"not null" json:"providerUrl"`
	GatewayPath    string    `gorm:"not null;uniqueIndex" json:"gatewayPath"`
	Category       *string   `json:"category"`
	IsActive       bool      `gorm:"not null;default:true;index:api_endpoints_is_active_idx" json:"isActive"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null" json:"updatedAt"`

	UpstreamHeaders []UpstreamHeader   `gorm:"foreignKey:ApiEndpointID" json:"upstreamHeaders,omitempty"`
	QueryParams     []QueryParam       `gorm:"foreignKey:ApiEndpointID" json:"queryParams,omitempty"`
	RequestBody     []RequestBodyField `gorm:"foreignKey:ApiEndpointID" json:"requestBody,omitempty"`
}

// ApiEndpointSummary is a list row: the endpoint plus display fields from its
// token, chain and wallet.
type ApiEndpointSummary struct {
	ApiEndpoint
	TokenSymbol   *string `json:"tokenSymbol"`
	TokenDecimals *int    `json:"tokenDecimals"`
	ChainName     *string `json:"chainName"`
	WalletAddress *string `json:"walletAddress"`
}

// UpstreamHeader is sent by the gateway to the provider on every forwarded call.
type UpstreamHeader struct {
	ID            string    `gorm:"primaryKey;type:text" json:"-"`
	ApiEndpointID string    `gorm:"not null;index:api_upstream_headers_api_endpoint_id_idx" json:"-"`
	HeaderName    string    `gorm:"not null" json:"headerName"`
	HeaderValue   string    `gorm:"not null" json:"headerValue"`
	CreatedAt     time.Time `gorm:"not null" json:"-"`
	UpdatedAt     time.Time `gorm:"not null" json:"-"`
}

func (UpstreamHeader) TableName() string { return "api_upstream_headers" }

// QueryParam documents a query-string parameter the endpoint accepts.
type QueryParam struct {
	ID            string    `gorm:"primaryKey;type:text" json:"-"`
	ApiEndpointID string    `gorm:"not null;index:api_query_params_api_endpoint_id_idx" json:"-"`
	Name          string    `gorm:"not null;index:api_query_params_name_idx" json:"name"`
	Type          string    `gorm:"not null" json:"type"`
	Required      bool      `gorm:"not null;default:false" json:"required"`
	Description   *string   `json:"description"`
	DefaultValue  *string   `json:"defaultValue"`
	CreatedAt     time.Time `gorm:"not null" json:"-"`
}

func (QueryParam) TableName() string { return "api_query_params" }

// RequestBodyField documents a JSON body field the endpoint accepts.
type RequestBodyField struct {
	ID            string    `gorm:"primaryKey;type:text" json:"-"`
	ApiEndpointID string    `gorm:"not null;index:api_request_bodies_api_endpoint_id_idx" json:"-"`
	FieldName     string    `gorm:"not null;index:api_request_bodies_field_name_idx" json:"fieldName"`
	FieldType     string    `gorm:"not null" json:"fieldType"`
	Required      bool      `gorm:"not null;default:false" json:"required"`
	Description   *string   `json:"description"`
	ExampleValue  *string   `json:"exampleValue"`
	CreatedAt     time.Time `gorm:"not null" json:"-"`
}

func (RequestBodyField) TableName() string { return "api_request_bodies" }
