package validators

// Pointer fields on update requests distinguish an omitted key (nil) from a
// key that is present.

type CreateChainRequest struct {
	Name            string  `json:"name" validate:"required"`
	ChainID         *int64  `json:"chainId" validate:"required,gt=0"`
	ExplorerBaseURL string  `json:"explorerBaseUrl" validate:"required,url"`
	ImageURI        *string `json:"imageUri"`
}

type UpdateChainRequest struct {
	Name            *string `json:"name" validate:"omitnil,min=1"`
	ChainID         *int64  `json:"chainId" validate:"omitnil,gt=0"`
	ExplorerBaseURL *string `json:"explorerBaseUrl" validate:"omitnil,url"`
	ImageURI        *string `json:"imageUri"`
}

type CreateTokenRequest struct {
	Symbol           string  `json:"symbol" validate:"required"`
	Name             *string `json:"name"`
	ChainID          string  `json:"chainId" validate:"required"`
	ContractAddress  string  `json:"contractAddress" validate:"required"`
	Decimals         *int    `json:"decimals" validate:"required,min=0,max=18"`
	ExplorerTokenURL *string `json:"explorerTokenUrl" validate:"omitnil,eq=|url"`
	ImageURI         *string `json:"imageUri"`
}

type UpdateTokenRequest struct {
	Symbol           *string `json:"symbol" validate:"omitnil,min=1"`
	Name             *string `json:"name"`
	ChainID          *string `json:"chainId" validate:"omitnil,min=1"`
	ContractAddress  *string `json:"contractAddress" validate:"omitnil,min=1"`
	Decimals         *int    `json:"decimals" validate:"omitnil,min=0,max=18"`
	ExplorerTokenURL *string `json:"explorerTokenUrl" validate:"omitnil,eq=|url"`
	ImageURI         *string `json:"imageUri"`
}

type SaveWalletRequest struct {
	Address string `json:"address" validate:"required"`
}

type UpstreamHeaderInput struct {
	HeaderName  string `json:"headerName" validate:"required"`
	HeaderValue string `json:"headerValue" validate:"required"`
}

type QueryParamInput struct {
	Name         string  `json:"name" validate:"required"`
	Type         string  `json:"type" validate:"required"`
	Required     bool    `json:"required"`
	Description  *string `json:"description"`
	DefaultValue *string `json:"defaultValue"`
}

type RequestBodyFieldInput struct {
	FieldName    string  `json:"fieldName" validate:"required"`
	FieldType    string  `json:"fieldType" validate:"required"`
	Required     bool    `json:"required"`
	Description  *string `json:"description"`
	ExampleValue *string `json:"exampleValue"`
}

type CreateApiEndpointRequest struct {
	Description     string                  `json:"description" validate:"required"`
	DocsURL         string                  `json:"docsUrl" validate:"required,url"`
	ImageURL        string                  `json:"imageUrl"`
	SampleResponse  string                  `json:"sampleResponse" validate:"required"`
	WalletID        string                  `json:"walletId" validate:"required"`
	PriceAmount     string                  `json:"priceAmount" validate:"required,uint_string"`
	TokenID         string                  `json:"tokenId" validate:"required"`
	ProviderURL     string                  `json:"providerUrl" validate:"required,url"`
	GatewayPath     *string                 `json:"gatewayPath" validate:"omitnil,min=1,gateway_path"`
	Category        string                  `json:"category"`
	UpstreamHeaders []UpstreamHeaderInput   `json:"upstreamHeaders" validate:"dive"`
	QueryParams     []QueryParamInput       `json:"queryParams" validate:"dive"`
	RequestBody     []RequestBodyFieldInput `json:"requestBody" validate:"dive"`
}

// childArrayFields may be omitted but never sent as null.
var childArrayFields = []string{"upstreamHeaders", "queryParams", "requestBody"}

func (CreateApiEndpointRequest) NonNullFields() []string { return childArrayFields }

func (UpdateApiEndpointRequest) NonNullFields() []string { return childArrayFields }

type UpdateApiEndpointRequest struct {
	Description     *string                  `json:"description" validate:"omitnil,min=1"`
	DocsURL         *string                  `json:"docsUrl" validate:"omitnil,url"`
	ImageURL        *string                  `json:"imageUrl"`
	SampleResponse  *string                  `json:"sampleResponse" validate:"omitnil,min=1"`
	WalletID        *string                  `json:"walletId" validate:"omitnil,min=1"`
	PriceAmount     *string                  `json:"priceAmount" validate:"omitnil,uint_string"`
	TokenID         *string                  `json:"tokenId" validate:"omitnil,min=1"`
	ProviderURL     *string                  `json:"providerUrl" validate:"omitnil,url"`
	GatewayPath     *string                  `json:"gatewayPath" validate:"omitnil,min=1,gateway_path"`
	Category        *string                  `json:"category"`
	IsActive        *bool                    `json:"isActive"`
	UpstreamHeaders *[]UpstreamHeaderInput   `json:"upstreamHeaders" validate:"omitnil,dive"`
	QueryParams     *[]QueryParamInput       `json:"queryParams" validate:"omitnil,dive"`
	RequestBody     *[]RequestBodyFieldInput `json:"requestBody" validate:"omitnil,dive"`
}
