package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
	"github.com/rxtech-lab/x402-marketplace/internal/wizard"
)

type registerApiEndpointTool struct {
	apiEndpointService services.ApiEndpointService
	tokenService       services.TokenService
	mediaService       services.MediaService
}

type RegisterApiEndpointArguments struct {
	// Required fields
	Description    string `json:"description" validate:"required"`
	DocsURL        string `json:"docs_url" validate:"required"`
	ProviderURL    string `json:"provider_url" validate:"required"`
	SampleResponse string `json:"sample_response" validate:"required"`
	ChainID        string `json:"chain_id" validate:"required"`
	TokenID        string `json:"token_id" validate:"required"`
	Price          string `json:"price" validate:"required"`
	WalletID       string `json:"wallet_id" validate:"required"`

	// Optional fields
	Category        string                             `json:"category,omitempty"`
	ImageURL        string                             `json:"image_url,omitempty"`
	GatewayPath     string                             `json:"gateway_path,omitempty"`
	UpstreamHeaders []validators.UpstreamHeaderInput   `json:"upstream_headers,omitempty"`
	QueryParams     []validators.QueryParamInput       `json:"query_params,omitempty"`
	RequestBody     []validators.RequestBodyFieldInput `json:"request_body,omitempty"`
}

type RegisterApiEndpointResult struct {
	ID          string `json:"id"`
	PriceAmount string `json:"price_amount"`
}

func NewRegisterApiEndpointTool(apiEndpointService services.ApiEndpointService, tokenService services.TokenService, mediaService services.MediaService) *registerApiEndpointTool {
	return &registerApiEndpointTool{
		apiEndpointService: apiEndpointService,
		tokenService:       tokenService,
		mediaService:       mediaService,
	}
}

func (r *registerApiEndpointTool) GetTool() mcp.Tool {
	return mcp.NewTool("register_api_endpoint",
		mcp.WithDescription("Register a new paid api endpoint for the authenticated provider. The form is filled step by step (basic info, endpoint details, headers, query params, request body, pricing, wallet) and submitted once every step validates. The price is given in token units and converted with the token's decimals."),
		mcp.WithString("description", mcp.Required(), mcp.Description("What the endpoint does")),
		mcp.WithString("category", mcp.Description("Marketplace category"), mcp.Enum(wizard.Categories...)),
		mcp.WithString("docs_url", mcp.Required(), mcp.Description("Link to the provider's documentation")),
		mcp.WithString("image_url", mcp.Description("Preview image url. Optional.")),
		mcp.WithString("provider_url", mcp.Required(), mcp.Description("Upstream url the gateway forwards paid calls to")),
		mcp.WithString("gateway_path", mcp.Description("Public path on the gateway, e.g. /weather. A random path is generated when omitted.")),
		mcp.WithString("sample_response", mcp.Required(), mcp.Description("Example response body")),
		mcp.WithString("chain_id", mcp.Required(), mcp.Description("Catalogue id of the chain the price is paid on (see list_chains)")),
		mcp.WithString("token_id", mcp.Required(), mcp.Description("Catalogue id of the payment token (see list_tokens)")),
		mcp.WithString("price", mcp.Required(), mcp.Description("Price per call in token units, e.g. \"0.01\"")),
		mcp.WithString("wallet_id", mcp.Required(), mcp.Description("ID of one of the provider's linked wallets that receives payments")),
		mcp.WithArray("upstream_headers",
			mcp.Description("Headers the gateway adds when calling the provider. Optional."),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"headerName":  map[string]any{"type": "string"},
					"headerValue": map[string]any{"type": "string"},
				},
				"required": []string{"headerName", "headerValue"},
			}),
		),
		mcp.WithArray("query_params",
			mcp.Description("Query parameters the endpoint accepts. Optional."),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":         map[string]any{"type": "string"},
					"type":         map[string]any{"type": "string"},
					"required":     map[string]any{"type": "boolean"},
					"description":  map[string]any{"type": "string"},
					"defaultValue": map[string]any{"type": "string"},
				},
				"required": []string{"name", "type"},
			}),
		),
		mcp.WithArray("request_body",
			mcp.Description("JSON body fields the endpoint accepts. Optional."),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fieldName":    map[string]any{"type": "string"},
					"fieldType":    map[string]any{"type": "string"},
					"required":     map[string]any{"type": "boolean"},
					"description":  map[string]any{"type": "string"},
					"exampleValue": map[string]any{"type": "string"},
				},
				"required": []string{"fieldName", "fieldType"},
			}),
		),
	)
}

func (r *registerApiEndpointTool) GetHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		providerID, err := callerID(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var args RegisterApiEndpointArguments
		if err := request.BindArguments(&args); err != nil {
			return nil, fmt.Errorf("failed to bind arguments: %w", err)
		}

		if err := validator.New().Struct(args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		w := wizard.New(r.tokenService, r.mediaService)
		fillForm(w.Form(), args)

		for w.Current() != wizard.LastStep {
			if err := w.Next(); err != nil {
				return stepErrorResult(err), nil
			}
		}

		var priceAmount string
		id, err := w.Submit(ctx, func(ctx context.Context, req validators.CreateApiEndpointRequest) (string, error) {
			priceAmount = req.PriceAmount
			return r.apiEndpointService.CreateApiEndpoint(providerID, req)
		})
		if err != nil {
			if errors.Is(err, services.ErrWalletNotOwned) {
				return mcp.NewToolResultError("Wallet not found or not owned by you"), nil
			}
			return stepErrorResult(err), nil
		}

		return jsonResult(RegisterApiEndpointResult{ID: id, PriceAmount: priceAmount})
	}
}

func fillForm(form *wizard.Form, args RegisterApiEndpointArguments) {
	form.Description = args.Description
	form.Category = args.Category
	form.DocsURL = args.DocsURL
	form.ImageURL = args.ImageURL
	form.ProviderURL = args.ProviderURL
	form.GatewayPath = args.GatewayPath
	form.SampleResponse = args.SampleResponse
	form.UpstreamHeaders = args.UpstreamHeaders
	form.QueryParams = args.QueryParams
	form.RequestBody = args.RequestBody
	form.ChainID = args.ChainID
	form.TokenID = args.TokenID
	form.Price = args.Price
	form.WalletID = args.WalletID
}

func stepErrorResult(err error) *mcp.CallToolResult {
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		return mcp.NewToolResultError(fmt.Sprintf("Step %q is invalid: %s", stepErr.Step.Title(), formatIssues(stepErr.Issues)))
	}
	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		return mcp.NewToolResultError("Invalid request data: " + formatIssues(verr.Issues))
	}
	return mcp.NewToolResultError(fmt.Sprintf("Error registering api endpoint: %v", err))
}

func formatIssues(issues []validators.Issue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		path := make([]string, 0, len(issue.Path))
		for _, p := range issue.Path {
			path = append(path, fmt.Sprint(p))
		}
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(path, "."), issue.Message))
	}
	return strings.Join(parts, "; ")
}
