package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/x402-marketplace/internal/models"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
)

type apiEndpointDetail struct {
	*models.ApiEndpoint
	UpstreamHeaders []models.UpstreamHeader   `json:"upstreamHeaders"`
	QueryParams     []models.QueryParam       `json:"queryParams"`
	RequestBody     []models.RequestBodyField `json:"requestBody"`
	GatewayURL      string                    `json:"gatewayUrl,omitempty"`
}

// NewGetApiEndpointTool returns one endpoint with its headers, query params
// and body fields. gatewayBaseURL is used to build the public gateway url.
func NewGetApiEndpointTool(apiEndpointService services.ApiEndpointService, gatewayBaseURL string) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("get_api_endpoint",
		mcp.WithDescription("Get an api endpoint owned by the authenticated provider, including its documentation and gateway url"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("ID of the api endpoint"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		providerID, err := callerID(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		endpoint, err := apiEndpointService.GetApiEndpoint(providerID, id)
		if errors.Is(err, services.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Api endpoint %s not found", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error loading api endpoint: %v", err)), nil
		}

		detail := apiEndpointDetail{
			ApiEndpoint:     endpoint,
			UpstreamHeaders: nonNil(endpoint.UpstreamHeaders),
			QueryParams:     nonNil(endpoint.QueryParams),
			RequestBody:     nonNil(endpoint.RequestBody),
		}
		if gatewayBaseURL != "" {
			gatewayURL, err := utils.GetGatewayUrl(gatewayBaseURL, endpoint.GatewayPath)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Error building gateway url: %v", err)), nil
			}
			detail.GatewayURL = gatewayURL
		}

		return jsonResult(detail)
	}

	return tool, handler
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
