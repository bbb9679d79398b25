package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/x402-marketplace/internal/models"
	"github.com/rxtech-lab/x402-marketplace/internal/pricing"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
)

// apiEndpointListItem adds the price in whole token units to a summary row.
type apiEndpointListItem struct {
	models.ApiEndpointSummary
	Price string `json:"price,omitempty"`
}

func NewListApiEndpointsTool(apiEndpointService services.ApiEndpointService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_api_endpoints",
		mcp.WithDescription("List the api endpoints registered by the authenticated provider"),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		providerID, err := callerID(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		endpoints, err := apiEndpointService.ListApiEndpoints(providerID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error listing api endpoints: %v", err)), nil
		}

		items := make([]apiEndpointListItem, 0, len(endpoints))
		for _, endpoint := range endpoints {
			item := apiEndpointListItem{ApiEndpointSummary: endpoint}
			if endpoint.TokenDecimals != nil {
				// rows with an unparseable amount are listed without a display price
				item.Price, _ = pricing.FormatUnits(endpoint.PriceAmount, *endpoint.TokenDecimals)
			}
			items = append(items, item)
		}

		return jsonResult(map[string]interface{}{
			"api_endpoints": items,
			"total":         len(items),
		})
	}

	return tool, handler
}
