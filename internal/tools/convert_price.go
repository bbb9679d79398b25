package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/x402-marketplace/internal/pricing"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
)

func NewConvertPriceTool(tokenService services.TokenService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("convert_price",
		mcp.WithDescription("Convert a human-readable price (e.g. \"0.01\") into the integer amount stored on an api endpoint, scaled by the token's decimals. Excess fraction digits are truncated."),
		mcp.WithString("price",
			mcp.Required(),
			mcp.Description("Decimal price, commas allowed (e.g. \"1,234.5\")"),
		),
		mcp.WithString("token_id",
			mcp.Description("Catalogue token whose decimals are used. Either token_id or decimals is required."),
		),
		mcp.WithNumber("decimals",
			mcp.Description("Token decimals (0-18), used when token_id is not given"),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		price, err := request.RequireString("price")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		decimals := -1
		symbol := ""
		if tokenID := request.GetString("token_id", ""); tokenID != "" {
			token, err := tokenService.GetTokenByID(tokenID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Token %s not found", tokenID)), nil
			}
			decimals = token.Decimals
			symbol = token.Symbol
		} else if d, err := request.RequireFloat("decimals"); err == nil {
			decimals = int(d)
		}
		if decimals < 0 {
			return mcp.NewToolResultError("either token_id or decimals is required"), nil
		}

		amount, err := pricing.ParseUnits(price, decimals)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result := map[string]interface{}{
			"price":    price,
			"decimals": decimals,
			"amount":   amount,
		}
		if symbol != "" {
			result["symbol"] = symbol
		}
		return jsonResult(result)
	}

	return tool, handler
}
