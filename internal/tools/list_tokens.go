package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/x402-marketplace/internal/models"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
)

func NewListTokensTool(tokenService services.TokenService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_tokens",
		mcp.WithDescription("List the payment tokens endpoints can be priced in, with their chain and decimals"),
		mcp.WithString("chain_id",
			mcp.Description("Only return tokens on this chain (catalogue chain id). Optional."),
		),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		chainID := request.GetString("chain_id", "")

		tokens, err := tokenService.ListTokens()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error listing tokens: %v", err)), nil
		}

		filtered := make([]models.TokenWithChain, 0, len(tokens))
		for _, token := range tokens {
			if chainID == "" || token.ChainID == chainID {
				filtered = append(filtered, token)
			}
		}

		return jsonResult(map[string]interface{}{
			"tokens": filtered,
			"total":  len(filtered),
		})
	}

	return tool, handler
}
