package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
)

func NewListChainsTool(chainService services.ChainService) (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_chains",
		mcp.WithDescription("List the blockchains endpoints can be priced on"),
	)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		chains, err := chainService.ListChains()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error listing chains: %v", err)), nil
		}

		return jsonResult(map[string]interface{}{
			"chains": chains,
			"total":  len(chains),
		})
	}

	return tool, handler
}
