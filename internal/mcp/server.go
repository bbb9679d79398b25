package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/rxtech-lab/x402-marketplace/internal/tools"
)

const (
	serverName    = "x402 Marketplace MCP Server"
	serverVersion = "1.0.0"
)

type MCPServer struct {
	server *server.MCPServer
}

func NewMCPServer(chainService services.ChainService, tokenService services.TokenService, apiEndpointService services.ApiEndpointService, mediaService services.MediaService, gatewayBaseURL string) *MCPServer {
	mcpServer := &MCPServer{}
	mcpServer.InitializeTools(chainService, tokenService, apiEndpointService, mediaService, gatewayBaseURL)
	return mcpServer
}

func (s *MCPServer) InitializeTools(chainService services.ChainService, tokenService services.TokenService, apiEndpointService services.ApiEndpointService, mediaService services.MediaService, gatewayBaseURL string) {
	srv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)

	srv.AddPrompt(mcp.NewPrompt("marketplace-usage",
		mcp.WithPromptDescription("Instructions and guidance for using the marketplace MCP tools"),
		mcp.WithArgument("tool_category",
			mcp.ArgumentDescription("Category of tools to get instructions for (catalog, endpoints, pricing, or all)"),
			mcp.RequiredArgument(),
		),
	), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		category := request.Params.Arguments["tool_category"]
		if category == "" {
			return nil, fmt.Errorf("tool_category is required")
		}

		return mcp.NewGetPromptResult(
			fmt.Sprintf("Marketplace MCP Tools - %s", category),
			[]mcp.PromptMessage{
				mcp.NewPromptMessage(
					mcp.RoleUser,
					mcp.NewTextContent(getToolInstructions(category)),
				),
			},
		), nil
	})

	// Catalog Tools
	listChainsTool, listChainsHandler := tools.NewListChainsTool(chainService)
	srv.AddTool(listChainsTool, listChainsHandler)

	listTokensTool, listTokensHandler := tools.NewListTokensTool(tokenService)
	srv.AddTool(listTokensTool, listTokensHandler)

	// Pricing Tools
	convertPriceTool, convertPriceHandler := tools.NewConvertPriceTool(tokenService)
	srv.AddTool(convertPriceTool, convertPriceHandler)

	// Endpoint Tools
	listEndpointsTool, listEndpointsHandler := tools.NewListApiEndpointsTool(apiEndpointService)
	srv.AddTool(listEndpointsTool, listEndpointsHandler)

	getEndpointTool, getEndpointHandler := tools.NewGetApiEndpointTool(apiEndpointService, gatewayBaseURL)
	srv.AddTool(getEndpointTool, getEndpointHandler)

	registerTool := tools.NewRegisterApiEndpointTool(apiEndpointService, tokenService, mediaService)
	srv.AddTool(registerTool.GetTool(), registerTool.GetHandler())

	s.server = srv
}

func (s *MCPServer) GetServer() *server.MCPServer {
	return s.server
}

// StreamableHTTPHandler serves the MCP server over streamable HTTP. contextFunc
// runs for every request and is where the caller identity is attached.
func (s *MCPServer) StreamableHTTPHandler(contextFunc server.HTTPContextFunc) http.Handler {
	return server.NewStreamableHTTPServer(s.server, server.WithHTTPContextFunc(contextFunc))
}

// StartStdioServer serves the MCP server on stdin/stdout until stdin closes.
// ctx is the base context every tool call sees.
func (s *MCPServer) StartStdioServer(ctx context.Context) error {
	return server.ServeStdio(s.server, server.WithStdioContextFunc(func(context.Context) context.Context {
		return ctx
	}))
}

func getToolInstructions(category string) string {
	switch category {
	case "catalog":
		return `Catalog Tools:
- list_chains: chains endpoints can be priced on
- list_tokens: payment tokens with decimals, optionally filtered by chain_id`
	case "pricing":
		return `Pricing Tools:
- convert_price: turn a price like "0.01" into the integer amount stored on an endpoint.
  Pass token_id to use the token's decimals. Extra fraction digits are truncated.`
	case "endpoints":
		return `Endpoint Tools (require a bearer token):
- list_api_endpoints: your registered endpoints with token, chain and wallet
- get_api_endpoint: one endpoint with headers, query params, body fields and gateway url
- register_api_endpoint: register a new endpoint. Link a wallet first, then pick a chain
  and token from the catalog. Errors name the form step and field that failed.`
	default:
		return getToolInstructions("catalog") + "\n\n" +
			getToolInstructions("pricing") + "\n\n" +
			getToolInstructions("endpoints")
	}
}
