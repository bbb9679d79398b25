package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
	"github.com/stretchr/testify/suite"
)

const testProvider = "provider-1"

type ToolsTestSuite struct {
	suite.Suite
	dbService          services.DBService
	chainService       services.ChainService
	tokenService       services.TokenService
	walletService      services.WalletService
	apiEndpointService services.ApiEndpointService

	chainID  string
	tokenID  string
	walletID string
	ctx      context.Context
}

func (suite *ToolsTestSuite) SetupTest() {
	dbService, err := services.NewSqliteDBService(":memory:")
	suite.Require().NoError(err)
	suite.dbService = dbService

	db := dbService.GetDB()
	suite.chainService = services.NewChainService(db)
	suite.tokenService = services.NewTokenService(db)
	suite.walletService = services.NewWalletService(db)
	suite.apiEndpointService = services.NewApiEndpointService(db, suite.walletService)

	chainID := int64(8453)
	chain, err := suite.chainService.CreateChain(validators.CreateChainRequest{
		Name:            "Base",
		ChainID:         &chainID,
		ExplorerBaseURL: "https://basescan.org",
	})
	suite.Require().NoError(err)
	suite.chainID = chain.ID

	decimals := 6
	token, err := suite.tokenService.CreateToken(validators.CreateTokenRequest{
		Symbol:          "USDC",
		ChainID:         chain.ID,
		ContractAddress: "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913",
		Decimals:        &decimals,
	})
	suite.Require().NoError(err)
	suite.tokenID = token.ID

	walletID, _, err := suite.walletService.SaveWallet(testProvider, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	suite.Require().NoError(err)
	suite.walletID = walletID

	suite.ctx = utils.WithAuthenticatedUser(context.Background(), &utils.AuthenticatedUser{Sub: testProvider})
}

func (suite *ToolsTestSuite) TearDownTest() {
	suite.Require().NoError(suite.dbService.Close())
}

func (suite *ToolsTestSuite) call(handler server.ToolHandlerFunc, ctx context.Context, args map[string]interface{}) *mcp.CallToolResult {
	result, err := handler(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	return result
}

func (suite *ToolsTestSuite) text(result *mcp.CallToolResult) string {
	suite.Require().NotEmpty(result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	suite.Require().True(ok)
	return textContent.Text
}

func (suite *ToolsTestSuite) decode(result *mcp.CallToolResult) map[string]interface{} {
	suite.Require().False(result.IsError, suite.text(result))
	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal([]byte(suite.text(result)), &body))
	return body
}

func (suite *ToolsTestSuite) registerArgs() map[string]interface{} {
	return map[string]interface{}{
		"description":     "Weather by city",
		"category":        "Weather",
		"docs_url":        "https://docs.example.com",
		"provider_url":    "https://api.example.com/weather",
		"sample_response": `{"temp":21}`,
		"chain_id":        suite.chainID,
		"token_id":        suite.tokenID,
		"price":           "0.01",
		"wallet_id":       suite.walletID,
		"upstream_headers": []interface{}{
			map[string]interface{}{"headerName": "X-Api-Key", "headerValue": "secret"},
		},
		"query_params": []interface{}{
			map[string]interface{}{"name": "city", "type": "string", "required": true},
		},
	}
}

func (suite *ToolsTestSuite) TestListChains() {
	tool, handler := NewListChainsTool(suite.chainService)
	suite.Equal("list_chains", tool.Name)

	body := suite.decode(suite.call(handler, context.Background(), nil))
	suite.Equal(float64(1), body["total"])
	chains := body["chains"].([]interface{})
	suite.Equal("Base", chains[0].(map[string]interface{})["name"])
}

func (suite *ToolsTestSuite) TestListTokensFiltersByChain() {
	tool, handler := NewListTokensTool(suite.tokenService)
	suite.Contains(tool.InputSchema.Properties, "chain_id")

	body := suite.decode(suite.call(handler, context.Background(), map[string]interface{}{"chain_id": suite.chainID}))
	suite.Equal(float64(1), body["total"])
	token := body["tokens"].([]interface{})[0].(map[string]interface{})
	suite.Equal("USDC", token["symbol"])
	suite.Equal("Base", token["chainName"])

	body = suite.decode(suite.call(handler, context.Background(), map[string]interface{}{"chain_id": "other"}))
	suite.Equal(float64(0), body["total"])
}

func (suite *ToolsTestSuite) TestConvertPrice() {
	_, handler := NewConvertPriceTool(suite.tokenService)

	body := suite.decode(suite.call(handler, context.Background(), map[string]interface{}{
		"price":    "0.01",
		"token_id": suite.tokenID,
	}))
	suite.Equal("10000", body["amount"])
	suite.Equal("USDC", body["symbol"])

	body = suite.decode(suite.call(handler, context.Background(), map[string]interface{}{
		"price":    "0.0001",
		"decimals": float64(18),
	}))
	suite.Equal("100000000000000", body["amount"])

	result := suite.call(handler, context.Background(), map[string]interface{}{"price": "1"})
	suite.True(result.IsError)

	result = suite.call(handler, context.Background(), map[string]interface{}{"price": "abc", "decimals": float64(2)})
	suite.True(result.IsError)
	suite.Contains(suite.text(result), "Invalid price format")
}

func (suite *ToolsTestSuite) TestCallerScopedToolsRequireUser() {
	_, listHandler := NewListApiEndpointsTool(suite.apiEndpointService)
	result := suite.call(listHandler, context.Background(), nil)
	suite.True(result.IsError)
	suite.Contains(suite.text(result), "authentication required")

	register := NewRegisterApiEndpointTool(suite.apiEndpointService, suite.tokenService, nil)
	result = suite.call(register.GetHandler(), context.Background(), suite.registerArgs())
	suite.True(result.IsError)
}

func (suite *ToolsTestSuite) TestRegisterThenListAndGet() {
	register := NewRegisterApiEndpointTool(suite.apiEndpointService, suite.tokenService, nil)
	tool := register.GetTool()
	suite.Equal("register_api_endpoint", tool.Name)
	suite.Contains(tool.InputSchema.Required, "wallet_id")

	body := suite.decode(suite.call(register.GetHandler(), suite.ctx, suite.registerArgs()))
	id := body["id"].(string)
	suite.NotEmpty(id)
	suite.Equal("10000", body["price_amount"])

	_, listHandler := NewListApiEndpointsTool(suite.apiEndpointService)
	body = suite.decode(suite.call(listHandler, suite.ctx, nil))
	suite.Equal(float64(1), body["total"])
	summary := body["api_endpoints"].([]interface{})[0].(map[string]interface{})
	suite.Equal("USDC", summary["tokenSymbol"])
	suite.Equal("Base", summary["chainName"])
	suite.Equal("10000", summary["priceAmount"])
	suite.Equal("0.01", summary["price"])

	_, getHandler := NewGetApiEndpointTool(suite.apiEndpointService, "https://gateway.example.com")
	body = suite.decode(suite.call(getHandler, suite.ctx, map[string]interface{}{"id": id}))
	suite.Equal("10000", body["priceAmount"])
	suite.Len(body["upstreamHeaders"], 1)
	suite.Len(body["queryParams"], 1)
	suite.Equal([]interface{}{}, body["requestBody"])
	suite.Equal("https://gateway.example.com/"+body["gatewayPath"].(string)[1:], body["gatewayUrl"])

	other := utils.WithAuthenticatedUser(context.Background(), &utils.AuthenticatedUser{Sub: "someone-else"})
	result := suite.call(getHandler, other, map[string]interface{}{"id": id})
	suite.True(result.IsError)
	suite.Contains(suite.text(result), "not found")
}

func (suite *ToolsTestSuite) TestRegisterReportsFailingStep() {
	register := NewRegisterApiEndpointTool(suite.apiEndpointService, suite.tokenService, nil)

	args := suite.registerArgs()
	args["provider_url"] = "not a url"
	result := suite.call(register.GetHandler(), suite.ctx, args)
	suite.True(result.IsError)
	suite.Contains(suite.text(result), `"Endpoint Details"`)
	suite.Contains(suite.text(result), "providerUrl")

	args = suite.registerArgs()
	args["upstream_headers"] = []interface{}{map[string]interface{}{"headerName": "X-Api-Key"}}
	result = suite.call(register.GetHandler(), suite.ctx, args)
	suite.True(result.IsError)
	suite.Contains(suite.text(result), "upstreamHeaders.0.headerValue")

	endpoints, err := suite.apiEndpointService.ListApiEndpoints(testProvider)
	suite.Require().NoError(err)
	suite.Empty(endpoints)
}

func (suite *ToolsTestSuite) TestRegisterRejectsTokenFromOtherChain() {
	chainID := int64(137)
	polygon, err := suite.chainService.CreateChain(validators.CreateChainRequest{
		Name:            "Polygon",
		ChainID:         &chainID,
		ExplorerBaseURL: "https://polygonscan.com",
	})
	suite.Require().NoError(err)

	register := NewRegisterApiEndpointTool(suite.apiEndpointService, suite.tokenService, nil)
	args := suite.registerArgs()
	args["chain_id"] = polygon.ID
	result := suite.call(register.GetHandler(), suite.ctx, args)
	suite.True(result.IsError)
	suite.Contains(suite.text(result), `"Pricing"`)
	suite.Contains(suite.text(result), "tokenId")

	endpoints, err := suite.apiEndpointService.ListApiEndpoints(testProvider)
	suite.Require().NoError(err)
	suite.Empty(endpoints)
}

func (suite *ToolsTestSuite) TestRegisterRejectsForeignWallet() {
	walletID, _, err := suite.walletService.SaveWallet("someone-else", "0x0000000000000000000000000000000000000001")
	suite.Require().NoError(err)

	register := NewRegisterApiEndpointTool(suite.apiEndpointService, suite.tokenService, nil)
	args := suite.registerArgs()
	args["wallet_id"] = walletID
	result := suite.call(register.GetHandler(), suite.ctx, args)
	suite.True(result.IsError)
	suite.Contains(suite.text(result), "Wallet not found or not owned by you")
}

func (suite *ToolsTestSuite) TestRegisterMissingArguments() {
	register := NewRegisterApiEndpointTool(suite.apiEndpointService, suite.tokenService, nil)
	result := suite.call(register.GetHandler(), suite.ctx, map[string]interface{}{"description": "x"})
	suite.True(result.IsError)
	suite.Contains(suite.text(result), "Invalid arguments")
}

func TestToolsTestSuite(t *testing.T) {
	suite.Run(t, new(ToolsTestSuite))
}
