package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
)

var errUnauthenticated = errors.New("authentication required: call this tool with a bearer token")

// callerID returns the subject of the token the MCP session was opened with.
func callerID(ctx context.Context) (string, error) {
	user, ok := utils.GetAuthenticatedUser(ctx)
	if !ok || user.Sub == "" {
		return "", errUnauthenticated
	}
	return user.Sub, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(responseJSON)),
		},
	}, nil
}
