package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// GetGatewayUrl joins the public gateway base URL with an endpoint's gateway path.
func GetGatewayUrl(baseUrl string, gatewayPath string) (string, error) {
	if baseUrl == "" {
		return "", fmt.Errorf("gateway base URL is not configured")
	}
	parsedUrl, err := url.Parse(baseUrl)
	if err != nil {
		return "", fmt.Errorf("invalid gateway base URL: %w", err)
	}
	if parsedUrl.Scheme == "" || parsedUrl.Host == "" {
		return "", fmt.Errorf("invalid gateway base URL: %s", baseUrl)
	}
	parsedUrl.Path = strings.TrimSuffix(parsedUrl.Path, "/") + "/" + strings.TrimPrefix(gatewayPath, "/")
	return parsedUrl.String(), nil
}
