package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/x402-marketplace/internal/config"
)

const protectedResourcePath = "/.well-known/oauth-protected-resource"

// ProtectedResource describes this server to OAuth clients. URL is the public
// base url of the server; no metadata is served while it is empty.
type ProtectedResource struct {
	URL                  string
	AuthorizationServers []string
	DocumentationURL     string
	Scopes               []string
}

// ProtectedResourceFromConfig builds the resource description from the auth settings.
func ProtectedResourceFromConfig(cfg config.AuthConfig) ProtectedResource {
	resource := ProtectedResource{
		URL:              cfg.ResourceURL,
		DocumentationURL: cfg.ResourceDocsURL,
	}
	if cfg.Issuer != "" {
		resource.AuthorizationServers = []string{cfg.Issuer}
	}
	return resource
}

type protectedResourceMetadata struct {
	Resource               string   `json:"resource"`
	AuthorizationServers   []string `json:"authorization_servers"`
	BearerMethodsSupported []string `json:"bearer_methods_supported"`
	ResourceDocumentation  string   `json:"resource_documentation,omitempty"`
	ScopesSupported        []string `json:"scopes_supported"`
}

func (r ProtectedResource) enabled() bool {
	return r.URL != ""
}

// metadataURL is where the metadata of the resource under path is published.
func (r ProtectedResource) metadataURL(path string) string {
	if !r.enabled() {
		return ""
	}
	return strings.TrimRight(r.URL, "/") + protectedResourcePath + path
}

func (s *APIServer) handleOAuthProtectedResource(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		metadata := protectedResourceMetadata{
			Resource:               strings.TrimRight(s.resource.URL, "/") + path,
			AuthorizationServers:   nonNilStrings(s.resource.AuthorizationServers),
			BearerMethodsSupported: []string{"header"},
			ResourceDocumentation:  s.resource.DocumentationURL,
			ScopesSupported:        nonNilStrings(s.resource.Scopes),
		}
		return c.JSON(metadata)
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
