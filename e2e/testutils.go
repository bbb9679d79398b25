//go:build integration

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rxtech-lab/x402-marketplace/internal/api"
	"github.com/rxtech-lab/x402-marketplace/internal/mcp"
	"github.com/rxtech-lab/x402-marketplace/internal/server"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testJWTSecret = "e2e-secret"

// TestSetup holds all test infrastructure
type TestSetup struct {
	DBService  services.DBService
	APIServer  *api.APIServer
	ServerPort int
	container  *postgres.PostgresContainer
	client     *http.Client
	t          *testing.T
}

// NewTestSetup starts postgres (or uses TEST_DATABASE_URL), migrates it and
// starts the API server on a random port.
func NewTestSetup(t *testing.T) *TestSetup {
	ctx := context.Background()
	setup := &TestSetup{t: t, client: &http.Client{Timeout: 10 * time.Second}}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		container, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("marketplace_test"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "failed to start postgres container")
		setup.container = container

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	dbService, err := services.NewPostgresDBService(dsn)
	require.NoError(t, err)
	setup.DBService = dbService

	svcs := server.InitializeServices(dbService.GetDB(), nil)
	apiServer := api.NewAPIServer(dbService, svcs, utils.NewSimpleJwtAuthenticator(testJWTSecret), "")
	apiServer.SetMCPServer(mcp.NewMCPServer(svcs.Chains, svcs.Tokens, svcs.ApiEndpoints, svcs.Media, "https://gateway.example.com"))
	require.NoError(t, apiServer.EnableStreamableHttp())

	port, err := apiServer.Start(nil)
	require.NoError(t, err)
	setup.APIServer = apiServer
	setup.ServerPort = port

	// Wait for server to be ready
	time.Sleep(100 * time.Millisecond)
	return setup
}

// Cleanup stops the server and the database container
func (s *TestSetup) Cleanup() {
	if s.APIServer != nil {
		_ = s.APIServer.Shutdown()
	}
	if s.DBService != nil {
		_ = s.DBService.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.t.Logf("failed to terminate postgres container: %v", err)
		}
	}
}

// Token signs a bearer token for sub
func (s *TestSetup) Token(sub string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(s.t, err)
	return token
}

// Do sends a JSON request to the running server and decodes the envelope.
func (s *TestSetup) Do(method, path string, body interface{}, token string) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("http://localhost:%d%s", s.ServerPort, path), reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// AssertServerHealth checks the health endpoint, which also pings the database
func (s *TestSetup) AssertServerHealth() {
	status, body := s.Do("GET", "/health", nil, "")
	require.Equal(s.t, http.StatusOK, status)
	require.Equal(s.t, "ok", body["status"])
}
