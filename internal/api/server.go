package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rxtech-lab/x402-marketplace/internal/api/middleware"
	"github.com/rxtech-lab/x402-marketplace/internal/logger"
	"github.com/rxtech-lab/x402-marketplace/internal/mcp"
	"github.com/rxtech-lab/x402-marketplace/internal/server"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/rxtech-lab/x402-marketplace/internal/utils"
	"go.uber.org/zap"
)

type APIServer struct {
	app                *fiber.App
	dbService          services.DBService
	chainService       services.ChainService
	tokenService       services.TokenService
	walletService      services.WalletService
	apiEndpointService services.ApiEndpointService
	mediaService       services.MediaService
	authenticator      middleware.TokenValidator
	audience           string
	mcpServer          *mcp.MCPServer
	resource           ProtectedResource
	host               string
	port               int
}

// Option customises an APIServer at construction.
type Option func(*APIServer)

// WithHost binds the listener to host. Empty listens on every interface.
func WithHost(host string) Option {
	return func(s *APIServer) {
		s.host = host
	}
}

// WithProtectedResource publishes OAuth protected resource metadata under
// /.well-known and points 401 challenges at it.
func WithProtectedResource(resource ProtectedResource) Option {
	return func(s *APIServer) {
		s.resource = resource
	}
}

// NewAPIServer creates the REST server and registers its routes. Write routes
// and every caller-scoped route require a bearer token validated by
// authenticator; audience is checked when non-empty.
func NewAPIServer(dbService services.DBService, svcs server.Services, authenticator middleware.TokenValidator, audience string, opts ...Option) *APIServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Add middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	s := &APIServer{
		app:                app,
		dbService:          dbService,
		chainService:       svcs.Chains,
		tokenService:       svcs.Tokens,
		walletService:      svcs.Wallets,
		apiEndpointService: svcs.ApiEndpoints,
		mediaService:       svcs.Media,
		authenticator:      authenticator,
		audience:           audience,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

// requireAuth guards the resource served under path.
func (s *APIServer) requireAuth(path string) fiber.Handler {
	return middleware.AuthMiddleware(middleware.AuthConfig{
		Authenticator:       s.authenticator,
		Audience:            s.audience,
		ResourceMetadataURL: s.resource.metadataURL(path),
	})
}

func (s *APIServer) setupRoutes() {
	auth := s.requireAuth("")

	// Health check
	s.app.Get("/health", s.handleHealth)

	if s.resource.enabled() {
		s.app.Get(protectedResourcePath, s.handleOAuthProtectedResource(""))
	}

	api := s.app.Group("/api")

	// Chain catalogue: public reads
	api.Get("/chains", s.handleListChains)
	api.Get("/chains/:id", s.handleGetChain)
	api.Post("/chains", auth, s.handleCreateChain)
	api.Put("/chains/:id", auth, s.handleUpdateChain)
	api.Delete("/chains/:id", auth, s.handleDeleteChain)

	// Token catalogue: public reads
	api.Get("/tokens", s.handleListTokens)
	api.Get("/tokens/:id", s.handleGetToken)
	api.Post("/tokens", auth, s.handleCreateToken)
	api.Put("/tokens/:id", auth, s.handleUpdateToken)
	api.Delete("/tokens/:id", auth, s.handleDeleteToken)

	// Wallets
	api.Get("/wallets", auth, s.handleListWallets)
	api.Post("/wallets", auth, s.handleSaveWallet)
	api.Delete("/wallets/:id", auth, s.handleDeleteWallet)

	// Api endpoints
	api.Get("/api-endpoints", auth, s.handleListApiEndpoints)
	api.Post("/api-endpoints", auth, s.handleCreateApiEndpoint)
	api.Get("/api-endpoints/:id", auth, s.handleGetApiEndpoint)
	api.Put("/api-endpoints/:id", auth, s.handleUpdateApiEndpoint)
	api.Delete("/api-endpoints/:id", auth, s.handleDeleteApiEndpoint)

	// Image upload proxy
	api.Post("/upload", auth, s.handleUpload)
	api.Delete("/upload", auth, s.handleDeleteUpload)
}

// EnableStreamableHttp mounts the MCP server at /mcp behind the same bearer
// authentication as the REST routes.
func (s *APIServer) EnableStreamableHttp() error {
	if s.mcpServer == nil {
		return fmt.Errorf("mcp server is not set")
	}

	handler := adaptor.HTTPHandler(s.mcpServer.StreamableHTTPHandler(s.mcpContext))
	auth := s.requireAuth("/mcp")
	if s.resource.enabled() {
		s.app.Get(protectedResourcePath+"/mcp", s.handleOAuthProtectedResource("/mcp"))
	}
	s.app.All("/mcp", auth, handler)
	s.app.All("/mcp/*", auth, handler)
	return nil
}

// mcpContext attaches the caller to the context MCP tool handlers receive. The
// request has already passed the auth middleware.
func (s *APIServer) mcpContext(ctx context.Context, r *http.Request) context.Context {
	token := middleware.BearerToken(r.Header.Get(fiber.HeaderAuthorization))
	user, err := middleware.Authenticate(s.authenticator, s.audience, token)
	if err != nil {
		logger.WarnCtx(ctx, "mcp request without a valid caller", zap.Error(err))
		return ctx
	}
	return utils.WithAuthenticatedUser(ctx, user)
}

// Start starts the server on port, or on a random available port when port is nil
func (s *APIServer) Start(port *int) (int, error) {
	listenPort := 0
	if port != nil {
		listenPort = *port
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(s.host, strconv.Itoa(listenPort)))
	if err != nil {
		return 0, fmt.Errorf("failed to listen: %w", err)
	}

	s.port = listener.Addr().(*net.TCPAddr).Port

	go func() {
		if err := s.app.Listener(listener); err != nil {
			logger.Error(fmt.Errorf("API server stopped: %w", err))
		}
	}()

	return s.port, nil
}

func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}

func (s *APIServer) GetPort() int {
	return s.port
}

func (s *APIServer) GetFiberApp() *fiber.App {
	return s.app
}

// SetMCPServer sets the MCP server instance served by EnableStreamableHttp
func (s *APIServer) SetMCPServer(mcpServer *mcp.MCPServer) {
	s.mcpServer = mcpServer
}

// GetMCPServer returns the MCP server instance
func (s *APIServer) GetMCPServer() *mcp.MCPServer {
	return s.mcpServer
}

func (s *APIServer) handleHealth(c *fiber.Ctx) error {
	if s.dbService != nil {
		sqlDB, err := s.dbService.GetDB().DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			logger.ErrorCtx(c.UserContext(), fmt.Errorf("health check failed: %w", err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(map[string]string{"status": "ok"})
}

func (s *APIServer) callerID(c *fiber.Ctx) (string, bool) {
	user := middleware.GetAuthenticatedUser(c)
	if user == nil || user.Sub == "" {
		return "", false
	}
	return user.Sub, true
}
