package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/x402-marketplace/internal/models"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
)

// apiEndpointDetail always renders the three child collections, empty or not.
type apiEndpointDetail struct {
	*models.ApiEndpoint
	UpstreamHeaders []models.UpstreamHeader   `json:"upstreamHeaders"`
	QueryParams     []models.QueryParam       `json:"queryParams"`
	RequestBody     []models.RequestBodyField `json:"requestBody"`
}

func newApiEndpointDetail(endpoint *models.ApiEndpoint) apiEndpointDetail {
	detail := apiEndpointDetail{
		ApiEndpoint:     endpoint,
		UpstreamHeaders: endpoint.UpstreamHeaders,
		QueryParams:     endpoint.QueryParams,
		RequestBody:     endpoint.RequestBody,
	}
	if detail.UpstreamHeaders == nil {
		detail.UpstreamHeaders = []models.UpstreamHeader{}
	}
	if detail.QueryParams == nil {
		detail.QueryParams = []models.QueryParam{}
	}
	if detail.RequestBody == nil {
		detail.RequestBody = []models.RequestBodyField{}
	}
	return detail
}

func (s *APIServer) handleListApiEndpoints(c *fiber.Ctx) error {
	providerID, ok := s.callerID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	endpoints, err := s.apiEndpointService.ListApiEndpoints(providerID)
	if err != nil {
		return respondServiceError(c, err, msgNotFound)
	}
	return respondData(c, endpoints)
}

func (s *APIServer) handleGetApiEndpoint(c *fiber.Ctx) error {
	providerID, ok := s.callerID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	endpoint, err := s.apiEndpointService.GetApiEndpoint(providerID, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, msgNotFound)
	}
	return respondData(c, newApiEndpointDetail(endpoint))
}

func (s *APIServer) handleCreateApiEndpoint(c *fiber.Ctx) error {
	providerID, ok := s.callerID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	var req validators.CreateApiEndpointRequest
	if err := parseRequest(c, &req); err != nil {
		return respondServiceError(c, err, msgNotFound)
	}

	id, err := s.apiEndpointService.CreateApiEndpoint(providerID, req)
	if err != nil {
		return respondServiceError(c, err, msgNotFound)
	}
	return respondCreated(c, id)
}

func (s *APIServer) handleUpdateApiEndpoint(c *fiber.Ctx) error {
	providerID, ok := s.callerID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	var req validators.UpdateApiEndpointRequest
	if err := parseRequest(c, &req); err != nil {
		return respondServiceError(c, err, msgNotFound)
	}

	if err := s.apiEndpointService.UpdateApiEndpoint(providerID, c.Params("id"), req); err != nil {
		return respondServiceError(c, err, msgNotFound)
	}
	return respondOK(c)
}

func (s *APIServer) handleDeleteApiEndpoint(c *fiber.Ctx) error {
	providerID, ok := s.callerID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	if err := s.apiEndpointService.DeleteApiEndpoint(providerID, c.Params("id")); err != nil {
		return respondServiceError(c, err, msgNotFound)
	}
	return respondOK(c)
}
