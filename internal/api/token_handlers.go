package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
)

func (s *APIServer) handleListTokens(c *fiber.Ctx) error {
	tokens, err := s.tokenService.ListTokens()
	if err != nil {
		return respondServiceError(c, err, msgTokenNotFound)
	}
	return respondData(c, tokens)
}

func (s *APIServer) handleGetToken(c *fiber.Ctx) error {
	token, err := s.tokenService.GetTokenByID(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, msgTokenNotFound)
	}
	return respondData(c, token)
}

func (s *APIServer) handleCreateToken(c *fiber.Ctx) error {
	var req validators.CreateTokenRequest
	if err := parseRequest(c, &req); err != nil {
		return respondServiceError(c, err, msgTokenNotFound)
	}

	token, err := s.tokenService.CreateToken(req)
	if err != nil {
		return respondServiceError(c, err, msgTokenNotFound)
	}
	return respondCreated(c, token.ID)
}

func (s *APIServer) handleUpdateToken(c *fiber.Ctx) error {
	var req validators.UpdateTokenRequest
	if err := parseRequest(c, &req); err != nil {
		return respondServiceError(c, err, msgTokenNotFound)
	}

	if err := s.tokenService.UpdateToken(c.Params("id"), req); err != nil {
		return respondServiceError(c, err, msgTokenNotFound)
	}
	return respondOK(c)
}

func (s *APIServer) handleDeleteToken(c *fiber.Ctx) error {
	if err := s.tokenService.DeleteToken(c.Params("id")); err != nil {
		return respondServiceError(c, err, msgTokenNotFound)
	}
	return respondOK(c)
}
