package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
)

func (s *APIServer) handleListChains(c *fiber.Ctx) error {
	chains, err := s.chainService.ListChains()
	if err != nil {
		return respondServiceError(c, err, msgChainNotFound)
	}
	return respondData(c, chains)
}

func (s *APIServer) handleGetChain(c *fiber.Ctx) error {
	chain, err := s.chainService.GetChainByID(c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, msgChainNotFound)
	}
	return respondData(c, chain)
}

func (s *APIServer) handleCreateChain(c *fiber.Ctx) error {
	var req validators.CreateChainRequest
	if err := parseRequest(c, &req); err != nil {
		return respondServiceError(c, err, msgChainNotFound)
	}

	chain, err := s.chainService.CreateChain(req)
	if err != nil {
		return respondServiceError(c, err, msgChainNotFound)
	}
	return respondCreated(c, chain.ID)
}

func (s *APIServer) handleUpdateChain(c *fiber.Ctx) error {
	var req validators.UpdateChainRequest
	if err := parseRequest(c, &req); err != nil {
		return respondServiceError(c, err, msgChainNotFound)
	}

	if err := s.chainService.UpdateChain(c.Params("id"), req); err != nil {
		return respondServiceError(c, err, msgChainNotFound)
	}
	return respondOK(c)
}

func (s *APIServer) handleDeleteChain(c *fiber.Ctx) error {
	if err := s.chainService.DeleteChain(c.Params("id")); err != nil {
		return respondServiceError(c, err, msgChainNotFound)
	}
	return respondOK(c)
}
