package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
)

func (s *APIServer) handleListWallets(c *fiber.Ctx) error {
	userID, ok := s.callerID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	wallets, err := s.walletService.ListWallets(userID)
	if err != nil {
		return respondServiceError(c, err, msgWalletNotFound)
	}
	return respondData(c, wallets)
}

// handleSaveWallet links an address to the caller. Linking an address that is
// already saved, by anyone, returns the existing id with 200.
func (s *APIServer) handleSaveWallet(c *fiber.Ctx) error {
	userID, ok := s.callerID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	var req validators.SaveWalletRequest
	if err := parseRequest(c, &req); err != nil {
		return respondServiceError(c, err, msgWalletNotFound)
	}

	id, created, err := s.walletService.SaveWallet(userID, req.Address)
	if err != nil {
		return respondServiceError(c, err, msgWalletNotFound)
	}
	if !created {
		return c.JSON(Response{Success: true, Message: msgWalletSaved, ID: id})
	}
	return respondCreated(c, id)
}

func (s *APIServer) handleDeleteWallet(c *fiber.Ctx) error {
	userID, ok := s.callerID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, msgUnauthorized)
	}

	if err := s.walletService.DeleteWallet(userID, c.Params("id")); err != nil {
		return respondServiceError(c, err, msgWalletNotFound)
	}
	return respondOK(c)
}
