package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rxtech-lab/x402-marketplace/internal/logger"
	"github.com/rxtech-lab/x402-marketplace/internal/services"
	"github.com/rxtech-lab/x402-marketplace/internal/validators"
	"go.uber.org/zap"
)

const (
	msgUnauthorized     = "Unauthorized"
	msgInvalidRequest   = "Invalid request data"
	msgInternalError    = "Internal Server Error"
	msgNotFound         = "Not found"
	msgWalletNotOwned   = "Wallet not found or not owned by you"
	msgWalletSaved      = "Wallet already saved"
	msgChainNotFound    = "Chain not found"
	msgTokenNotFound    = "Token not found"
	msgWalletNotFound   = "Wallet not found"
	msgNoPublicID       = "No public_id provided"
	msgUnsupportedImage = "Only image uploads are supported"
)

// Response is the envelope every /api route answers with.
type Response struct {
	Success bool               `json:"success"`
	Data    interface{}        `json:"data,omitempty"`
	Message string             `json:"message,omitempty"`
	Errors  []validators.Issue `json:"errors,omitempty"`
	ID      string             `json:"id,omitempty"`
}

func respondData(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Response{Success: true, Data: data})
}

func respondOK(c *fiber.Ctx) error {
	return c.JSON(Response{Success: true})
}

func respondCreated(c *fiber.Ctx, id string) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, ID: id})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

func respondValidation(c *fiber.Ctx, err *validators.ValidationError) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Response{
		Success: false,
		Message: msgInvalidRequest,
		Errors:  err.Issues,
	})
}

// respondServiceError maps service errors to status codes. notFound is the
// message used for services.ErrNotFound. Anything unrecognised is logged and
// answered with an opaque 500.
func respondServiceError(c *fiber.Ctx, err error, notFound string) error {
	var verr *validators.ValidationError
	switch {
	case errors.As(err, &verr):
		return respondValidation(c, verr)
	case errors.Is(err, services.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, services.ErrWalletNotOwned):
		return respondError(c, fiber.StatusForbidden, msgWalletNotOwned)
	case errors.Is(err, services.ErrNoFile):
		return respondError(c, fiber.StatusBadRequest, services.ErrNoFile.Error())
	case errors.Is(err, services.ErrUnsupportedFileType):
		return respondError(c, fiber.StatusBadRequest, msgUnsupportedImage)
	}

	logger.ErrorCtx(c.UserContext(), fmt.Errorf("request failed: %w", err),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()))
	return respondError(c, fiber.StatusInternalServerError, msgInternalError)
}

// parseRequest decodes the JSON body into req and validates it. A body that
// does not decode is reported as a validation failure.
func parseRequest(c *fiber.Ctx, req interface{}) error {
	if err := c.App().Config().JSONDecoder(c.Body(), req); err != nil {
		return decodeError(err)
	}
	if nn, ok := req.(validators.NonNullable); ok {
		if err := validators.RejectNull(c.Body(), nn.NonNullFields()...); err != nil {
			return err
		}
	}
	return validators.Validate(req)
}

func decodeError(err error) *validators.ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := []interface{}{}
		if typeErr.Field != "" {
			for _, segment := range strings.Split(typeErr.Field, ".") {
				path = append(path, segment)
			}
		}
		return validators.NewValidationError("invalid_type",
			fmt.Sprintf("Expected %s, received %s", typeErr.Type.Kind(), typeErr.Value), path...)
	}
	return validators.NewValidationError("invalid_type", "Request body must be a JSON object")
}

// errorHandler answers errors returned by handlers, including panics caught
// by the recover middleware, with the envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return respondError(c, fe.Code, fe.Message)
	}
	logger.ErrorCtx(c.UserContext(), fmt.Errorf("unhandled error: %w", err),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()))
	return respondError(c, fiber.StatusInternalServerError, msgInternalError)
}
