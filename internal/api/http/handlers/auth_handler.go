package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-engine/internal/api/dto"
	"github.com/spec-kit/sla-engine/internal/auth"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// AuthHandler issues access tokens for configured service clients.
type AuthHandler struct {
	clients *auth.ClientAuthenticator
	tokens  *auth.TokenManager
}

// NewAuthHandler returns a new handler instance.
func NewAuthHandler(clients *auth.ClientAuthenticator, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{clients: clients, tokens: tokens}
}

// Token exchanges client credentials for a bearer token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		return apperrors.NewValidationError("client_id and client_secret are required", nil)
	}

	if err := h.clients.Authenticate(req.ClientID, req.ClientSecret); err != nil {
		return err
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.ClientID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	return c.JSON(dto.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
