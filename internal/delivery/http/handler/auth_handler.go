package handler

import (
	"errors"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"
	ucauth "skill-swap/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type devTokenRequest struct {
	Subject   string `json:"subject"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ImageURL  string `json:"image_url"`
}

type bootstrapAdminRequest struct {
	SetupKey string `json:"setup_key"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// RegisterRoutes mounts /dev-token publicly and /sync behind requireToken.
func (h *AuthHandler) RegisterRoutes(r fiber.Router, requireToken fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/dev-token", h.DevToken)
	if requireToken != nil {
		r.Post("/sync", requireToken, h.Sync)
	} else {
		r.Post("/sync", h.Sync)
	}
}

// RegisterBootstrapRoutes expects a router that already resolved the caller.
func (h *AuthHandler) RegisterBootstrapRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/bootstrap", h.Bootstrap)
}

func (h *AuthHandler) Sync(c fiber.Ctx) error {
	usr, created, err := h.uc.Sync(c.Context(), middleware.ClaimsFrom(c))
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return response.Success(c, status, "", dto.AuthSyncResponse{User: toProfileResponse(usr), Created: created})
}

func (h *AuthHandler) DevToken(c fiber.Ctx) error {
	var req devTokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	tok, err := h.uc.IssueDevToken(c.Context(), req.Subject, jwt.Profile{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	data := map[string]any{
		"access_token": tok,
		"token_type":   "Bearer",
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *AuthHandler) Bootstrap(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req bootstrapAdminRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.BootstrapAdmin(c.Context(), userID, req.SetupKey); err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"is_admin": true})
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrDevTokenDisabled), errors.Is(err, usecase.ErrBootstrapDisabled):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	case errors.Is(err, usecase.ErrInvalidSetupKey):
		return middleware.NewAppError(fiber.StatusForbidden, "Invalid setup key", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, ucauth.ErrInternal):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
