package handler

import (
	"context"
	"errors"
	"time"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/metrics"
	"skill-swap/internal/pkg/identity"
	"skill-swap/internal/pkg/response"
	ucswap "skill-swap/internal/usecase/swap"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type SwapManager interface {
	CreateSwapRequest(ctx context.Context, caller identity.Caller, in ucswap.CreateInput) (swap.Detail, error)
	TransitionSwapRequest(ctx context.Context, caller identity.Caller, requestID uuid.UUID, to swap.Status) (swap.Detail, error)
	DeleteSwapRequest(ctx context.Context, caller identity.Caller, requestID uuid.UUID) error
	ListSwapRequestsForUser(ctx context.Context, caller identity.Caller) ([]swap.Detail, error)
	GetSwapRequest(ctx context.Context, caller identity.Caller, requestID uuid.UUID) (swap.Detail, error)
	LeaveFeedback(ctx context.Context, caller identity.Caller, requestID uuid.UUID, in ucswap.FeedbackInput) (swap.Feedback, error)
}

type SwapHandler struct {
	mgr     SwapManager
	metrics metrics.Recorder

	// createLimit guards POST /swaps only.
	createLimit fiber.Handler
}

type createSwapRequest struct {
	ProviderID       uuid.UUID  `json:"provider_id"`
	RequesterSkillID uuid.UUID  `json:"requester_skill_id"`
	ProviderSkillID  uuid.UUID  `json:"provider_skill_id"`
	Message          *string    `json:"message"`
	ProposedTime     *time.Time `json:"proposed_time"`
	DurationHours    *float64   `json:"duration_hours"`
}

type updateSwapStatusRequest struct {
	Status string `json:"status"`
}

type leaveFeedbackRequest struct {
	Rating   int     `json:"rating"`
	Comment  *string `json:"comment"`
	IsPublic *bool   `json:"is_public"`
}

func NewSwapHandler(mgr SwapManager, rec metrics.Recorder, createLimit fiber.Handler) *SwapHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &SwapHandler{mgr: mgr, metrics: rec, createLimit: createLimit}
}

func (h *SwapHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/swaps")
	grp.Get("/", h.List)
	if h.createLimit != nil {
		grp.Post("/", h.createLimit, h.Create)
	} else {
		grp.Post("/", h.Create)
	}
	grp.Get("/:id", h.Get)
	grp.Patch("/:id", h.UpdateStatus)
	grp.Delete("/:id", h.Delete)
	grp.Post("/:id/feedback", h.Feedback)
}

func (h *SwapHandler) List(c fiber.Ctx) error {
	items, err := h.mgr.ListSwapRequestsForUser(c.Context(), middleware.CallerFrom(c))
	h.observe("list", err)
	if err != nil {
		return mapSwapError(err)
	}

	res := make([]dto.SwapRequestResponse, 0, len(items))
	for _, it := range items {
		res = append(res, toSwapResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *SwapHandler) Create(c fiber.Ctx) error {
	var req createSwapRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.mgr.CreateSwapRequest(c.Context(), middleware.CallerFrom(c), ucswap.CreateInput{
		ProviderID:       req.ProviderID,
		RequesterSkillID: req.RequesterSkillID,
		ProviderSkillID:  req.ProviderSkillID,
		Message:          req.Message,
		ProposedTime:     req.ProposedTime,
		DurationHours:    req.DurationHours,
	})
	h.observe("create", err)
	if err != nil {
		return mapSwapError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, toSwapResponse(created))
}

func (h *SwapHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid swap request id", nil, err)
	}

	detail, err := h.mgr.GetSwapRequest(c.Context(), middleware.CallerFrom(c), id)
	h.observe("get", err)
	if err != nil {
		return mapSwapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toSwapResponse(detail))
}

func (h *SwapHandler) UpdateStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid swap request id", nil, err)
	}

	var req updateSwapStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	to, ok := swap.ParseStatus(req.Status)
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status", nil, nil)
	}

	detail, err := h.mgr.TransitionSwapRequest(c.Context(), middleware.CallerFrom(c), id, to)
	h.observe("transition", err)
	if err != nil {
		return mapSwapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toSwapResponse(detail))
}

func (h *SwapHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid swap request id", nil, err)
	}

	err = h.mgr.DeleteSwapRequest(c.Context(), middleware.CallerFrom(c), id)
	h.observe("delete", err)
	if err != nil {
		return mapSwapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *SwapHandler) Feedback(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid swap request id", nil, err)
	}

	var req leaveFeedbackRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	fb, err := h.mgr.LeaveFeedback(c.Context(), middleware.CallerFrom(c), id, ucswap.FeedbackInput{
		Rating:   req.Rating,
		Comment:  req.Comment,
		IsPublic: isPublic,
	})
	h.observe("feedback", err)
	if err != nil {
		return mapSwapError(err)
	}

	res := dto.SwapFeedbackResponse{
		ID:            fb.ID,
		SwapRequestID: fb.SwapRequestID,
		ReviewerID:    fb.ReviewerID,
		RevieweeID:    fb.RevieweeID,
		Rating:        fb.Rating,
		Comment:       fb.Comment,
		IsPublic:      fb.IsPublic,
		CreatedAt:     fb.CreatedAt,
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, res)
}

func toSwapResponse(d swap.Detail) dto.SwapRequestResponse {
	return dto.SwapRequestResponse{
		ID:             d.ID,
		Status:         string(d.Status),
		Message:        d.Message,
		ProposedTime:   d.ProposedTime,
		DurationHours:  d.DurationHours,
		Requester:      toSwapParty(d.Requester),
		Provider:       toSwapParty(d.Provider),
		RequesterSkill: toSwapSkill(d.RequesterSkill),
		ProviderSkill:  toSwapSkill(d.ProviderSkill),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func toSwapParty(p swap.Party) dto.SwapPartyResponse {
	return dto.SwapPartyResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		ImageURL:  p.ImageURL,
	}
}

func toSwapSkill(l swap.ListingRef) dto.SwapSkillResponse {
	return dto.SwapSkillResponse{
		ID:               l.ID,
		SkillID:          l.SkillID,
		SkillName:        l.SkillName,
		SkillCategory:    l.SkillCategory,
		ProficiencyLevel: l.ProficiencyLevel,
	}
}

func (h *SwapHandler) observe(op string, err error) {
	h.metrics.RecordSwapOutcome(op, swapOutcome(err))
}

func swapOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, swap.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, swap.ErrForbidden):
		return "forbidden"
	case errors.Is(err, swap.ErrNotFound):
		return "not_found"
	case errors.Is(err, swap.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, swap.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, swap.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

func mapSwapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, swap.ErrUnauthenticated):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, swap.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, swap.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Swap request not found", nil, err)
	case errors.Is(err, swap.ErrInvalidArgument):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, swap.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, "Invalid status transition", nil, err)
	case errors.Is(err, swap.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Conflict", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
