package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/memberops/memberops-api/internal/api/dto"
	"github.com/memberops/memberops-api/internal/service"
)

// FlagsHandler exposes account flag endpoints nested under a member.
type FlagsHandler struct {
	flags *service.FlagService
}

// NewFlagsHandler constructs handler.
func NewFlagsHandler(flags *service.FlagService) *FlagsHandler {
	return &FlagsHandler{flags: flags}
}

// List GET /api/members/:memberId/flags.
func (h *FlagsHandler) List(c *fiber.Ctx) error {
	memberID, err := idParam(c, "memberId")
	if err != nil {
		return err
	}
	flags, err := h.flags.ListForMember(c.UserContext(), memberID)
	if err != nil {
		return err
	}
	return c.JSON(flagResponses(flags))
}

// Create POST /api/members/:memberId/flags.
func (h *FlagsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	memberID, err := idParam(c, "memberId")
	if err != nil {
		return err
	}
	var req dto.CreateFlagRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	flag, err := h.flags.Create(c.UserContext(), actor, memberID, service.FlagCreateInput{
		FlagType:    req.FlagType,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(flagResponse(flag))
}

// Resolve PUT /api/members/:memberId/flags/:flagId/resolve.
func (h *FlagsHandler) Resolve(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	memberID, err := idParam(c, "memberId")
	if err != nil {
		return err
	}
	flagID, err := idParam(c, "flagId")
	if err != nil {
		return err
	}
	var req dto.ResolveFlagRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}

	flag, err := h.flags.Resolve(c.UserContext(), actor, memberID, flagID, req.ResolutionNotes)
	if err != nil {
		return err
	}
	return c.JSON(flagResponse(flag))
}
