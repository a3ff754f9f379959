package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/memberops/memberops-api/internal/api/dto"
	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/service"
)

// MembersHandler exposes member search, detail and lifecycle endpoints.
type MembersHandler struct {
	members *service.MemberService
}

// NewMembersHandler constructs handler.
func NewMembersHandler(members *service.MemberService) *MembersHandler {
	return &MembersHandler{members: members}
}

// List GET /api/members?search=&status=.
func (h *MembersHandler) List(c *fiber.Ctx) error {
	filter := service.MemberFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status := domain.MemberStatus(raw)
		filter.Status = &status
	}

	members, err := h.members.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.MemberResponse, 0, len(members))
	for i := range members {
		items = append(items, memberResponse(&members[i]))
	}
	return c.JSON(items)
}

// Get GET /api/members/:id.
func (h *MembersHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	member, err := h.members.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(memberResponse(member))
}

// Lock PUT /api/members/:id/lock.
func (h *MembersHandler) Lock(c *fiber.Ctx) error {
	return h.transition(c, h.members.Lock)
}

// Unlock PUT /api/members/:id/unlock.
func (h *MembersHandler) Unlock(c *fiber.Ctx) error {
	return h.transition(c, h.members.Unlock)
}

func (h *MembersHandler) transition(c *fiber.Ctx, apply func(ctx context.Context, actor domain.Actor, id int64) (*domain.Member, error)) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	member, err := apply(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(memberResponse(member))
}

// UpdateNotes PUT /api/members/:id/notes.
func (h *MembersHandler) UpdateNotes(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateNotesRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}

	member, err := h.members.UpdateNotes(c.UserContext(), actor, id, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(memberResponse(member))
}
