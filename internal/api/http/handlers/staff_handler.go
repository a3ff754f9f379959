package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/memberops/memberops-api/internal/api/dto"
	"github.com/memberops/memberops-api/internal/service"
)

// StaffHandler exposes the staff directory.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List GET /api/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	staff, err := h.staff.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		items = append(items, *staffResponse(&staff[i]))
	}
	return c.JSON(items)
}

// Get GET /api/staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	staff, err := h.staff.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(staffResponse(staff))
}
