package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/memberops/memberops-api/internal/api/dto"
	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/service"
)

// AuditLogHandler exposes the audit trail query.
type AuditLogHandler struct {
	audit *service.AuditService
}

// NewAuditLogHandler constructs handler.
func NewAuditLogHandler(audit *service.AuditService) *AuditLogHandler {
	return &AuditLogHandler{audit: audit}
}

// List GET /api/audit-log?startDate=&endDate=&memberId=&action=&actor=.
func (h *AuditLogHandler) List(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	q := service.AuditQuery{Actor: c.Query("actor")}
	if q.StartDate, err = optionalDateQuery(c, "startDate"); err != nil {
		return err
	}
	if q.EndDate, err = optionalDateQuery(c, "endDate"); err != nil {
		return err
	}
	if q.MemberID, err = optionalInt64Query(c, "memberId"); err != nil {
		return err
	}
	if raw := c.Query("action"); raw != "" {
		action := domain.AuditAction(raw)
		q.Action = &action
	}

	entries, err := h.audit.Query(c.UserContext(), actor, q)
	if err != nil {
		return err
	}
	items := make([]dto.AuditLogResponse, 0, len(entries))
	for i := range entries {
		items = append(items, auditLogResponse(&entries[i]))
	}
	return c.JSON(items)
}
