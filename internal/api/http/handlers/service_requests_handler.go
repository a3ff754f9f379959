package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/memberops/memberops-api/internal/api/dto"
	"github.com/memberops/memberops-api/internal/domain"
	"github.com/memberops/memberops-api/internal/service"
	apperrors "github.com/memberops/memberops-api/pkg/util/errorutil"
)

// ServiceRequestsHandler exposes the service request lifecycle.
type ServiceRequestsHandler struct {
	requests *service.ServiceRequestService
}

// NewServiceRequestsHandler constructs handler.
func NewServiceRequestsHandler(requests *service.ServiceRequestService) *ServiceRequestsHandler {
	return &ServiceRequestsHandler{requests: requests}
}

// List GET /api/service-requests?status=&priority=&assignedToId=&memberId=.
func (h *ServiceRequestsHandler) List(c *fiber.Ctx) error {
	filter := service.ServiceRequestFilter{}
	if raw := c.Query("status"); raw != "" {
		status := domain.ServiceRequestStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := domain.ServiceRequestPriority(raw)
		filter.Priority = &priority
	}
	var err error
	if filter.AssignedToID, err = optionalInt64Query(c, "assignedToId"); err != nil {
		return err
	}
	if filter.MemberID, err = optionalInt64Query(c, "memberId"); err != nil {
		return err
	}

	requests, err := h.requests.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(serviceRequestResponses(requests))
}

// Get GET /api/service-requests/:id.
func (h *ServiceRequestsHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	sr, err := h.requests.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(serviceRequestResponse(sr))
}

// Create POST /api/service-requests.
func (h *ServiceRequestsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateServiceRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.MemberID <= 0 {
		return apperrors.NewValidationError("memberId is required", map[string]any{"field": "memberId"})
	}

	sr, err := h.requests.Create(c.UserContext(), actor, service.ServiceRequestCreateInput{
		MemberID:    req.MemberID,
		RequestType: req.RequestType,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(serviceRequestResponse(sr))
}

// Update PUT /api/service-requests/:id.
func (h *ServiceRequestsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateServiceRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sr, err := h.requests.Update(c.UserContext(), actor, id, service.ServiceRequestUpdateInput{
		RequestType: req.RequestType,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.JSON(serviceRequestResponse(sr))
}

// Assign PUT /api/service-requests/:id/assign.
func (h *ServiceRequestsHandler) Assign(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignServiceRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.AssignedToID <= 0 {
		return apperrors.NewValidationError("assignedToId is required", map[string]any{"field": "assignedToId"})
	}

	sr, err := h.requests.Assign(c.UserContext(), actor, id, req.AssignedToID)
	if err != nil {
		return err
	}
	return c.JSON(serviceRequestResponse(sr))
}

// UpdateStatus PUT /api/service-requests/:id/status.
func (h *ServiceRequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sr, err := h.requests.UpdateStatus(c.UserContext(), actor, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(serviceRequestResponse(sr))
}

// Resolve PUT /api/service-requests/:id/resolve.
func (h *ServiceRequestsHandler) Resolve(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ResolveServiceRequestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sr, err := h.requests.Resolve(c.UserContext(), actor, id, service.ServiceRequestResolveInput{
		ResolutionType:  req.ResolutionType,
		ResolutionNotes: req.ResolutionNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(serviceRequestResponse(sr))
}

// AddComment POST /api/service-requests/:id/comments.
func (h *ServiceRequestsHandler) AddComment(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AddCommentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	comment, err := h.requests.AddComment(c.UserContext(), actor, id, req.CommentText)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(commentResponse(comment))
}
