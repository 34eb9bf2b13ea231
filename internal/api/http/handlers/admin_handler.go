package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/api/dto"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/service"
	apperrors "github.com/satyamkumarjha2002/help-desk-portal/pkg/util"
)

// AdminHandler exposes bulk ticket operations.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{service: adminService}
}

// BulkStatus POST /admin/tickets/bulk/status.
func (h *AdminHandler) BulkStatus(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	status := domain.TicketStatus(req.Status)
	if !status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": req.Status})
	}

	result, err := h.service.BulkUpdateStatus(c.Context(), user, req.TicketIDs, status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// BulkAssign POST /admin/tickets/bulk/assign.
func (h *AdminHandler) BulkAssign(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.BulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.service.BulkAssign(c.Context(), user, req.TicketIDs, req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// BulkTransfer POST /admin/tickets/bulk/transfer.
func (h *AdminHandler) BulkTransfer(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.BulkTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.service.BulkTransferDepartment(c.Context(), user, req.TicketIDs, req.DepartmentID, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
