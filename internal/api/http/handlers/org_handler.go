package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/api/dto"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/service"
	apperrors "github.com/satyamkumarjha2002/help-desk-portal/pkg/util"
)

// OrgHandler exposes department and category management.
type OrgHandler struct {
	service *service.OrgService
}

// NewOrgHandler constructs the handler.
func NewOrgHandler(orgService *service.OrgService) *OrgHandler {
	return &OrgHandler{service: orgService}
}

// CreateDepartment POST /departments.
func (h *OrgHandler) CreateDepartment(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	dept, err := h.service.CreateDepartment(c.Context(), user, service.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// UpdateDepartment PATCH /departments/:id.
func (h *OrgHandler) UpdateDepartment(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	dept, err := h.service.UpdateDepartment(c.Context(), user, c.Params("id"), service.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// DeleteDepartment DELETE /departments/:id.
func (h *OrgHandler) DeleteDepartment(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteDepartment(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetDepartment GET /departments/:id.
func (h *OrgHandler) GetDepartment(c *fiber.Ctx) error {
	dept, err := h.service.GetDepartment(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept)})
}

// ListDepartments GET /departments.
func (h *OrgHandler) ListDepartments(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	depts, err := h.service.ListDepartments(c.Context(), user, c.QueryBool("include_inactive"))
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		items = append(items, dto.NewDepartmentResponse(&depts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateCategory POST /categories.
func (h *OrgHandler) CreateCategory(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	cat, err := h.service.CreateCategory(c.Context(), user, service.CategoryInput{
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(cat)})
}

// UpdateCategory PATCH /categories/:id.
func (h *OrgHandler) UpdateCategory(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	cat, err := h.service.UpdateCategory(c.Context(), user, c.Params("id"), service.CategoryInput{
		Name:         req.Name,
		DepartmentID: req.DepartmentID,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(cat)})
}

// DeleteCategory DELETE /categories/:id.
func (h *OrgHandler) DeleteCategory(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteCategory(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListCategories GET /departments/:id/categories.
func (h *OrgHandler) ListCategories(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	cats, err := h.service.ListCategories(c.Context(), user, c.Params("id"), c.QueryBool("include_inactive"))
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		items = append(items, dto.NewCategoryResponse(&cats[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
