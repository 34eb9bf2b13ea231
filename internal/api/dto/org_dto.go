package dto

import (
	"time"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
)

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// UpdateDepartmentRequest payload. ParentID set to the empty string
// detaches the department from its parent.
type UpdateDepartmentRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
	IsActive    *bool   `json:"is_active"`
}

// DepartmentResponse view.
type DepartmentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `json:"parent_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=120"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// UpdateCategoryRequest payload.
type UpdateCategoryRequest struct {
	Name         string `json:"name"`
	DepartmentID string `json:"department_id"`
	IsActive     *bool  `json:"is_active"`
}

// CategoryResponse view.
type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DepartmentID string    `json:"department_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewDepartmentResponse projects a domain department.
func NewDepartmentResponse(dept *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          dept.ID,
		Name:        dept.Name,
		Description: dept.Description,
		ParentID:    dept.ParentID,
		IsActive:    dept.IsActive,
		CreatedAt:   dept.CreatedAt,
		UpdatedAt:   dept.UpdatedAt,
	}
}

// NewCategoryResponse projects a domain category.
func NewCategoryResponse(cat *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:           cat.ID,
		Name:         cat.Name,
		DepartmentID: cat.DepartmentID,
		IsActive:     cat.IsActive,
		CreatedAt:    cat.CreatedAt,
		UpdatedAt:    cat.UpdatedAt,
	}
}
