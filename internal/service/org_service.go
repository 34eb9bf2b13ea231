package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/policy"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/repository"
	apperrors "github.com/satyamkumarjha2002/help-desk-portal/pkg/util"
)

// OrgService manages the department tree and ticket categories.
type OrgService struct {
	departments repository.DepartmentRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
	tickets     repository.TicketRepository
}

// NewOrgService constructs the service.
func NewOrgService(
	departments repository.DepartmentRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	tickets repository.TicketRepository,
) *OrgService {
	return &OrgService{
		departments: departments,
		categories:  categories,
		users:       users,
		tickets:     tickets,
	}
}

// DepartmentInput carries create/update fields for a department.
type DepartmentInput struct {
	Name        string
	Description string
	ParentID    *string
	IsActive    *bool
}

// CreateDepartment adds a department, optionally under a parent.
func (s *OrgService) CreateDepartment(ctx context.Context, actor *domain.User, input DepartmentInput) (*domain.Department, error) {
	if d := policy.CanManageTaxonomy(policy.ActorFromUser(actor), policy.TaxonomyCreate); !d.Allowed {
		return nil, apperrors.NewPolicyDenied(string(d.Reason))
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.ParentID != nil {
		if _, err := s.loadDepartment(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	dept := &domain.Department{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		ParentID:    input.ParentID,
		IsActive:    true,
	}
	if input.IsActive != nil {
		dept.IsActive = *input.IsActive
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment edits a department. Re-parenting is checked against
// the ancestor chain so the tree stays acyclic.
func (s *OrgService) UpdateDepartment(ctx context.Context, actor *domain.User, id string, input DepartmentInput) (*domain.Department, error) {
	if d := policy.CanManageTaxonomy(policy.ActorFromUser(actor), policy.TaxonomyUpdate); !d.Allowed {
		return nil, apperrors.NewPolicyDenied(string(d.Reason))
	}
	dept, err := s.loadDepartment(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		dept.Name = name
	}
	if input.Description != "" {
		dept.Description = strings.TrimSpace(input.Description)
	}
	if input.ParentID != nil {
		if *input.ParentID == "" {
			dept.ParentID = nil
		} else {
			if err := s.ensureAcyclic(ctx, dept.ID, *input.ParentID); err != nil {
				return nil, err
			}
			dept.ParentID = input.ParentID
		}
	}
	if input.IsActive != nil {
		dept.IsActive = *input.IsActive
	}

	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// DeleteDepartment removes a department once nothing depends on it:
// no active sub-departments, no active members, no in-flight tickets.
func (s *OrgService) DeleteDepartment(ctx context.Context, actor *domain.User, id string) error {
	if d := policy.CanManageTaxonomy(policy.ActorFromUser(actor), policy.TaxonomyDelete); !d.Allowed {
		return apperrors.NewPolicyDenied(string(d.Reason))
	}
	if _, err := s.loadDepartment(ctx, id); err != nil {
		return err
	}

	children, err := s.departments.CountActiveChildren(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if children > 0 {
		return apperrors.NewConflict("department has active sub-departments", map[string]any{"count": children})
	}
	members, err := s.users.CountActiveByDepartment(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if members > 0 {
		return apperrors.NewConflict("department has active members", map[string]any{"count": members})
	}
	open, err := s.tickets.CountOpenByDepartment(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if open > 0 {
		return apperrors.NewConflict("department has open tickets", map[string]any{"count": open})
	}

	return apperrors.MapError(s.departments.Delete(ctx, id))
}

// GetDepartment fetches one department.
func (s *OrgService) GetDepartment(ctx context.Context, id string) (*domain.Department, error) {
	return s.loadDepartment(ctx, id)
}

// ListDepartments lists departments; staff may include inactive ones.
func (s *OrgService) ListDepartments(ctx context.Context, actor *domain.User, includeInactive bool) ([]domain.Department, error) {
	if includeInactive && !actor.Role.IsStaff() {
		includeInactive = false
	}
	depts, err := s.departments.List(ctx, includeInactive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return depts, nil
}

// CategoryInput carries create/update fields for a category.
type CategoryInput struct {
	Name         string
	DepartmentID string
	IsActive     *bool
}

// CreateCategory adds a category under a department.
func (s *OrgService) CreateCategory(ctx context.Context, actor *domain.User, input CategoryInput) (*domain.Category, error) {
	if d := policy.CanManageTaxonomy(policy.ActorFromUser(actor), policy.TaxonomyCreate); !d.Allowed {
		return nil, apperrors.NewPolicyDenied(string(d.Reason))
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if _, err := s.loadDepartment(ctx, input.DepartmentID); err != nil {
		return nil, err
	}

	cat := &domain.Category{
		Name:         name,
		DepartmentID: input.DepartmentID,
		IsActive:     true,
	}
	if input.IsActive != nil {
		cat.IsActive = *input.IsActive
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, apperrors.MapError(err)
	}
	return cat, nil
}

// UpdateCategory edits a category.
func (s *OrgService) UpdateCategory(ctx context.Context, actor *domain.User, id string, input CategoryInput) (*domain.Category, error) {
	if d := policy.CanManageTaxonomy(policy.ActorFromUser(actor), policy.TaxonomyUpdate); !d.Allowed {
		return nil, apperrors.NewPolicyDenied(string(d.Reason))
	}
	cat, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		cat.Name = name
	}
	if input.DepartmentID != "" && input.DepartmentID != cat.DepartmentID {
		if _, err := s.loadDepartment(ctx, input.DepartmentID); err != nil {
			return nil, err
		}
		cat.DepartmentID = input.DepartmentID
	}
	if input.IsActive != nil {
		cat.IsActive = *input.IsActive
	}

	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, apperrors.MapError(err)
	}
	return cat, nil
}

// DeleteCategory removes a category unless in-flight tickets still use it.
func (s *OrgService) DeleteCategory(ctx context.Context, actor *domain.User, id string) error {
	if d := policy.CanManageTaxonomy(policy.ActorFromUser(actor), policy.TaxonomyDelete); !d.Allowed {
		return apperrors.NewPolicyDenied(string(d.Reason))
	}
	if _, err := s.loadCategory(ctx, id); err != nil {
		return err
	}

	open, err := s.tickets.CountOpenByCategory(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if open > 0 {
		return apperrors.NewConflict("category has open tickets", map[string]any{"count": open})
	}

	return apperrors.MapError(s.categories.Delete(ctx, id))
}

// ListCategories lists a department's categories.
func (s *OrgService) ListCategories(ctx context.Context, actor *domain.User, departmentID string, includeInactive bool) ([]domain.Category, error) {
	if includeInactive && !actor.Role.IsStaff() {
		includeInactive = false
	}
	if _, err := s.loadDepartment(ctx, departmentID); err != nil {
		return nil, err
	}
	cats, err := s.categories.ListByDepartment(ctx, departmentID, includeInactive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cats, nil
}

// ensureAcyclic rejects a parent assignment that would create a cycle:
// the proposed parent must not be the department itself or any of its
// descendants, which is equivalent to the department not appearing on
// the parent's ancestor chain.
func (s *OrgService) ensureAcyclic(ctx context.Context, deptID, parentID string) error {
	if deptID == parentID {
		return apperrors.NewValidationError("department cannot be its own parent", nil)
	}
	current := parentID
	visited := map[string]struct{}{}
	for {
		if _, seen := visited[current]; seen {
			return apperrors.NewConflict("department hierarchy already contains a cycle", nil)
		}
		visited[current] = struct{}{}

		node, err := s.loadDepartment(ctx, current)
		if err != nil {
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		if *node.ParentID == deptID {
			return apperrors.NewValidationError("parent assignment would create a cycle", nil)
		}
		current = *node.ParentID
	}
}

func (s *OrgService) loadDepartment(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

func (s *OrgService) loadCategory(ctx context.Context, id string) (*domain.Category, error) {
	cat, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return cat, nil
}
