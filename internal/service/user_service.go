package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/auth"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/policy"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/repository"
	apperrors "github.com/satyamkumarjha2002/help-desk-portal/pkg/util"
)

// UserService manages accounts beyond self-service registration: staff
// provisioning, role grants, department moves and deactivation.
type UserService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	bcryptCost  int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, departments repository.DepartmentRepository, bcryptCost int) *UserService {
	return &UserService{users: users, departments: departments, bcryptCost: bcryptCost}
}

// UserCreateInput carries admin-side account creation fields.
type UserCreateInput struct {
	Name         string
	Email        string
	Password     string
	Role         domain.Role
	DepartmentID *string
}

// UserUpdateInput carries mutable account fields. Nil means unchanged;
// for DepartmentID an empty string clears the assignment.
type UserUpdateInput struct {
	Name         *string
	Role         *domain.Role
	DepartmentID *string
	Active       *bool
}

// CreateUser provisions an account with an explicit role. Role grants
// follow the same rule as updates: only SUPER_ADMIN mints super roles.
func (s *UserService) CreateUser(ctx context.Context, actor *domain.User, input UserCreateInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	if d := policy.CanManageUser(policy.ActorFromUser(actor), domain.RoleEndUser, input.Role); !d.Allowed {
		return nil, apperrors.NewPolicyDenied(string(d.Reason))
	}
	if err := s.validateDepartmentForRole(ctx, input.Role, input.DepartmentID); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		DepartmentID: input.DepartmentID,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateUser mutates role, department, name or active flag.
func (s *UserService) UpdateUser(ctx context.Context, actor *domain.User, userID string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	newRole := user.Role
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		newRole = *input.Role
	}
	// Checked before the role-rank policy so that an admin deactivating
	// themself gets the conflict, not a rank denial.
	if actor.ID == user.ID && input.Active != nil && !*input.Active {
		return nil, apperrors.NewConflict("cannot deactivate own account", nil)
	}
	if d := policy.CanManageUser(policy.ActorFromUser(actor), user.Role, newRole); !d.Allowed {
		return nil, apperrors.NewPolicyDenied(string(d.Reason))
	}

	newDepartment := user.DepartmentID
	if input.DepartmentID != nil {
		if *input.DepartmentID == "" {
			newDepartment = nil
		} else {
			if _, err := s.loadDepartment(ctx, *input.DepartmentID); err != nil {
				return nil, err
			}
			newDepartment = input.DepartmentID
		}
	}
	if err := s.validateDepartmentForRole(ctx, newRole, newDepartment); err != nil {
		return nil, err
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		user.Name = strings.TrimSpace(*input.Name)
	}
	user.Role = newRole
	user.DepartmentID = newDepartment
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeactivateUser disables an account. Existing tokens die at the auth
// middleware, which rejects inactive users on every request.
func (s *UserService) DeactivateUser(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	inactive := false
	return s.UpdateUser(ctx, actor, userID, UserUpdateInput{Active: &inactive})
}

// GetUser fetches an account. Non-staff may only read themselves.
func (s *UserService) GetUser(ctx context.Context, actor *domain.User, userID string) (*domain.User, error) {
	if actor.ID != userID && !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("cannot read other accounts")
	}
	return s.loadUser(ctx, userID)
}

// ListUsers lists accounts for staff. Department-scoped roles only see
// their own department's roster.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User, filter repository.UserFilter) ([]domain.User, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if !actor.Role.IsSuper() {
		if actor.DepartmentID == nil {
			return []domain.User{}, nil
		}
		filter.DepartmentID = actor.DepartmentID
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// validateDepartmentForRole enforces that department-bound roles carry a
// department and that it exists and is active.
func (s *UserService) validateDepartmentForRole(ctx context.Context, role domain.Role, departmentID *string) error {
	needsDepartment := role == domain.RoleAgent || role.IsDepartmentScoped()
	if needsDepartment && departmentID == nil {
		return apperrors.NewValidationError("role requires a department", map[string]any{"role": role})
	}
	if departmentID == nil {
		return nil
	}
	dept, err := s.loadDepartment(ctx, *departmentID)
	if err != nil {
		return err
	}
	if !dept.IsActive {
		return apperrors.NewConflict("department inactive", map[string]any{"department_id": dept.ID})
	}
	return nil
}

func (s *UserService) loadUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *UserService) loadDepartment(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}
