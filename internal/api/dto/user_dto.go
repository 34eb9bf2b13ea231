package dto

// CreateUserRequest is the admin-side account creation payload.
type CreateUserRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=120"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8,max=72"`
	Role         string  `json:"role" validate:"required"`
	DepartmentID *string `json:"department_id"`
}

// UpdateUserRequest mutates account fields; nil means unchanged. A
// department_id of "" clears the assignment.
type UpdateUserRequest struct {
	Name         *string `json:"name"`
	Role         *string `json:"role"`
	DepartmentID *string `json:"department_id"`
	Active       *bool   `json:"active"`
}
