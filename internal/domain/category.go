package domain

import "time"

// Category classifies tickets within a department.
type Category struct {
	ID           string
	Name         string
	DepartmentID string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
