package domain

import "time"

// Department represents an organizational unit. Departments form a tree
// through ParentID; the tree must stay acyclic.
type Department struct {
	ID          string
	Name        string
	Description string
	ParentID    *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
