package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
)

type orgFixture struct {
	service     *OrgService
	departments *fakeDepartmentRepo
	categories  *fakeCategoryRepo
	users       *fakeUserRepo
	tickets     *fakeTicketRepo

	superAdmin *domain.User
	admin      *domain.User
	manager    *domain.User
}

func newOrgFixture(t *testing.T) *orgFixture {
	t.Helper()
	departments := newFakeDepartmentRepo()
	categories := newFakeCategoryRepo()
	deptID := "dept-support"
	users := newFakeUserRepo(
		&domain.User{ID: "root", Role: domain.RoleSuperAdmin, Active: true},
		&domain.User{ID: "admin", Role: domain.RoleAdmin, Active: true},
		&domain.User{ID: "manager", Role: domain.RoleManager, DepartmentID: &deptID, Active: true},
	)
	tickets := newFakeTicketRepo()

	return &orgFixture{
		service:     NewOrgService(departments, categories, users, tickets),
		departments: departments,
		categories:  categories,
		users:       users,
		tickets:     tickets,
		superAdmin:  &domain.User{ID: "root", Role: domain.RoleSuperAdmin, Active: true},
		admin:       &domain.User{ID: "admin", Role: domain.RoleAdmin, Active: true},
		manager:     &domain.User{ID: "manager", Role: domain.RoleManager, DepartmentID: &deptID, Active: true},
	}
}

func TestCreateDepartmentRequiresAdmin(t *testing.T) {
	f := newOrgFixture(t)

	_, err := f.service.CreateDepartment(context.Background(), f.manager, DepartmentInput{Name: "Ops"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	dept, err := f.service.CreateDepartment(context.Background(), f.admin, DepartmentInput{Name: "Ops"})
	require.NoError(t, err)
	assert.True(t, dept.IsActive)
}

func TestUpdateDepartmentRejectsCycle(t *testing.T) {
	f := newOrgFixture(t)

	root, err := f.service.CreateDepartment(context.Background(), f.admin, DepartmentInput{Name: "Root"})
	require.NoError(t, err)
	child, err := f.service.CreateDepartment(context.Background(), f.admin, DepartmentInput{Name: "Child", ParentID: &root.ID})
	require.NoError(t, err)
	grandchild, err := f.service.CreateDepartment(context.Background(), f.admin, DepartmentInput{Name: "Grandchild", ParentID: &child.ID})
	require.NoError(t, err)

	// Root under its own grandchild would close the loop.
	_, err = f.service.UpdateDepartment(context.Background(), f.admin, root.ID, DepartmentInput{ParentID: &grandchild.ID})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	// Self-parenting is rejected outright.
	_, err = f.service.UpdateDepartment(context.Background(), f.admin, root.ID, DepartmentInput{ParentID: &root.ID})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	// Moving the grandchild directly under root stays legal.
	moved, err := f.service.UpdateDepartment(context.Background(), f.admin, grandchild.ID, DepartmentInput{ParentID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, root.ID, *moved.ParentID)
}

func TestDeleteDepartmentGuards(t *testing.T) {
	f := newOrgFixture(t)

	parent, err := f.service.CreateDepartment(context.Background(), f.admin, DepartmentInput{Name: "Parent"})
	require.NoError(t, err)
	child, err := f.service.CreateDepartment(context.Background(), f.admin, DepartmentInput{Name: "Child", ParentID: &parent.ID})
	require.NoError(t, err)

	// Delete takes SUPER_ADMIN.
	err = f.service.DeleteDepartment(context.Background(), f.admin, child.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	// Active sub-department blocks the parent.
	err = f.service.DeleteDepartment(context.Background(), f.superAdmin, parent.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errCode(t, err))

	// Active member blocks the child.
	agent := &domain.User{ID: "agent", Role: domain.RoleAgent, DepartmentID: &child.ID, Active: true}
	f.users.users[agent.ID] = agent
	err = f.service.DeleteDepartment(context.Background(), f.superAdmin, child.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errCode(t, err))

	// Open ticket blocks once the member is gone.
	agent.Active = false
	require.NoError(t, f.tickets.Create(context.Background(), &domain.Ticket{
		DepartmentID: child.ID,
		Status:       domain.TicketStatusOpen,
		RequesterID:  "someone",
		CreatedByID:  "someone",
	}))
	err = f.service.DeleteDepartment(context.Background(), f.superAdmin, child.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errCode(t, err))

	// Clean child deletes fine.
	for id, ticket := range f.tickets.tickets {
		if ticket.DepartmentID == child.ID {
			delete(f.tickets.tickets, id)
		}
	}
	require.NoError(t, f.service.DeleteDepartment(context.Background(), f.superAdmin, child.ID))
	require.NoError(t, f.service.DeleteDepartment(context.Background(), f.superAdmin, parent.ID))
}

func TestDeleteCategoryBlockedByOpenTickets(t *testing.T) {
	f := newOrgFixture(t)

	dept, err := f.service.CreateDepartment(context.Background(), f.admin, DepartmentInput{Name: "Support"})
	require.NoError(t, err)
	cat, err := f.service.CreateCategory(context.Background(), f.admin, CategoryInput{Name: "Hardware", DepartmentID: dept.ID})
	require.NoError(t, err)

	require.NoError(t, f.tickets.Create(context.Background(), &domain.Ticket{
		DepartmentID: dept.ID,
		CategoryID:   &cat.ID,
		Status:       domain.TicketStatusPending,
		RequesterID:  "someone",
		CreatedByID:  "someone",
	}))

	err = f.service.DeleteCategory(context.Background(), f.superAdmin, cat.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errCode(t, err))

	// Resolving the ticket unblocks deletion.
	for _, ticket := range f.tickets.tickets {
		ticket.Status = domain.TicketStatusResolved
	}
	require.NoError(t, f.service.DeleteCategory(context.Background(), f.superAdmin, cat.ID))
}

func TestCategoryMustBelongToExistingDepartment(t *testing.T) {
	f := newOrgFixture(t)

	_, err := f.service.CreateCategory(context.Background(), f.admin, CategoryInput{Name: "Orphan", DepartmentID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}
