package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/repository"
)

func newUserServiceFixture(t *testing.T) (*UserService, *fakeUserRepo, *fakeDepartmentRepo) {
	t.Helper()
	departments := newFakeDepartmentRepo(
		&domain.Department{ID: "dept-support", Name: "Support", IsActive: true},
		&domain.Department{ID: "dept-retired", Name: "Retired", IsActive: false},
	)
	users := newFakeUserRepo()
	return NewUserService(users, departments, 4), users, departments
}

func TestCreateUserRoleGrants(t *testing.T) {
	svc, _, _ := newUserServiceFixture(t)
	admin := &domain.User{ID: "admin", Role: domain.RoleAdmin, Active: true}
	superAdmin := &domain.User{ID: "root", Role: domain.RoleSuperAdmin, Active: true}
	deptID := "dept-support"

	// ADMIN cannot mint another ADMIN.
	_, err := svc.CreateUser(context.Background(), admin, UserCreateInput{
		Name: "Eve", Email: "eve@example.com", Password: "secret-pass", Role: domain.RoleAdmin,
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))

	// but may mint an agent with a department.
	agent, err := svc.CreateUser(context.Background(), admin, UserCreateInput{
		Name: "Arun", Email: "arun@example.com", Password: "secret-pass",
		Role: domain.RoleAgent, DepartmentID: &deptID,
	})
	require.NoError(t, err)
	assert.True(t, agent.Active)

	// SUPER_ADMIN may mint anyone.
	_, err = svc.CreateUser(context.Background(), superAdmin, UserCreateInput{
		Name: "Ada", Email: "ada@example.com", Password: "secret-pass", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
}

func TestCreateUserDepartmentRules(t *testing.T) {
	svc, _, _ := newUserServiceFixture(t)
	admin := &domain.User{ID: "admin", Role: domain.RoleAdmin, Active: true}
	retired := "dept-retired"

	// Department-bound roles need a department.
	_, err := svc.CreateUser(context.Background(), admin, UserCreateInput{
		Name: "Lena", Email: "lena@example.com", Password: "secret-pass", Role: domain.RoleTeamLead,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	// Inactive departments are rejected.
	_, err = svc.CreateUser(context.Background(), admin, UserCreateInput{
		Name: "Lena", Email: "lena@example.com", Password: "secret-pass",
		Role: domain.RoleTeamLead, DepartmentID: &retired,
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestUpdateUserAdminCannotTouchSuperAccounts(t *testing.T) {
	svc, users, _ := newUserServiceFixture(t)
	admin := &domain.User{ID: "admin", Role: domain.RoleAdmin, Active: true}
	root := &domain.User{ID: "root", Role: domain.RoleSuperAdmin, Active: true, Email: "root@example.com"}
	users.users[root.ID] = root

	inactive := false
	_, err := svc.UpdateUser(context.Background(), admin, root.ID, UserUpdateInput{Active: &inactive})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestUpdateUserCannotDeactivateSelf(t *testing.T) {
	svc, users, _ := newUserServiceFixture(t)
	admin := &domain.User{ID: "admin", Role: domain.RoleAdmin, Active: true, Email: "admin@example.com"}
	users.users[admin.ID] = admin

	_, err := svc.DeactivateUser(context.Background(), admin, admin.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestDeactivateUserClearsAccess(t *testing.T) {
	svc, users, _ := newUserServiceFixture(t)
	superAdmin := &domain.User{ID: "root", Role: domain.RoleSuperAdmin, Active: true}
	deptID := "dept-support"
	agent := &domain.User{ID: "agent", Role: domain.RoleAgent, DepartmentID: &deptID, Active: true, Email: "a@example.com"}
	users.users[agent.ID] = agent

	updated, err := svc.DeactivateUser(context.Background(), superAdmin, agent.ID)
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestListUsersDepartmentScoped(t *testing.T) {
	svc, users, _ := newUserServiceFixture(t)
	deptID := "dept-support"
	otherID := "dept-other"
	manager := &domain.User{ID: "manager", Role: domain.RoleManager, DepartmentID: &deptID, Active: true}
	users.users[manager.ID] = manager
	users.users["a1"] = &domain.User{ID: "a1", Role: domain.RoleAgent, DepartmentID: &deptID, Active: true}
	users.users["a2"] = &domain.User{ID: "a2", Role: domain.RoleAgent, DepartmentID: &otherID, Active: true}

	list, err := svc.ListUsers(context.Background(), manager, repository.UserFilter{})
	require.NoError(t, err)
	for _, user := range list {
		require.NotNil(t, user.DepartmentID)
		assert.Equal(t, deptID, *user.DepartmentID)
	}
}
