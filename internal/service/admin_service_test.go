package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/events"
)

type adminFixture struct {
	*ticketFixture
	admin *AdminService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	base := newTicketFixture(t, nil)
	departments := newFakeDepartmentRepo(
		&domain.Department{ID: base.deptID, Name: "Support", IsActive: true},
		&domain.Department{ID: base.otherDep, Name: "Billing", IsActive: true},
	)
	svc := NewAdminService(base.tickets, base.comments, departments, base.users, events.NewInMemoryDispatcher(), zap.NewNop())
	return &adminFixture{ticketFixture: base, admin: svc}
}

func TestBulkUpdateStatusEmptyBatch(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.admin.BulkUpdateStatus(context.Background(), f.ticketFixture.admin, nil, domain.TicketStatusCancelled, "")
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", errCode(t, err))
}

func TestBulkUpdateStatusMissingIDFailsWholeBatch(t *testing.T) {
	f := newAdminFixture(t)
	ticket := f.createTicket(t)

	_, err := f.admin.BulkUpdateStatus(context.Background(), f.ticketFixture.admin,
		[]string{ticket.ID, "ghost"}, domain.TicketStatusCancelled, "")
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", errCode(t, err))

	// The existing ticket must not have been touched.
	current, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, current.Status)
}

func TestBulkUpdateStatusPartialFailures(t *testing.T) {
	f := newAdminFixture(t)
	open := f.createTicket(t)
	cancelled := f.createTicket(t)
	_, err := f.admin.BulkUpdateStatus(context.Background(), f.ticketFixture.admin,
		[]string{cancelled.ID}, domain.TicketStatusCancelled, "dup")
	require.NoError(t, err)

	// CANCELLED is terminal, so the second ticket fails while the first
	// succeeds.
	result, err := f.admin.BulkUpdateStatus(context.Background(), f.ticketFixture.admin,
		[]string{open.ID, cancelled.ID}, domain.TicketStatusCancelled, "cleanup")
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, cancelled.ID, result.Errors[0].TicketID)
}

func TestBulkUpdateStatusDepartmentScope(t *testing.T) {
	f := newAdminFixture(t)
	ticket := f.createTicket(t)

	billingManager := &domain.User{ID: "bmanager", Role: domain.RoleManager, DepartmentID: &f.otherDep, Active: true}
	f.users.users[billingManager.ID] = billingManager

	result, err := f.admin.BulkUpdateStatus(context.Background(), billingManager,
		[]string{ticket.ID}, domain.TicketStatusCancelled, "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "DEPARTMENT_MISMATCH", result.Errors[0].Message)
}

func TestBulkAssignAdvancesOpenTickets(t *testing.T) {
	f := newAdminFixture(t)
	first := f.createTicket(t)
	second := f.createTicket(t)

	result, err := f.admin.BulkAssign(context.Background(), f.manager,
		[]string{first.ID, second.ID}, f.agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 0, result.FailureCount)

	for _, id := range []string{first.ID, second.ID} {
		ticket, err := f.tickets.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
		require.NotNil(t, ticket.AssigneeID)
		assert.Equal(t, f.agent.ID, *ticket.AssigneeID)
	}
}

func TestBulkTransferRequiresReason(t *testing.T) {
	f := newAdminFixture(t)
	ticket := f.createTicket(t)

	_, err := f.admin.BulkTransferDepartment(context.Background(), f.ticketFixture.admin,
		[]string{ticket.ID}, f.otherDep, "   ")
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", errCode(t, err))
}

func TestBulkTransferOnlySuperRoles(t *testing.T) {
	f := newAdminFixture(t)
	ticket := f.createTicket(t)

	_, err := f.admin.BulkTransferDepartment(context.Background(), f.manager,
		[]string{ticket.ID}, f.otherDep, "wrong desk")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", errCode(t, err))
}

func TestBulkTransferClearsAssigneeAndCategory(t *testing.T) {
	f := newAdminFixture(t)
	ticket := f.createTicket(t)
	_, err := f.admin.BulkAssign(context.Background(), f.manager, []string{ticket.ID}, f.agent.ID)
	require.NoError(t, err)

	result, err := f.admin.BulkTransferDepartment(context.Background(), f.ticketFixture.admin,
		[]string{ticket.ID}, f.otherDep, "belongs to billing")
	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)

	moved, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, f.otherDep, moved.DepartmentID)
	assert.Nil(t, moved.AssigneeID)
	assert.Nil(t, moved.CategoryID)

	audits := f.comments.byKind(ticket.ID, domain.CommentKindSystemEvent)
	require.NotEmpty(t, audits)
	assert.Contains(t, audits[len(audits)-1].Body, "belongs to billing")
}
