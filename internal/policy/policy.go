// Package policy centralizes every access decision over tickets,
// departments and categories. All functions are pure: they take an actor
// snapshot and a resource snapshot and return an allow/deny verdict with
// a reason code, never touching storage and never returning an error.
// Callers translate deny verdicts into Forbidden responses.
package policy

import "github.com/satyamkumarjha2002/help-desk-portal/internal/domain"

// ReasonCode identifies why a decision denied.
type ReasonCode string

const (
	ReasonRoleInsufficient           ReasonCode = "ROLE_INSUFFICIENT"
	ReasonDepartmentMismatch         ReasonCode = "DEPARTMENT_MISMATCH"
	ReasonNoRelationship             ReasonCode = "NO_RELATIONSHIP"
	ReasonTicketClosed               ReasonCode = "TICKET_CLOSED"
	ReasonAssigneeDepartmentMismatch ReasonCode = "ASSIGNEE_DEPARTMENT_MISMATCH"
)

// Actor is the policy-relevant snapshot of the authenticated user.
type Actor struct {
	ID           string
	Role         domain.Role
	DepartmentID *string
}

// TicketView is the policy-relevant snapshot of a ticket.
type TicketView struct {
	DepartmentID string
	RequesterID  string
	AssigneeID   *string
	CreatedByID  string
	Status       domain.TicketStatus
}

// TicketFromDomain projects a domain ticket onto its policy view.
func TicketFromDomain(t *domain.Ticket) TicketView {
	return TicketView{
		DepartmentID: t.DepartmentID,
		RequesterID:  t.RequesterID,
		AssigneeID:   t.AssigneeID,
		CreatedByID:  t.CreatedByID,
		Status:       t.Status,
	}
}

// ActorFromUser projects a domain user onto its policy actor.
func ActorFromUser(u *domain.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, DepartmentID: u.DepartmentID}
}

// Decision is the outcome of a policy check. Reason is set only on deny.
type Decision struct {
	Allowed bool
	Reason  ReasonCode
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason ReasonCode) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func (a Actor) sameDepartment(departmentID string) bool {
	return a.DepartmentID != nil && *a.DepartmentID == departmentID
}

func (a Actor) relatedTo(t TicketView) bool {
	if a.ID == t.RequesterID || a.ID == t.CreatedByID {
		return true
	}
	return t.AssigneeID != nil && *t.AssigneeID == a.ID
}

// CanAccessTicket decides read access.
//
// ADMIN and SUPER_ADMIN see everything. MANAGER and TEAM_LEAD see their
// own department. AGENT additionally needs a personal relationship
// (assignee, requester or creator) even when the ticket is unassigned;
// list queries are deliberately wider, see the agent scope in the ticket
// service. END_USER sees only tickets they requested or created.
func CanAccessTicket(actor Actor, t TicketView) Decision {
	switch {
	case actor.Role.IsSuper():
		return allow()
	case actor.Role.IsDepartmentScoped():
		if !actor.sameDepartment(t.DepartmentID) {
			return deny(ReasonDepartmentMismatch)
		}
		return allow()
	case actor.Role == domain.RoleAgent:
		if !actor.sameDepartment(t.DepartmentID) {
			return deny(ReasonDepartmentMismatch)
		}
		if !actor.relatedTo(t) {
			return deny(ReasonNoRelationship)
		}
		return allow()
	case actor.Role == domain.RoleEndUser:
		if actor.ID != t.RequesterID && actor.ID != t.CreatedByID {
			return deny(ReasonNoRelationship)
		}
		return allow()
	default:
		return deny(ReasonRoleInsufficient)
	}
}

// CanUpdateTicket decides write access. Staff scoping matches
// CanAccessTicket; end users additionally lose write access once their
// ticket is closed or resolved (it stays readable).
func CanUpdateTicket(actor Actor, t TicketView) Decision {
	decision := CanAccessTicket(actor, t)
	if !decision.Allowed {
		return decision
	}
	if actor.Role == domain.RoleEndUser &&
		(t.Status == domain.TicketStatusClosed || t.Status == domain.TicketStatusResolved) {
		return deny(ReasonTicketClosed)
	}
	return allow()
}

// CanAssignTicket decides whether the actor may set the assignee.
// TEAM_LEAD and above may assign; below ADMIN the proposed assignee must
// belong to the ticket's department. assigneeDepartmentID is nil for
// department-less users, which non-admins can never assign.
func CanAssignTicket(actor Actor, ticketDepartmentID string, assigneeDepartmentID *string) Decision {
	switch actor.Role {
	case domain.RoleTeamLead, domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin:
	default:
		return deny(ReasonRoleInsufficient)
	}
	if actor.Role.IsSuper() {
		return allow()
	}
	if assigneeDepartmentID == nil || *assigneeDepartmentID != ticketDepartmentID {
		return deny(ReasonAssigneeDepartmentMismatch)
	}
	return allow()
}

// CanDeleteTicket restricts deletion to MANAGER, ADMIN and SUPER_ADMIN.
func CanDeleteTicket(actor Actor) Decision {
	switch actor.Role {
	case domain.RoleManager, domain.RoleAdmin, domain.RoleSuperAdmin:
		return allow()
	default:
		return deny(ReasonRoleInsufficient)
	}
}

// CanOperateOnDepartment gates bulk status and assignment operations
// against tickets of the given department.
func CanOperateOnDepartment(actor Actor, departmentID string) Decision {
	if actor.Role.IsSuper() {
		return allow()
	}
	if actor.Role.IsDepartmentScoped() {
		if !actor.sameDepartment(departmentID) {
			return deny(ReasonDepartmentMismatch)
		}
		return allow()
	}
	return deny(ReasonRoleInsufficient)
}

// CanTransferTicketDepartment gates moving tickets across departments.
// Transfers cross department boundaries by definition, so only the two
// super roles qualify.
func CanTransferTicketDepartment(actor Actor) Decision {
	if actor.Role.IsSuper() {
		return allow()
	}
	return deny(ReasonRoleInsufficient)
}

// TaxonomyOp enumerates management operations on departments/categories.
type TaxonomyOp string

const (
	TaxonomyCreate TaxonomyOp = "CREATE"
	TaxonomyUpdate TaxonomyOp = "UPDATE"
	TaxonomyDelete TaxonomyOp = "DELETE"
)

// CanManageTaxonomy gates department and category management. Create and
// update need ADMIN; delete needs SUPER_ADMIN. The referential guard for
// deletes (no active children) is enforced by the org service, not here.
func CanManageTaxonomy(actor Actor, op TaxonomyOp) Decision {
	if op == TaxonomyDelete {
		if actor.Role == domain.RoleSuperAdmin {
			return allow()
		}
		return deny(ReasonRoleInsufficient)
	}
	if actor.Role.IsSuper() {
		return allow()
	}
	return deny(ReasonRoleInsufficient)
}

// CanManageUser gates role/department/active mutations on another user.
// ADMIN may manage anyone below admin rank; granting or touching
// ADMIN/SUPER_ADMIN accounts takes SUPER_ADMIN.
func CanManageUser(actor Actor, targetRole, newRole domain.Role) Decision {
	if actor.Role == domain.RoleSuperAdmin {
		return allow()
	}
	if actor.Role != domain.RoleAdmin {
		return deny(ReasonRoleInsufficient)
	}
	if targetRole.IsSuper() || newRole.IsSuper() {
		return deny(ReasonRoleInsufficient)
	}
	return allow()
}
