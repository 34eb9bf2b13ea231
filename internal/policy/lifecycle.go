package policy

import "github.com/satyamkumarjha2002/help-desk-portal/internal/domain"

// allowedTransitions is the ticket state machine. RESOLVED and CLOSED can
// be reopened; CANCELLED is terminal.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusCancelled},
	domain.TicketStatusInProgress: {domain.TicketStatusPending, domain.TicketStatusResolved, domain.TicketStatusClosed, domain.TicketStatusCancelled},
	domain.TicketStatusPending:    {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed, domain.TicketStatusCancelled},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusOpen, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:     {domain.TicketStatusOpen, domain.TicketStatusInProgress},
	domain.TicketStatusCancelled:  {},
}

// ValidTransition reports whether moving from current to next is allowed.
func ValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsReopen reports whether the transition leaves an exit state, which
// must clear the closed timestamp.
func IsReopen(current, next domain.TicketStatus) bool {
	if current != domain.TicketStatusClosed && current != domain.TicketStatusResolved {
		return false
	}
	return next == domain.TicketStatusOpen || next == domain.TicketStatusInProgress
}

// StatusAfterAssignment returns the status a ticket takes when an
// assignee is set: an OPEN ticket auto-advances to IN_PROGRESS, any other
// state is preserved so assignment never regresses progress.
func StatusAfterAssignment(current domain.TicketStatus) domain.TicketStatus {
	if current == domain.TicketStatusOpen {
		return domain.TicketStatusInProgress
	}
	return current
}
