package events

import (
	"time"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated     EventType = "ticket_created"
	EventTicketStatusSet   EventType = "ticket_status_changed"
	EventTicketAssigned    EventType = "ticket_assigned"
	EventTicketTransferred EventType = "ticket_transferred"
	EventCommentAdded      EventType = "ticket_comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DepartmentID string                `json:"department_id"`
	CategoryID   *string               `json:"category_id,omitempty"`
	RequesterID  string                `json:"requester_id"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus   domain.TicketStatus `json:"old_status"`
	NewStatus   domain.TicketStatus `json:"new_status"`
	RequesterID string              `json:"requester_id"`
	AssigneeID  *string             `json:"assignee_id,omitempty"`
	Comment     string              `json:"comment,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID  string `json:"assignee_id"`
	RequesterID string `json:"requester_id"`
}

// TicketTransferredPayload payload.
type TicketTransferredPayload struct {
	OldDepartmentID string `json:"old_department_id"`
	NewDepartmentID string `json:"new_department_id"`
	RequesterID     string `json:"requester_id"`
	Reason          string `json:"reason"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string             `json:"comment_id"`
	Kind        domain.CommentKind `json:"kind"`
	AuthorID    *string            `json:"author_id,omitempty"`
	RequesterID string             `json:"requester_id"`
	AssigneeID  *string            `json:"assignee_id,omitempty"`
	BodyPreview string             `json:"body_preview"`
}
