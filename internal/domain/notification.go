package domain

import "time"

// NotificationType enumerates delivery reasons.
type NotificationType string

const (
	NotificationTicketCreated     NotificationType = "TICKET_CREATED"
	NotificationTicketAssigned    NotificationType = "TICKET_ASSIGNED"
	NotificationStatusChanged     NotificationType = "STATUS_CHANGED"
	NotificationCommentAdded      NotificationType = "COMMENT_ADDED"
	NotificationTicketTransferred NotificationType = "TICKET_TRANSFERRED"
)

// Notification is a persisted per-user notification; delivery also goes
// out over the redis channel for connected clients.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	TicketID    string           `json:"ticket_id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
