package dto

import (
	"time"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
)

// CreateTicketRequest payload. Department, category and priority may be
// omitted; the classifier fills what it can before validation of the
// final department happens server-side.
type CreateTicketRequest struct {
	DepartmentID string              `json:"department_id"`
	CategoryID   *string             `json:"category_id"`
	Title        string              `json:"title" validate:"required,min=3,max=200"`
	Description  string              `json:"description" validate:"required,min=3"`
	Priority     string              `json:"priority"`
	RequesterID  string              `json:"requester_id"`
	Attachments  []AttachmentRequest `json:"attachments" validate:"dive"`
}

// AttachmentRequest describes attachment metadata supplied by clients.
type AttachmentRequest struct {
	StorageKey string `json:"storage_key" validate:"required"`
	FileName   string `json:"file_name" validate:"required"`
	MimeType   string `json:"mime_type" validate:"required"`
	SizeBytes  int64  `json:"size_bytes" validate:"gte=0"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required"`
}

// CreateCommentRequest payload. Kind defaults to PUBLIC_REPLY.
type CreateCommentRequest struct {
	Body        string              `json:"body" validate:"required"`
	Kind        string              `json:"kind"`
	Attachments []AttachmentRequest `json:"attachments" validate:"dive"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string                `json:"id"`
	ExternalKey  string                `json:"external_key"`
	Title        string                `json:"title"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	DepartmentID string                `json:"department_id"`
	CategoryID   *string               `json:"category_id,omitempty"`
	RequesterID  string                `json:"requester_id"`
	AssigneeID   *string               `json:"assignee_id,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info with the thread.
type TicketDetailResponse struct {
	TicketSummary
	Description string            `json:"description"`
	CreatedByID string            `json:"created_by_id"`
	ClosedAt    *time.Time        `json:"closed_at,omitempty"`
	Comments    []CommentResponse `json:"comments"`
}

// CommentResponse represents one thread entry.
type CommentResponse struct {
	ID          string                   `json:"id"`
	AuthorType  domain.CommentAuthorType `json:"author_type"`
	AuthorID    *string                  `json:"author_id,omitempty"`
	Kind        domain.CommentKind       `json:"kind"`
	Body        string                   `json:"body"`
	Attachments []AttachmentResponse     `json:"attachments"`
	CreatedAt   time.Time                `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// NewTicketSummary projects a domain ticket.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:           ticket.ID,
		ExternalKey:  ticket.ExternalKey,
		Title:        ticket.Title,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		DepartmentID: ticket.DepartmentID,
		CategoryID:   ticket.CategoryID,
		RequesterID:  ticket.RequesterID,
		AssigneeID:   ticket.AssigneeID,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

// NewTicketDetail projects a ticket with its comments.
func NewTicketDetail(ticket *domain.Ticket, comments []domain.Comment) TicketDetailResponse {
	items := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, NewCommentResponse(&comments[i]))
	}
	return TicketDetailResponse{
		TicketSummary: NewTicketSummary(ticket),
		Description:   ticket.Description,
		CreatedByID:   ticket.CreatedByID,
		ClosedAt:      ticket.ClosedAt,
		Comments:      items,
	}
}

// NewCommentResponse projects a comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	attachments := make([]AttachmentResponse, 0, len(comment.Attachments))
	for _, att := range comment.Attachments {
		attachments = append(attachments, AttachmentResponse{
			ID:        att.ID,
			FileName:  att.FileName,
			MimeType:  att.MimeType,
			SizeBytes: att.SizeBytes,
		})
	}
	return CommentResponse{
		ID:          comment.ID,
		AuthorType:  comment.AuthorType,
		AuthorID:    comment.AuthorID,
		Kind:        comment.Kind,
		Body:        comment.Body,
		Attachments: attachments,
		CreatedAt:   comment.CreatedAt,
	}
}
