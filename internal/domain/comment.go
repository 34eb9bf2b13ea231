package domain

import "time"

// CommentAuthorType indicates who authored a comment.
type CommentAuthorType string

const (
	AuthorTypeUser   CommentAuthorType = "USER"
	AuthorTypeStaff  CommentAuthorType = "STAFF"
	AuthorTypeSystem CommentAuthorType = "SYSTEM"
)

// CommentKind differentiates replies, internal notes and audit entries.
type CommentKind string

const (
	CommentKindPublicReply  CommentKind = "PUBLIC_REPLY"
	CommentKindInternalNote CommentKind = "INTERNAL_NOTE"
	CommentKindSystemEvent  CommentKind = "SYSTEM_EVENT"
)

// Comment captures the conversation and audit trail of a ticket. Every
// successful status, assignee or department change appends one
// SYSTEM_EVENT comment.
type Comment struct {
	ID          string
	TicketID    string
	AuthorType  CommentAuthorType
	AuthorID    *string
	Kind        CommentKind
	Body        string
	Attachments []AttachmentReference
	CreatedAt   time.Time
}

// AttachmentReference stores metadata for comment attachments. The bytes
// themselves live in external storage under StorageKey.
type AttachmentReference struct {
	ID         string
	CommentID  string
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}
