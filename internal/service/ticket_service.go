package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/classifier"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/events"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/policy"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/repository"
	apperrors "github.com/satyamkumarjha2002/help-desk-portal/pkg/util"
)

// TicketService coordinates ticket workflows. Every access decision goes
// through the policy package; this service only orchestrates.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	departments repository.DepartmentRepository
	categories  repository.CategoryRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
	classifier  classifier.Classifier
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	DepartmentRepo repository.DepartmentRepository
	CategoryRepo   repository.CategoryRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
	Classifier     classifier.Classifier
	Logger         *zap.Logger
}

// TicketCreateInput describes ticket creation payload. DepartmentID,
// CategoryID and Priority may be left empty; the classifier fills what it
// can.
type TicketCreateInput struct {
	DepartmentID string
	CategoryID   *string
	Title        string
	Description  string
	Priority     domain.TicketPriority
	RequesterID  string
	Attachments  []AttachmentInput
}

// TicketListFilter describes listing filters; scoping by role happens
// inside ListTickets.
type TicketListFilter struct {
	DepartmentID *string
	AssigneeID   *string
	CategoryID   *string
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// AttachmentInput defines attachment metadata supplied on creation.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		departments: deps.DepartmentRepo,
		categories:  deps.CategoryRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
		classifier:  deps.Classifier,
		logger:      deps.Logger,
	}
}

// CreateTicket files a new ticket. Staff may file on behalf of another
// requester; end users always become the requester themselves.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	requesterID := actor.ID
	if input.RequesterID != "" && input.RequesterID != actor.ID {
		if !actor.Role.IsStaff() {
			return nil, apperrors.NewForbidden("cannot file tickets for another requester")
		}
		requesterID = input.RequesterID
	}

	s.applyClassification(ctx, &input)

	if input.DepartmentID == "" {
		return nil, apperrors.NewValidationError("department_id required", nil)
	}
	dept, err := s.departments.GetByID(ctx, input.DepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": input.DepartmentID})
		}
		return nil, apperrors.MapError(err)
	}
	if !dept.IsActive {
		return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": dept.ID})
	}
	if input.CategoryID != nil {
		cat, err := s.categories.GetByID(ctx, *input.CategoryID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
		if !cat.IsActive {
			return nil, apperrors.NewConflict("category inactive", map[string]any{"category_id": cat.ID})
		}
		if cat.DepartmentID != input.DepartmentID {
			return nil, apperrors.NewValidationError("category not part of department", nil)
		}
	}

	ticket := &domain.Ticket{
		ExternalKey:  generateTicketKey(),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Priority:     input.Priority,
		DepartmentID: input.DepartmentID,
		CategoryID:   input.CategoryID,
		RequesterID:  requesterID,
		CreatedByID:  actor.ID,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if len(input.Attachments) > 0 {
		comment := &domain.Comment{
			TicketID:   ticket.ID,
			AuthorType: authorTypeFor(actor),
			AuthorID:   &actor.ID,
			Kind:       domain.CommentKindPublicReply,
			Body:       ticket.Description,
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, att := range input.Attachments {
			record := &domain.AttachmentReference{
				CommentID:  comment.ID,
				StorageKey: att.StorageKey,
				FileName:   att.FileName,
				MimeType:   att.MimeType,
				SizeBytes:  att.SizeBytes,
			}
			if err := s.attachments.Create(ctx, record); err != nil {
				return nil, apperrors.MapError(err)
			}
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			DepartmentID: ticket.DepartmentID,
			CategoryID:   ticket.CategoryID,
			RequesterID:  ticket.RequesterID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket with its comment thread, enforcing access.
// End users never see internal notes.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if d := policy.CanAccessTicket(policy.ActorFromUser(actor), policy.TicketFromDomain(ticket)); !d.Allowed {
		return nil, nil, apperrors.NewPolicyDenied(string(d.Reason))
	}

	comments, err := s.commentsWithAttachments(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	if actor.Role == domain.RoleEndUser {
		comments = filterInternalNotes(comments)
	}
	return ticket, comments, nil
}

// ListTickets returns tickets scoped to the actor's role. Note the agent
// scope is wider than by-id access: unassigned department tickets appear
// in listings even though CanAccessTicket denies them individually.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		DepartmentID: filter.DepartmentID,
		AssigneeID:   filter.AssigneeID,
		CategoryID:   filter.CategoryID,
		Statuses:     filter.Statuses,
		Priorities:   filter.Priorities,
		SearchTerm:   filter.SearchTerm,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}

	switch {
	case actor.Role.IsSuper():
		// unrestricted
	case actor.Role.IsDepartmentScoped():
		if actor.DepartmentID == nil {
			return []domain.Ticket{}, nil
		}
		repoFilter.DepartmentID = actor.DepartmentID
	case actor.Role == domain.RoleAgent:
		if actor.DepartmentID == nil {
			return []domain.Ticket{}, nil
		}
		repoFilter.DepartmentID = nil
		repoFilter.AgentScope = &repository.AgentScope{
			UserID:       actor.ID,
			DepartmentID: *actor.DepartmentID,
		}
	default:
		requesterID := actor.ID
		repoFilter.RequesterID = &requesterID
		repoFilter.DepartmentID = nil
	}

	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateStatus applies a lifecycle transition, records an audit comment
// and emits an event.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if d := policy.CanUpdateTicket(policy.ActorFromUser(actor), policy.TicketFromDomain(ticket)); !d.Allowed {
		return nil, apperrors.NewPolicyDenied(string(d.Reason))
	}
	if !policy.ValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	switch {
	case newStatus == domain.TicketStatusClosed:
		now := time.Now()
		ticket.ClosedAt = &now
	case policy.IsReopen(oldStatus, newStatus):
		ticket.ClosedAt = nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordAudit(ctx, actor, ticket.ID, fmt.Sprintf("status changed from %s to %s", oldStatus, newStatus), comment); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusSet,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			RequesterID: ticket.RequesterID,
			AssigneeID:  ticket.AssigneeID,
			Comment:     comment,
		},
	})
	return ticket, nil
}

// AssignTicket sets the assignee. An OPEN ticket auto-advances to
// IN_PROGRESS; assigning an in-flight ticket keeps its status. Each call
// records its own audit comment, including repeat assignments.
func (s *TicketService) AssignTicket(ctx context.Context, actor *domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Active {
		return nil, apperrors.NewConflict("assignee deactivated", map[string]any{"user_id": assigneeID})
	}
	if !assignee.Role.IsStaff() {
		return nil, apperrors.NewValidationError("assignee must be a staff member", nil)
	}

	pActor := policy.ActorFromUser(actor)
	if d := policy.CanAssignTicket(pActor, ticket.DepartmentID, assignee.DepartmentID); !d.Allowed {
		return nil, apperrors.NewPolicyDenied(string(d.Reason))
	}
	if !pActor.Role.IsSuper() {
		if d := policy.CanOperateOnDepartment(pActor, ticket.DepartmentID); !d.Allowed {
			return nil, apperrors.NewPolicyDenied(string(d.Reason))
		}
	}

	oldStatus := ticket.Status
	ticket.AssigneeID = &assignee.ID
	ticket.Status = policy.StatusAfterAssignment(ticket.Status)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	audit := fmt.Sprintf("assigned to %s", assignee.Name)
	if oldStatus != ticket.Status {
		audit = fmt.Sprintf("%s; status changed from %s to %s", audit, oldStatus, ticket.Status)
	}
	if err := s.recordAudit(ctx, actor, ticket.ID, audit, ""); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketAssignedPayload{
			AssigneeID:  assignee.ID,
			RequesterID: ticket.RequesterID,
		},
	})
	return ticket, nil
}

// AddComment appends a reply or internal note.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID string, kind domain.CommentKind, body string, attachments []AttachmentInput) (*domain.Comment, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	pActor := policy.ActorFromUser(actor)
	view := policy.TicketFromDomain(ticket)
	if actor.Role == domain.RoleEndUser {
		if kind != domain.CommentKindPublicReply {
			return nil, apperrors.NewForbidden("end users can only post public replies")
		}
		// Commenting mutates the thread, so the closed-ticket rule applies.
		if d := policy.CanUpdateTicket(pActor, view); !d.Allowed {
			return nil, apperrors.NewPolicyDenied(string(d.Reason))
		}
	} else {
		if kind != domain.CommentKindPublicReply && kind != domain.CommentKindInternalNote {
			return nil, apperrors.NewValidationError("invalid comment kind", nil)
		}
		if d := policy.CanAccessTicket(pActor, view); !d.Allowed {
			return nil, apperrors.NewPolicyDenied(string(d.Reason))
		}
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		AuthorType: authorTypeFor(actor),
		AuthorID:   &actor.ID,
		Kind:       kind,
		Body:       strings.TrimSpace(body),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, att := range attachments {
		record := &domain.AttachmentReference{
			CommentID:  comment.ID,
			StorageKey: att.StorageKey,
			FileName:   att.FileName,
			MimeType:   att.MimeType,
			SizeBytes:  att.SizeBytes,
		}
		if err := s.attachments.Create(ctx, record); err != nil {
			return nil, apperrors.MapError(err)
		}
		comment.Attachments = append(comment.Attachments, *record)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			Kind:        comment.Kind,
			AuthorID:    comment.AuthorID,
			RequesterID: ticket.RequesterID,
			AssigneeID:  ticket.AssigneeID,
			BodyPreview: preview(comment.Body, 120),
		},
	})
	return comment, nil
}

// DeleteTicket removes a ticket permanently.
func (s *TicketService) DeleteTicket(ctx context.Context, actor *domain.User, ticketID string) error {
	if d := policy.CanDeleteTicket(policy.ActorFromUser(actor)); !d.Allowed {
		return apperrors.NewPolicyDenied(string(d.Reason))
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	// Department roles may only delete within their own department.
	if !actor.Role.IsSuper() {
		if d := policy.CanOperateOnDepartment(policy.ActorFromUser(actor), ticket.DepartmentID); !d.Allowed {
			return apperrors.NewPolicyDenied(string(d.Reason))
		}
	}
	return apperrors.MapError(s.tickets.Delete(ctx, ticket.ID))
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// applyClassification asks the external classifier to fill missing
// fields. Failures are logged and ignored; creation never blocks on it.
func (s *TicketService) applyClassification(ctx context.Context, input *TicketCreateInput) {
	if s.classifier == nil {
		return
	}
	if input.DepartmentID != "" && input.CategoryID != nil && input.Priority != "" {
		return
	}

	req := classifier.Request{
		Title:       input.Title,
		Description: input.Description,
		Priorities: []domain.TicketPriority{
			domain.TicketPriorityLow,
			domain.TicketPriorityMedium,
			domain.TicketPriorityHigh,
			domain.TicketPriorityUrgent,
		},
	}
	if depts, err := s.departments.List(ctx, false); err == nil {
		for _, d := range depts {
			req.Departments = append(req.Departments, classifier.Candidate{ID: d.ID, Name: d.Name})
		}
	}
	if input.DepartmentID != "" {
		if cats, err := s.categories.ListByDepartment(ctx, input.DepartmentID, false); err == nil {
			for _, c := range cats {
				req.Categories = append(req.Categories, classifier.Candidate{ID: c.ID, Name: c.Name})
			}
		}
	}

	suggestion, err := s.classifier.Classify(ctx, req)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("classification failed", zap.Error(err))
		}
		return
	}
	if input.DepartmentID == "" && suggestion.DepartmentID != nil {
		input.DepartmentID = *suggestion.DepartmentID
	}
	if input.CategoryID == nil && suggestion.CategoryID != nil {
		input.CategoryID = suggestion.CategoryID
	}
	if input.Priority == "" && suggestion.Priority != "" {
		input.Priority = suggestion.Priority
	}
}

// recordAudit appends a SYSTEM_EVENT comment describing a change.
func (s *TicketService) recordAudit(ctx context.Context, actor *domain.User, ticketID, summary, note string) error {
	body := summary
	if strings.TrimSpace(note) != "" {
		body = summary + ": " + strings.TrimSpace(note)
	}
	entry := &domain.Comment{
		TicketID:   ticketID,
		AuthorType: domain.AuthorTypeSystem,
		AuthorID:   &actor.ID,
		Kind:       domain.CommentKindSystemEvent,
		Body:       body,
	}
	return apperrors.MapError(s.comments.Create(ctx, entry))
}

func (s *TicketService) commentsWithAttachments(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.attachments == nil {
		return comments, nil
	}
	for i := range comments {
		attachments, err := s.attachments.ListByComment(ctx, comments[i].ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		comments[i].Attachments = attachments
	}
	return comments, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func authorTypeFor(actor *domain.User) domain.CommentAuthorType {
	if actor.Role.IsStaff() {
		return domain.AuthorTypeStaff
	}
	return domain.AuthorTypeUser
}

func filterInternalNotes(comments []domain.Comment) []domain.Comment {
	filtered := make([]domain.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.Kind == domain.CommentKindInternalNote {
			continue
		}
		filtered = append(filtered, comment)
	}
	return filtered
}

func generateTicketKey() string {
	return "TCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
