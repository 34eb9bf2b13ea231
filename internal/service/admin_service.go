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

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/events"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/policy"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/repository"
	apperrors "github.com/satyamkumarjha2002/help-desk-portal/pkg/util"
)

// AdminService runs bulk ticket operations. Existence is checked for the
// whole batch up front; after that each ticket succeeds or fails on its
// own and the batch reports both counts.
type AdminService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(
	tickets repository.TicketRepository,
	comments repository.CommentRepository,
	departments repository.DepartmentRepository,
	users repository.UserRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		tickets:     tickets,
		comments:    comments,
		departments: departments,
		users:       users,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// BulkError reports one failed ticket inside a batch.
type BulkError struct {
	TicketID string `json:"ticket_id"`
	Message  string `json:"message"`
}

// BulkResult summarizes a batch outcome.
type BulkResult struct {
	SuccessCount int         `json:"success_count"`
	FailureCount int         `json:"failure_count"`
	Errors       []BulkError `json:"errors"`
}

func (r *BulkResult) ok() {
	r.SuccessCount++
}

func (r *BulkResult) fail(ticketID, message string) {
	r.FailureCount++
	r.Errors = append(r.Errors, BulkError{TicketID: ticketID, Message: message})
}

// BulkUpdateStatus applies one status transition across tickets.
func (s *AdminService) BulkUpdateStatus(ctx context.Context, actor *domain.User, ticketIDs []string, newStatus domain.TicketStatus, comment string) (*BulkResult, error) {
	tickets, err := s.loadBatch(ctx, ticketIDs)
	if err != nil {
		return nil, err
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}

	pActor := policy.ActorFromUser(actor)
	result := &BulkResult{}
	for i := range tickets {
		ticket := &tickets[i]
		if d := policy.CanOperateOnDepartment(pActor, ticket.DepartmentID); !d.Allowed {
			result.fail(ticket.ID, string(d.Reason))
			continue
		}
		if !policy.ValidTransition(ticket.Status, newStatus) {
			result.fail(ticket.ID, fmt.Sprintf("invalid transition %s -> %s", ticket.Status, newStatus))
			continue
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
			result.fail(ticket.ID, "persistence failure")
			s.warn("bulk status update failed", ticket.ID, err)
			continue
		}
		s.audit(ctx, actor, ticket.ID, fmt.Sprintf("status changed from %s to %s", oldStatus, newStatus), comment)
		s.publish(ctx, events.Event{
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
		result.ok()
	}
	return result, nil
}

// BulkAssign assigns one staff member across tickets.
func (s *AdminService) BulkAssign(ctx context.Context, actor *domain.User, ticketIDs []string, assigneeID string) (*BulkResult, error) {
	tickets, err := s.loadBatch(ctx, ticketIDs)
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
	result := &BulkResult{}
	for i := range tickets {
		ticket := &tickets[i]
		if d := policy.CanAssignTicket(pActor, ticket.DepartmentID, assignee.DepartmentID); !d.Allowed {
			result.fail(ticket.ID, string(d.Reason))
			continue
		}
		if !pActor.Role.IsSuper() {
			if d := policy.CanOperateOnDepartment(pActor, ticket.DepartmentID); !d.Allowed {
				result.fail(ticket.ID, string(d.Reason))
				continue
			}
		}

		oldStatus := ticket.Status
		ticket.AssigneeID = &assignee.ID
		ticket.Status = policy.StatusAfterAssignment(ticket.Status)
		if err := s.tickets.Update(ctx, ticket); err != nil {
			result.fail(ticket.ID, "persistence failure")
			s.warn("bulk assign failed", ticket.ID, err)
			continue
		}
		summary := fmt.Sprintf("assigned to %s", assignee.Name)
		if oldStatus != ticket.Status {
			summary = fmt.Sprintf("%s; status changed from %s to %s", summary, oldStatus, ticket.Status)
		}
		s.audit(ctx, actor, ticket.ID, summary, "")
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  actor.ID,
			Payload: events.TicketAssignedPayload{
				AssigneeID:  assignee.ID,
				RequesterID: ticket.RequesterID,
			},
		})
		result.ok()
	}
	return result, nil
}

// BulkTransferDepartment moves tickets into another department. The
// target assignee is cleared because assignees are department-bound, and
// a transfer reason is mandatory for the audit trail.
func (s *AdminService) BulkTransferDepartment(ctx context.Context, actor *domain.User, ticketIDs []string, newDepartmentID, reason string) (*BulkResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewBadRequest("transfer reason required", nil)
	}
	if d := policy.CanTransferTicketDepartment(policy.ActorFromUser(actor)); !d.Allowed {
		return nil, apperrors.NewPolicyDenied(string(d.Reason))
	}

	tickets, err := s.loadBatch(ctx, ticketIDs)
	if err != nil {
		return nil, err
	}

	dept, err := s.departments.GetByID(ctx, newDepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": newDepartmentID})
		}
		return nil, apperrors.MapError(err)
	}
	if !dept.IsActive {
		return nil, apperrors.NewConflict("department inactive", map[string]any{"department_id": dept.ID})
	}

	result := &BulkResult{}
	for i := range tickets {
		ticket := &tickets[i]
		if ticket.DepartmentID == newDepartmentID {
			result.fail(ticket.ID, "already in target department")
			continue
		}

		oldDepartmentID := ticket.DepartmentID
		ticket.DepartmentID = newDepartmentID
		ticket.CategoryID = nil
		ticket.AssigneeID = nil
		if err := s.tickets.Update(ctx, ticket); err != nil {
			result.fail(ticket.ID, "persistence failure")
			s.warn("bulk transfer failed", ticket.ID, err)
			continue
		}
		s.audit(ctx, actor, ticket.ID, fmt.Sprintf("transferred to department %s", dept.Name), reason)
		s.publish(ctx, events.Event{
			Type:     events.EventTicketTransferred,
			TicketID: ticket.ID,
			ActorID:  actor.ID,
			Payload: events.TicketTransferredPayload{
				OldDepartmentID: oldDepartmentID,
				NewDepartmentID: newDepartmentID,
				RequesterID:     ticket.RequesterID,
				Reason:          reason,
			},
		})
		result.ok()
	}
	return result, nil
}

// loadBatch resolves ticket ids, rejecting empty batches and batches
// referencing unknown tickets before any work starts.
func (s *AdminService) loadBatch(ctx context.Context, ticketIDs []string) ([]domain.Ticket, error) {
	if len(ticketIDs) == 0 {
		return nil, apperrors.NewBadRequest("ticket_ids must not be empty", nil)
	}
	unique := make([]string, 0, len(ticketIDs))
	seen := make(map[string]struct{}, len(ticketIDs))
	for _, id := range ticketIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	tickets, err := s.tickets.GetByIDs(ctx, unique)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(tickets) != len(unique) {
		found := make(map[string]struct{}, len(tickets))
		for _, t := range tickets {
			found[t.ID] = struct{}{}
		}
		var missing []string
		for _, id := range unique {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, apperrors.NewBadRequest("batch references unknown tickets", map[string]any{"missing_ids": missing})
	}
	return tickets, nil
}

func (s *AdminService) audit(ctx context.Context, actor *domain.User, ticketID, summary, note string) {
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
	if err := s.comments.Create(ctx, entry); err != nil {
		s.warn("audit comment failed", ticketID, err)
	}
}

func (s *AdminService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func (s *AdminService) warn(msg, ticketID string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, zap.String("ticket_id", ticketID), zap.Error(err))
	}
}
