package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/repository"
)

type fakeTicketRepo struct {
	seq     int
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, id := range ids {
		if ticket, ok := r.tickets[id]; ok {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.RequesterID != nil &&
			ticket.RequesterID != *filter.RequesterID && ticket.CreatedByID != *filter.RequesterID {
			continue
		}
		if filter.DepartmentID != nil && ticket.DepartmentID != *filter.DepartmentID {
			continue
		}
		if filter.AssigneeID != nil &&
			(ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
			continue
		}
		if filter.AgentScope != nil {
			scope := filter.AgentScope
			if ticket.DepartmentID != scope.DepartmentID {
				continue
			}
			related := ticket.AssigneeID == nil ||
				*ticket.AssigneeID == scope.UserID ||
				ticket.RequesterID == scope.UserID ||
				ticket.CreatedByID == scope.UserID
			if !related {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) CountOpenByDepartment(_ context.Context, departmentID string) (int, error) {
	count := 0
	for _, ticket := range r.tickets {
		if ticket.DepartmentID == departmentID && containsStatus(domain.OpenStatuses(), ticket.Status) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountOpenByCategory(_ context.Context, categoryID string) (int, error) {
	count := 0
	for _, ticket := range r.tickets {
		if ticket.CategoryID != nil && *ticket.CategoryID == categoryID &&
			containsStatus(domain.OpenStatuses(), ticket.Status) {
			count++
		}
	}
	return count, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeCommentRepo struct {
	seq      int
	comments []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) byKind(ticketID string, kind domain.CommentKind) []domain.Comment {
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID && comment.Kind == kind {
			result = append(result, comment)
		}
	}
	return result
}

type fakeAttachmentRepo struct {
	seq         int
	attachments []domain.AttachmentReference
}

func (r *fakeAttachmentRepo) Create(_ context.Context, att *domain.AttachmentReference) error {
	r.seq++
	att.ID = fmt.Sprintf("attachment-%d", r.seq)
	att.CreatedAt = time.Now()
	r.attachments = append(r.attachments, *att)
	return nil
}

func (r *fakeAttachmentRepo) ListByComment(_ context.Context, commentID string) ([]domain.AttachmentReference, error) {
	var result []domain.AttachmentReference
	for _, att := range r.attachments {
		if att.CommentID == commentID {
			result = append(result, att)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, user := range users {
		clone := *user
		repo.users[user.ID] = &clone
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.DepartmentID != nil &&
			(user.DepartmentID == nil || *user.DepartmentID != *filter.DepartmentID) {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

func (r *fakeUserRepo) CountActiveByDepartment(_ context.Context, departmentID string) (int, error) {
	count := 0
	for _, user := range r.users {
		if user.Active && user.DepartmentID != nil && *user.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

type fakeDepartmentRepo struct {
	seq         int
	departments map[string]*domain.Department
}

func newFakeDepartmentRepo(departments ...*domain.Department) *fakeDepartmentRepo {
	repo := &fakeDepartmentRepo{departments: map[string]*domain.Department{}}
	for _, dept := range departments {
		clone := *dept
		repo.departments[dept.ID] = &clone
	}
	return repo
}

func (r *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	r.seq++
	dept.ID = fmt.Sprintf("dept-%d", r.seq)
	dept.CreatedAt = time.Now()
	dept.UpdatedAt = dept.CreatedAt
	clone := *dept
	r.departments[dept.ID] = &clone
	return nil
}

func (r *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	if _, ok := r.departments[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *dept
	r.departments[dept.ID] = &clone
	return nil
}

func (r *fakeDepartmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.departments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.departments, id)
	return nil
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := r.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *dept
	return &clone, nil
}

func (r *fakeDepartmentRepo) List(_ context.Context, includeInactive bool) ([]domain.Department, error) {
	var result []domain.Department
	for _, dept := range r.departments {
		if !includeInactive && !dept.IsActive {
			continue
		}
		result = append(result, *dept)
	}
	return result, nil
}

func (r *fakeDepartmentRepo) CountActiveChildren(_ context.Context, id string) (int, error) {
	count := 0
	for _, dept := range r.departments {
		if dept.IsActive && dept.ParentID != nil && *dept.ParentID == id {
			count++
		}
	}
	return count, nil
}

type fakeCategoryRepo struct {
	seq        int
	categories map[string]*domain.Category
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: map[string]*domain.Category{}}
	for _, cat := range categories {
		clone := *cat
		repo.categories[cat.ID] = &clone
	}
	return repo
}

func (r *fakeCategoryRepo) Create(_ context.Context, cat *domain.Category) error {
	r.seq++
	cat.ID = fmt.Sprintf("cat-%d", r.seq)
	cat.CreatedAt = time.Now()
	cat.UpdatedAt = cat.CreatedAt
	clone := *cat
	r.categories[cat.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, cat *domain.Category) error {
	if _, ok := r.categories[cat.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *cat
	r.categories[cat.ID] = &clone
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	cat, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *cat
	return &clone, nil
}

func (r *fakeCategoryRepo) ListByDepartment(_ context.Context, departmentID string, includeInactive bool) ([]domain.Category, error) {
	var result []domain.Category
	for _, cat := range r.categories {
		if cat.DepartmentID != departmentID {
			continue
		}
		if !includeInactive && !cat.IsActive {
			continue
		}
		result = append(result, *cat)
	}
	return result, nil
}

type fakeNotificationRepo struct {
	seq           int
	notifications []domain.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.seq++
	n.ID = fmt.Sprintf("notification-%d", r.seq)
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, _, _ int) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		result = append(result, n)
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].RecipientID == recipientID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeResetTokenStore struct {
	tokens map[string]string
}

func newFakeResetTokenStore() *fakeResetTokenStore {
	return &fakeResetTokenStore{tokens: map[string]string{}}
}

func (s *fakeResetTokenStore) Put(_ context.Context, token, userID string, _ time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *fakeResetTokenStore) Consume(_ context.Context, token string) (string, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return "", repository.ErrTokenNotFound
	}
	delete(s.tokens, token)
	return userID, nil
}
