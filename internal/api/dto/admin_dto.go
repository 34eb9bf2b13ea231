package dto

// BulkStatusRequest payload for batch status changes.
type BulkStatusRequest struct {
	TicketIDs []string `json:"ticket_ids" validate:"required,min=1,dive,required"`
	Status    string   `json:"status" validate:"required"`
	Comment   string   `json:"comment"`
}

// BulkAssignRequest payload for batch assignment.
type BulkAssignRequest struct {
	TicketIDs  []string `json:"ticket_ids" validate:"required,min=1,dive,required"`
	AssigneeID string   `json:"assignee_id" validate:"required"`
}

// BulkTransferRequest payload for batch department transfer. The reason
// is mandatory; it lands in every transferred ticket's audit trail.
type BulkTransferRequest struct {
	TicketIDs    []string `json:"ticket_ids" validate:"required,min=1,dive,required"`
	DepartmentID string   `json:"department_id" validate:"required"`
	Reason       string   `json:"reason" validate:"required,min=3"`
}
