package api

import (
	"fmt"
	"strings"
	"time"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/models"
	"portal-backend-go/internal/timestamp"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is used by endpoints without a resource to return.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// UserResponse is a profile plus the admin flag derived from the allow-list.
type UserResponse struct {
	*models.User
	IsAdmin bool `json:"isAdmin"`
}

// RequestResponse is a ticket plus the status actions offered for it.
type RequestResponse struct {
	*models.Request
	Transitions []core.Transition `json:"transitions"`
}

// parseDate accepts the shapes the front end sends for dates: ISO strings,
// epoch milliseconds or {seconds, nanoseconds} objects. Empty means absent.
func parseDate(field string, v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, ok := timestamp.Normalize(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a date", core.ErrInvalidInput, field)
	}
	return &t, nil
}

// ProjectRequest is the body of project create and update calls.
type ProjectRequest struct {
	ProjectName *string  `json:"project_name"`
	Status      *string  `json:"status"`
	StartDate   any      `json:"start_date"`
	EndDate     any      `json:"end_date"`
	Budget      *float64 `json:"budget"`
	Description *string  `json:"description"`
}

func (r ProjectRequest) toPatch() (models.ProjectPatch, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return models.ProjectPatch{}, err
	}
	end, err := parseDate("end_date", r.EndDate)
	if err != nil {
		return models.ProjectPatch{}, err
	}
	return models.ProjectPatch{
		ProjectName: r.ProjectName,
		Status:      r.Status,
		StartDate:   start,
		EndDate:     end,
		Budget:      r.Budget,
		Description: r.Description,
	}, nil
}

// InvoiceRequest is the body of invoice create and update calls.
type InvoiceRequest struct {
	InvoiceName   *string  `json:"invoice_name"`
	InvoiceNumber *string  `json:"invoiceNumber"`
	Amount        *float64 `json:"amount"`
	Status        *string  `json:"status"`
	FileLink      *string  `json:"file_link"`
	DueDate       any      `json:"due_date"`
	PaidDate      any      `json:"paid_date"`
	Description   *string  `json:"description"`
	ClientID      *string  `json:"clientId"`
}

func (r InvoiceRequest) toPatch() (models.InvoicePatch, error) {
	due, err := parseDate("due_date", r.DueDate)
	if err != nil {
		return models.InvoicePatch{}, err
	}
	paid, err := parseDate("paid_date", r.PaidDate)
	if err != nil {
		return models.InvoicePatch{}, err
	}
	return models.InvoicePatch{
		InvoiceName:   r.InvoiceName,
		InvoiceNumber: r.InvoiceNumber,
		Amount:        r.Amount,
		Status:        r.Status,
		FileLink:      r.FileLink,
		DueDate:       due,
		PaidDate:      paid,
		Description:   r.Description,
		ClientID:      r.ClientID,
	}, nil
}

// DocumentRequest is the body of document create and update calls.
type DocumentRequest struct {
	Name        *string `json:"name"`
	Filename    *string `json:"filename"`
	FileLink    *string `json:"file_link"`
	FileSize    *int64  `json:"file_size"`
	FileType    *string `json:"file_type"`
	Description *string `json:"description"`
}

func (r DocumentRequest) toPatch() models.DocumentPatch {
	return models.DocumentPatch{
		Name:        r.Name,
		Filename:    r.Filename,
		FileLink:    r.FileLink,
		FileSize:    r.FileSize,
		FileType:    r.FileType,
		Description: r.Description,
	}
}

// TicketRequest is the body of ticket create and admin update calls. Status
// is ignored on create.
type TicketRequest struct {
	Request     *string `json:"request"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	AssignedTo  *string `json:"assigned_to"`
}

func (r TicketRequest) toPatch() models.RequestPatch {
	return models.RequestPatch{
		Request:     r.Request,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
		Name:        r.Name,
		Email:       r.Email,
		AssignedTo:  r.AssignedTo,
	}
}

// StatusRequest is the body of a ticket status transition.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignRequest names the user an entity is assigned to.
type AssignRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// UserUpdateRequest is the body of an admin profile update.
type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	PhotoURL *string `json:"photoURL"`
}

// CreateUserRequest is the body of the admin create-user call.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// ResetPasswordRequest is the body of the password reset call.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// EmailRequest is the body of the email relay call. To may be a single
// address or a list.
type EmailRequest struct {
	To       any    `json:"to"`
	Subject  string `json:"subject"`
	HTML     string `json:"html"`
	Text     string `json:"text"`
	ReplyTo  string `json:"replyTo"`
	FromName string `json:"fromName"`
}

func (r EmailRequest) recipients() []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch v := r.To.(type) {
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}
	return out
}
