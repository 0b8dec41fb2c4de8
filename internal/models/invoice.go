package models

import "time"

// Invoice statuses understood by the payment summary.
const (
	InvoiceStatusPaid    = "paid"
	InvoiceStatusPending = "pending"
	InvoiceStatusDue     = "due"
	InvoiceStatusOverdue = "overdue"
)

// Invoice is a billable amount owed by a client.
//
// Older records store the due date as "dueDate" and the file URL as
// "fileUrl"; both are read, but only due_date and file_link are written.
type Invoice struct {
	ID            string     `json:"id"`
	InvoiceName   string     `json:"invoice_name"`
	InvoiceNumber string     `json:"invoiceNumber,omitempty"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	FileLink      string     `json:"file_link"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	Description   string     `json:"description,omitempty"`
	ClientID      string     `json:"clientId,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}
