package core

import "portal-backend-go/internal/models"

// Summarize folds invoice amounts into per-status totals. Invoices with an
// unrecognized status contribute nothing.
func Summarize(invoices []*models.Invoice) models.PaymentSummary {
	var s models.PaymentSummary
	for _, inv := range invoices {
		if inv == nil {
			continue
		}
		switch inv.Status {
		case models.InvoiceStatusPaid:
			s.TotalPaid += inv.Amount
		case models.InvoiceStatusPending:
			s.Pending += inv.Amount
		case models.InvoiceStatusDue:
			s.Due += inv.Amount
		case models.InvoiceStatusOverdue:
			s.Overdue += inv.Amount
		}
	}
	return s
}
