package models

// PaymentSummary totals a client's invoices per status bucket.
type PaymentSummary struct {
	TotalPaid float64 `json:"totalPaid"`
	Pending   float64 `json:"pending"`
	Due       float64 `json:"due"`
	Overdue   float64 `json:"overdue"`
}
