package models

import "time"

// The patch types below are shared by create and update paths. A nil pointer
// means "not provided": Create leaves the field out of the stored record and
// Update leaves the stored value untouched.

// ProjectPatch carries project fields.
type ProjectPatch struct {
	ProjectName *string
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *float64
	Description *string
}

// InvoicePatch carries invoice fields.
type InvoicePatch struct {
	InvoiceName   *string
	InvoiceNumber *string
	Amount        *float64
	Status        *string
	FileLink      *string
	DueDate       *time.Time
	PaidDate      *time.Time
	Description   *string
	ClientID      *string
}

// DocumentPatch carries document fields.
type DocumentPatch struct {
	Name        *string
	Filename    *string
	FileLink    *string
	FileSize    *int64
	FileType    *string
	Description *string
}

// RequestPatch carries ticket fields.
type RequestPatch struct {
	UserID      *string
	Name        *string
	Email       *string
	Request     *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
}

// UserPatch carries profile fields editable after creation.
type UserPatch struct {
	Name     *string
	Email    *string
	Role     *string
	PhotoURL *string
}
