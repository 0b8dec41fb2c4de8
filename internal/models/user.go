package models

import "time"

// Roles a profile can carry. The role is informational; admin access is
// decided by the email allow-list.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User is a client profile. The document ID is the identity provider UID.
// Projects, Invoices, Documents and Requests hold the IDs of owned entities.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role,omitempty"`
	PhotoURL  string     `json:"photoURL,omitempty"`
	Projects  []string   `json:"projects"`
	Invoices  []string   `json:"invoices"`
	Documents []string   `json:"documents"`
	Requests  []string   `json:"requests"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// OwnedKind names one of the four ownership arrays on a profile.
type OwnedKind string

const (
	OwnedProjects  OwnedKind = "projects"
	OwnedInvoices  OwnedKind = "invoices"
	OwnedDocuments OwnedKind = "documents"
	OwnedRequests  OwnedKind = "requests"
)

// IDs returns the owned ID array of the given kind.
func (u *User) IDs(kind OwnedKind) []string {
	switch kind {
	case OwnedProjects:
		return u.Projects
	case OwnedInvoices:
		return u.Invoices
	case OwnedDocuments:
		return u.Documents
	case OwnedRequests:
		return u.Requests
	}
	return nil
}
