package core

import "strings"

// AdminList decides admin access from a fixed set of email addresses.
// It is a presentation gate only; the store's own security rules still apply.
type AdminList struct {
	emails map[string]struct{}
}

// NewAdminList builds the list. Entries are trimmed and compared
// case-insensitively; empty entries are ignored.
func NewAdminList(emails []string) *AdminList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return &AdminList{emails: set}
}

// IsAdmin reports whether email is on the list.
func (a *AdminList) IsAdmin(email string) bool {
	if a == nil || email == "" {
		return false
	}
	_, ok := a.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
