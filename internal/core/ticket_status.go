package core

import "portal-backend-go/internal/models"

// Statuses lists ticket statuses in workflow order.
var Statuses = []string{models.StatusTodo, models.StatusInProgress, models.StatusDone}

// Priorities lists ticket priorities from lowest to highest.
var Priorities = []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent}

// Transition is an action offered on a ticket in a given status.
type Transition struct {
	To    string `json:"to"`
	Label string `json:"label"`
}

var transitionLabels = map[string]string{
	models.StatusTodo:       "To Do",
	models.StatusInProgress: "Start",
	models.StatusDone:       "Complete",
}

// ValidStatus reports whether s is a known ticket status.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known ticket priority.
func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// AvailableTransitions returns every status other than current. Any status
// may move to any other; the workflow is not enforced.
func AvailableTransitions(current string) []Transition {
	out := make([]Transition, 0, len(Statuses))
	for _, s := range Statuses {
		if s == current {
			continue
		}
		out = append(out, Transition{To: s, Label: transitionLabels[s]})
	}
	return out
}

// GroupByStatus splits tickets into one column per status, preserving order.
// Tickets with an unknown status are left out.
func GroupByStatus(reqs []*models.Request) map[string][]*models.Request {
	groups := make(map[string][]*models.Request, len(Statuses))
	for _, s := range Statuses {
		groups[s] = []*models.Request{}
	}
	for _, r := range reqs {
		if _, ok := groups[r.Status]; ok {
			groups[r.Status] = append(groups[r.Status], r)
		}
	}
	return groups
}
