package models

import "strings"

// VisitorStatus of a visit record.
type VisitorStatus string

const (
	VisitorIn  VisitorStatus = "In"
	VisitorOut VisitorStatus = "Out"
)

// VisitorDetails carries the operator-entered fields of a check-in.
// Name, Phone, and Host must be non-empty; the presentation layer validates
// this before calling the ledger.
type VisitorDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Purpose string `json:"purpose"`
	Host    string `json:"host"`
	Notes   string `json:"notes,omitempty"`
}

// VisitorRecord is one visit event. ID is a time-derived integer assigned at
// check-in, increasing within a single client process. EntryTime and ExitTime
// are display-formatted strings; CreatedAt is the sortable RFC 3339 form.
// Status transitions In -> Out exactly once, via checkout, which also sets
// ExitTime.
type VisitorRecord struct {
	ID int64 `json:"id"`
	VisitorDetails
	EntryTime string        `json:"entryTime"`
	ExitTime  string        `json:"exitTime"`
	Status    VisitorStatus `json:"status"`
	LoggedBy  string        `json:"loggedBy"`
	CreatedAt string        `json:"createdAt"`
}

// Matches reports whether the record matches a search term: name, host, and
// purpose are compared case-insensitively, the phone by raw substring.
// An empty term matches everything.
func (r *VisitorRecord) Matches(term string) bool {
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(r.Name), lower) ||
		strings.Contains(r.Phone, term) ||
		strings.Contains(strings.ToLower(r.Host), lower) ||
		strings.Contains(strings.ToLower(r.Purpose), lower)
}
