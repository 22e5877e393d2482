package catalog

import "strings"

// Status is the circulation state of a book. Every book is in exactly one
// state at all times.
type Status string

const (
	CheckedIn  Status = "CHECKED_IN"
	CheckedOut Status = "CHECKED_OUT"
)

// ParseStatus maps a raw token to a Status, case-insensitively. There is no
// default: an unrecognized token reports false and callers must reject the
// record.
func ParseStatus(text string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case string(CheckedIn):
		return CheckedIn, true
	case string(CheckedOut):
		return CheckedOut, true
	}
	return "", false
}

// Book represents a single entry in the library's collection.
// Barcode is the unique key; 0 means the book has not been persisted yet and
// the repository will assign one on insert. DueDate is an ISO-8601 date
// string and is non-empty only while the book is checked out.
type Book struct {
	Barcode int64  `json:"barcode"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Genre   string `json:"genre"`
	Status  Status `json:"status"`
	DueDate string `json:"due_date,omitempty"`
}
