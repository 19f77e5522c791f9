package model

import "time"

// Draft statuses. PENDING_REVIEW is assigned at submission; the other two are
// set by an administrator through the review endpoint.
const (
	StatusPendingReview = "PENDING_REVIEW"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
)

// ValidStatus reports whether s is one of the recognized draft statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendingReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Draft represents a submitted article moving through the review workflow.
// This is a pure domain model with no database-specific dependencies or tags.
// StoredFileName references the object store entry, never the uploaded filename.
type Draft struct {
	ID string `json:"id"`

	// Author info
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	StudentID   string `json:"studentId"`
	Affiliation string `json:"affiliation"`
	Year        string `json:"year"`
	Major       string `json:"major"`

	// Article info
	Title        string   `json:"title"`
	AbstractText string   `json:"abstractText"`
	Category     string   `json:"category"` // cmps / math / phys
	Keywords     []string `json:"keywords"`

	// File & meta
	StoredFileName string    `json:"storedFileName"`
	CreatedAt      time.Time `json:"createdAt"`
	Status         string    `json:"status"`
}
