package model

import "time"

const (
	JournalStatusPending    = "pending"
	JournalStatusInProgress = "in_progress"
	JournalStatusManifested = "manifested"
	JournalStatusReleased   = "released"
)

// ValidJournalStatus reports whether s is one of the manifestation states.
func ValidJournalStatus(s string) bool {
	switch s {
	case JournalStatusPending, JournalStatusInProgress, JournalStatusManifested, JournalStatusReleased:
		return true
	}
	return false
}

type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Intention string    `json:"intention"`
	Gratitude string    `json:"gratitude,omitempty"`
	Status    string    `json:"status"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
