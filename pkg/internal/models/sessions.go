package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SessionStatusActive = "active"
	SessionStatusEnded  = "ended"
)

// Session is a bounded real-time gathering. The code is the external handle
// participants type in; it identifies at most one active session at a time.
// Ended sessions keep their durable record, only the live projection is dropped.
type Session struct {
	BaseModel

	// Code uniqueness among active sessions is a partial unique index,
	// created during migration since the predicate cannot live in the tag.
	Code    string  `json:"code" gorm:"index"`
	AdminID *string `json:"admin_id,omitempty"`
	Status  string  `json:"status"`

	// PollIDs is the authoritative creation-ordered list of polls in this session.
	PollIDs datatypes.JSONSlice[uint] `json:"poll_ids"`

	EndedAt *time.Time `json:"ended_at"`
}

func (s Session) IsActive() bool {
	return s.Status == SessionStatusActive
}
