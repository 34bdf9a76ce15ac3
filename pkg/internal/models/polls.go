package models

import (
	"gorm.io/datatypes"
)

// Poll is one question posed within a session. Options are immutable once
// created; an option is identified by its position, not its text.
type Poll struct {
	BaseModel

	SessionID uint                        `json:"session_id" gorm:"index"`
	Question  string                      `json:"question"`
	Options   datatypes.JSONSlice[string] `json:"options"`

	// Duration is the intended voting window in seconds. Expiry is advisory
	// and reaches the coordinator as an ordinary end-poll event.
	Duration *int `json:"duration,omitempty"`

	IsActive bool `json:"is_active"`

	Metric PollMetric `json:"metric" gorm:"-"`
}

// PollMetric is the tally of a poll at a point in time, keyed by option index.
type PollMetric struct {
	TotalResponses int64         `json:"total_responses"`
	ByOption       map[int]int64 `json:"by_option"`
}
