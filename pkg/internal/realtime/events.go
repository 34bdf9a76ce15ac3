package realtime

import (
	jsoniter "github.com/json-iterator/go"
)

// Wire event names. Field names on realtime payloads stay camelCase to keep
// the channel protocol compatible with existing clients, unlike the REST
// surface which follows the snake_case model tags.
const (
	EventJoinSession = "join-session"
	EventCreatePoll  = "create-poll"
	EventSubmitVote  = "submit-vote"
	EventEndPoll     = "end-poll"
	EventEndSession  = "end-session"

	EventSessionJoined = "session-joined"
	EventNewPoll       = "new-poll"
	EventPollUpdated   = "poll-updated"
	EventSessionEnded  = "session-ended"
	EventError         = "error"
)

// Error codes carried on the outbound error event.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeStateConflict    = "STATE_CONFLICT"
	CodePersistenceError = "PERSISTENCE_ERROR"
)

// Frame is the envelope every channel message travels in, both directions.
type Frame struct {
	Event   string              `json:"event"`
	Payload jsoniter.RawMessage `json:"payload,omitempty"`
}

type JoinSessionPayload struct {
	SessionCode string `json:"sessionCode"`
	UserID      string `json:"userId"`
}

type CreatePollPayload struct {
	SessionCode string   `json:"sessionCode"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Duration    *int     `json:"duration,omitempty"`
}

type SubmitVotePayload struct {
	PollID         uint   `json:"pollId"`
	UserID         string `json:"userId"`
	SelectedOption int    `json:"selectedOption"`
}

type EndPollPayload struct {
	SessionCode string `json:"sessionCode"`
	PollID      uint   `json:"pollId"`
}

type EndSessionPayload struct {
	SessionCode string `json:"sessionCode"`
}

type SessionJoinedPayload struct {
	SessionID   uint   `json:"sessionId"`
	SessionCode string `json:"sessionCode"`
	Message     string `json:"message"`
}

type NewPollPayload struct {
	PollID   uint          `json:"pollId"`
	Question string        `json:"question"`
	Options  []string      `json:"options"`
	Duration *int          `json:"duration,omitempty"`
	IsActive bool          `json:"isActive"`
	Results  map[int]int64 `json:"results"`
}

type PollResults struct {
	Question  string        `json:"question"`
	Options   []string      `json:"options"`
	Responses map[int]int64 `json:"responses"`
}

type PollUpdatedPayload struct {
	PollID   uint        `json:"pollId"`
	Results  PollResults `json:"results"`
	IsActive bool        `json:"isActive"`
}

type SessionEndedPayload struct {
	SessionCode string `json:"sessionCode"`
	Message     string `json:"message"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
