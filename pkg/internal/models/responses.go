package models

// Response is one participant's vote. SelectedOption is a zero-based index
// into the referenced poll's options. Responses are never mutated or deleted.
type Response struct {
	BaseModel

	PollID         uint   `json:"poll_id" gorm:"index"`
	UserID         string `json:"user_id"`
	SelectedOption int    `json:"selected_option"`
}
