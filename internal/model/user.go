package model

import "time"

// User is a Telegram user (realtor) that has started the bot.
type User struct {
	ID        int64     `json:"id"` // Telegram user ID
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// DialogState names the step of a conversation that is waiting for free text input.
type DialogState string

// Dialog states. StateIdle means no text input is expected.
const (
	StateIdle           DialogState = ""
	StateFacilitySearch DialogState = "add_property_search"
	StateSearchArea     DialogState = "search_by_area"
	StateSearchBudget   DialogState = "search_by_budget"
	StateSearchCode     DialogState = "search_by_code"
	StateSettingValue   DialogState = "property_settings"
)

// UserState is the persisted conversation position of a user.
type UserState struct {
	UserID            int64
	CurrentPropertyID *string
	CurrentLotCode    *string
	State             DialogState
	StateData         string // Extra context of the state, e.g. the settings field being edited
	UpdatedAt         time.Time
}
