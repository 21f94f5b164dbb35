package models

import (
	"time"

	"github.com/danielhkuo/quickly-meet/lifecycle"
	"github.com/danielhkuo/quickly-meet/selection"
	"github.com/danielhkuo/quickly-meet/slotgrid"
)

// Availability levels
const (
	LevelAvailable = selection.LevelAvailable
	LevelIfNeeded  = selection.LevelIfNeeded
)

// AnonymousName is shown for respondents who left their name empty
const AnonymousName = "Anonymous"

// Request types

type CreatePollRequest struct {
	Title               string    `json:"title" validate:"required,max=200"`
	Description         string    `json:"description" validate:"max=2000"`
	DatetimeStart       time.Time `json:"datetime_start" validate:"required"`
	DatetimeEnd         time.Time `json:"datetime_end" validate:"required"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	Timezone            string    `json:"timezone" validate:"max=64"`
}

// Nil fields are left unchanged
type UpdatePollRequest struct {
	Title               *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description         *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status              *string    `json:"status,omitempty"`
	DatetimeStart       *time.Time `json:"datetime_start,omitempty"`
	DatetimeEnd         *time.Time `json:"datetime_end,omitempty"`
	SlotDurationMinutes *int       `json:"slot_duration_minutes,omitempty"`
	FinalizedTime       *time.Time `json:"finalized_time,omitempty"`
	Timezone            *string    `json:"timezone,omitempty" validate:"omitempty,max=64"`
}

type SubmitResponseRequest struct {
	RespondentName  *string            `json:"respondent_name,omitempty" validate:"omitempty,max=100"`
	RespondentEmail *string            `json:"respondent_email,omitempty" validate:"omitempty,email,max=254"`
	PersonID        *int64             `json:"person_id,omitempty"`
	Availabilities  []AvailabilitySlot `json:"availabilities" validate:"dive"`
}

type UpdateResponseRequest struct {
	Availabilities []AvailabilitySlot `json:"availabilities" validate:"dive"`
}

// SelectionRequest replays pointer events against a poll's grid
type SelectionRequest struct {
	Level    int               `json:"level,omitempty"`
	Selected map[string]int    `json:"selected,omitempty"`
	Events   []selection.Event `json:"events"`
}

// Response types

type CreatePollResponse struct {
	Poll     Poll   `json:"poll"`
	AdminKey string `json:"admin_key"`
	ShareURL string `json:"share_url"`
}

type SubmitResponseResponse struct {
	ResponseID int64  `json:"response_id"`
	EditToken  string `json:"edit_token"`
}

type UpdateResponseResponse struct {
	ResponseID int64  `json:"response_id"`
	Status     string `json:"status"`
}

type DeletePollResponse struct {
	Deleted bool  `json:"deleted"`
	PollID  int64 `json:"poll_id"`
}

type PollView struct {
	Poll Poll           `json:"poll"`
	Grid *slotgrid.Grid `json:"grid"`
}

type PollResults struct {
	Poll          Poll              `json:"poll"`
	ResponseCount int               `json:"response_count"`
	Aggregated    []SlotAggregation `json:"aggregated"`
	BestSlots     []SlotAggregation `json:"best_slots"`
	Grid          *slotgrid.Grid    `json:"grid,omitempty"`
	ETag          string            `json:"-"`
}

type PollPreviewResponse struct {
	Title           string           `json:"title"`
	Status          lifecycle.Status `json:"status"`
	SlotCount       int              `json:"slot_count"`
	ResponseCount   int              `json:"response_count"`
	LastResponseAt  *time.Time       `json:"last_response_at,omitempty"`
	LastResponseAgo string           `json:"last_response_ago,omitempty"`
}

type SelectionResponse struct {
	State          string             `json:"state"`
	Availabilities []AvailabilitySlot `json:"availabilities"`
}

// Domain types

type Poll struct {
	ID                  int64            `json:"id"`
	Slug                string           `json:"slug"`
	Title               string           `json:"title"`
	Description         string           `json:"description,omitempty"`
	Status              lifecycle.Status `json:"status"`
	DatetimeStart       time.Time        `json:"datetime_start"`
	DatetimeEnd         time.Time        `json:"datetime_end"`
	SlotDurationMinutes int              `json:"slot_duration_minutes"`
	Timezone            string           `json:"timezone"`
	FinalizedTime       *time.Time       `json:"finalized_time,omitempty"`
	ResponseCount       int              `json:"response_count"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type AvailabilitySlot struct {
	SlotStart         time.Time `json:"slot_start" validate:"required"`
	SlotEnd           time.Time `json:"slot_end" validate:"required"`
	AvailabilityLevel int       `json:"availability_level" validate:"oneof=1 2"`
}

type PollResponse struct {
	ID              int64              `json:"id"`
	PollID          int64              `json:"poll_id"`
	RespondentName  *string            `json:"respondent_name,omitempty"`
	RespondentEmail *string            `json:"respondent_email,omitempty"`
	PersonID        *int64             `json:"person_id,omitempty"`
	Availabilities  []AvailabilitySlot `json:"availabilities"`
	EditTokenHash   string             `json:"-"` // Never expose in JSON
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// DisplayName returns the respondent's name, or AnonymousName
func (r PollResponse) DisplayName() string {
	if r.RespondentName == nil || *r.RespondentName == "" {
		return AnonymousName
	}
	return *r.RespondentName
}

type SlotAggregation struct {
	SlotStart      time.Time `json:"slot_start"`
	SlotEnd        time.Time `json:"slot_end"`
	AvailableCount int       `json:"available_count"`
	IfNeededCount  int       `json:"if_needed_count"`
	TotalCount     int       `json:"total_count"`
	Respondents    []string  `json:"respondents"`
	Everyone       bool      `json:"everyone_available,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
