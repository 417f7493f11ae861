package model

import "encoding/json"

// PlanContext is the structured input distilled from the planning
// conversation. All fields except Destination/StartDate/EndDate are
// optional; TripID selects enhance mode when present.
type PlanContext struct {
	TripID      string  `json:"trip_id,omitempty"`
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"` // YYYY-MM-DD
	EndDate     string  `json:"end_date"`   // YYYY-MM-DD
	Currency    string  `json:"currency,omitempty"`
	Travelers   int     `json:"travelers,omitempty"`
	Budget      float64 `json:"budget,omitempty"`

	Interests []string `json:"interests,omitempty"`
	// Memory carries summarized prior-conversation facts about the user.
	Memory  string `json:"memory,omitempty"`
	Weather string `json:"weather,omitempty"`
	// ExistingTrip is a snapshot of the current trip in enhance mode,
	// forwarded verbatim to the prompt builder.
	ExistingTrip json.RawMessage `json:"existing_trip,omitempty"`
}

// EnhanceMode reports whether generation targets an existing trip.
func (c PlanContext) EnhanceMode() bool { return c.TripID != "" }

// Empty reports whether the context carries no usable input at all.
func (c PlanContext) Empty() bool {
	return c.Destination == "" && c.TripID == "" && c.StartDate == "" && c.EndDate == ""
}
