package model

import "time"

// PlanStructure is the parsed output of the structure phase: the trip
// skeleton without activities.
type PlanStructure struct {
	Trip             StructureTrip     `json:"trip"`
	Stops            []StructureStop   `json:"stops"`
	Days             []StructureDay    `json:"days"`
	BudgetCategories []StructureBudget `json:"budget_categories"`
}

type StructureTrip struct {
	Name        string  `json:"name"`
	Destination string  `json:"destination"`
	Description string  `json:"description,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	TotalBudget float64 `json:"total_budget,omitempty"`
}

type StructureStop struct {
	Name          string   `json:"name"`
	ArrivalDate   string   `json:"arrival_date,omitempty"`
	DepartureDate string   `json:"departure_date,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Address       string   `json:"address,omitempty"`
	PlaceID       string   `json:"place_id,omitempty"`
}

type StructureDay struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Title string `json:"title,omitempty"`
}

type StructureBudget struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount,omitempty"`
}

// StopFor returns the stop whose arrival/departure window covers the given
// date, or nil. Dates compare lexicographically in YYYY-MM-DD form.
func (s *PlanStructure) StopFor(date string) *StructureStop {
	if s == nil || date == "" {
		return nil
	}
	for i := range s.Stops {
		st := &s.Stops[i]
		if st.ArrivalDate == "" || st.DepartureDate == "" {
			continue
		}
		if st.ArrivalDate <= date && date <= st.DepartureDate {
			return st
		}
	}
	return nil
}

// --- storage-side entities (created through the trip store) ---

type Trip struct {
	ID          string
	UserID      string
	Name        string
	Destination string
	Description string
	StartDate   string
	EndDate     string
	Currency    string
	TotalBudget float64
	CoverImage  string
	CreatedAt   time.Time
}

type TripDay struct {
	ID     string
	TripID string
	Date   string
	Title  string
}

type TripStop struct {
	ID            string
	TripID        string
	Name          string
	ArrivalDate   string
	DepartureDate string
	Latitude      *float64
	Longitude     *float64
	Address       string
	PlaceID       string
}

type BudgetCategory struct {
	ID       string
	TripID   string
	Name     string
	Amount   float64
	Currency string
}
