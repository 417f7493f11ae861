package model

// ActivityCategory values other readers rely on. Anything outside this set
// is coerced to "other" before persistence.
const (
	CategorySightseeing = "sightseeing"
	CategoryFood        = "food"
	CategoryActivity    = "activity"
	CategoryTransport   = "transport"
	CategoryHotel       = "hotel"
	CategoryShopping    = "shopping"
	CategoryRelaxation  = "relaxation"
	CategoryStop        = "stop"
	CategoryOther       = "other"
)

var activityCategories = map[string]struct{}{
	CategorySightseeing: {},
	CategoryFood:        {},
	CategoryActivity:    {},
	CategoryTransport:   {},
	CategoryHotel:       {},
	CategoryShopping:    {},
	CategoryRelaxation:  {},
	CategoryStop:        {},
	CategoryOther:       {},
}

// NormalizeCategory coerces unknown values to "other".
func NormalizeCategory(c string) string {
	if _, ok := activityCategories[c]; ok {
		return c
	}
	return CategoryOther
}

// GeneratedActivity is the shape the completion model produces for one
// scheduled activity, before validation and storage mapping.
type GeneratedActivity struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	StartTime    string   `json:"start_time,omitempty"` // HH:MM
	EndTime      string   `json:"end_time,omitempty"`
	CheckInDate  string   `json:"check_in_date,omitempty"` // hotels only
	CheckOutDate string   `json:"check_out_date,omitempty"`
	LocationName string   `json:"location_name,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Cost         float64  `json:"cost,omitempty"`
	SortOrder    *int     `json:"sort_order,omitempty"`
}

// Activity is the persisted storage form.
type Activity struct {
	ID           string
	TripID       string
	DayID        string
	Name         string
	Description  string
	Category     string
	StartTime    *string
	EndTime      *string
	CheckInDate  *string
	CheckOutDate *string
	LocationName string
	LocationLat  *float64
	LocationLng  *float64
	Address      string
	MapURL       string
	PlaceID      string
	Cost         float64
	Currency     string
	SortOrder    int
}

// BuildActivity maps a generated activity into storage form.
// Hotel activities never carry start/end times; non-hotel activities never
// carry check-in/check-out dates. SortOrder defaults to the array index.
func BuildActivity(id, tripID, dayID, currency string, g GeneratedActivity, idx int) Activity {
	a := Activity{
		ID:           id,
		TripID:       tripID,
		DayID:        dayID,
		Name:         g.Name,
		Description:  g.Description,
		Category:     NormalizeCategory(g.Category),
		LocationName: g.LocationName,
		LocationLat:  g.Latitude,
		LocationLng:  g.Longitude,
		Cost:         g.Cost,
		Currency:     currency,
		SortOrder:    idx,
	}
	if g.SortOrder != nil {
		a.SortOrder = *g.SortOrder
	}
	if a.Category == CategoryHotel {
		if g.CheckInDate != "" {
			v := g.CheckInDate
			a.CheckInDate = &v
		}
		if g.CheckOutDate != "" {
			v := g.CheckOutDate
			a.CheckOutDate = &v
		}
		return a
	}
	if g.StartTime != "" {
		v := g.StartTime
		a.StartTime = &v
	}
	if g.EndTime != "" {
		v := g.EndTime
		a.EndTime = &v
	}
	return a
}
