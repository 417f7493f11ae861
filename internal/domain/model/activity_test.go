//go:build !integration

package model_test

import (
	"testing"

	"travel-ai-planner/internal/domain/model"
)

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"sightseeing", "sightseeing"},
		{"food", "food"},
		{"hotel", "hotel"},
		{"stop", "stop"},
		{"other", "other"},
		{"nightlife", "other"},
		{"SIGHTSEEING", "other"},
		{"", "other"},
	}
	for _, tc := range cases {
		if got := model.NormalizeCategory(tc.in); got != tc.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildActivity_TimeFieldExclusivity(t *testing.T) {
	t.Run("hotel keeps dates and drops times", func(t *testing.T) {
		g := model.GeneratedActivity{
			Name:         "Hotel Avenida",
			Category:     "hotel",
			StartTime:    "14:00",
			EndTime:      "12:00",
			CheckInDate:  "2026-05-01",
			CheckOutDate: "2026-05-07",
		}
		a := model.BuildActivity("a1", "t1", "d1", "EUR", g, 0)
		if a.StartTime != nil || a.EndTime != nil {
			t.Error("hotel activity must not carry start/end times")
		}
		if a.CheckInDate == nil || *a.CheckInDate != "2026-05-01" {
			t.Errorf("check-in date lost: %+v", a.CheckInDate)
		}
		if a.CheckOutDate == nil || *a.CheckOutDate != "2026-05-07" {
			t.Errorf("check-out date lost: %+v", a.CheckOutDate)
		}
	})

	t.Run("non-hotel keeps times and drops dates", func(t *testing.T) {
		g := model.GeneratedActivity{
			Name:         "Tram 28",
			Category:     "sightseeing",
			StartTime:    "09:00",
			EndTime:      "10:30",
			CheckInDate:  "2026-05-01",
			CheckOutDate: "2026-05-02",
		}
		a := model.BuildActivity("a1", "t1", "d1", "EUR", g, 3)
		if a.CheckInDate != nil || a.CheckOutDate != nil {
			t.Error("non-hotel activity must not carry check-in/check-out dates")
		}
		if a.StartTime == nil || *a.StartTime != "09:00" {
			t.Errorf("start time lost: %+v", a.StartTime)
		}
	})

	t.Run("unknown category coerced before the exclusivity check", func(t *testing.T) {
		g := model.GeneratedActivity{
			Name:        "Mystery",
			Category:    "secret-club",
			StartTime:   "22:00",
			CheckInDate: "2026-05-01",
		}
		a := model.BuildActivity("a1", "t1", "d1", "EUR", g, 0)
		if a.Category != model.CategoryOther {
			t.Errorf("expected coercion to other, got %q", a.Category)
		}
		if a.CheckInDate != nil {
			t.Error("coerced non-hotel must drop check-in date")
		}
		if a.StartTime == nil {
			t.Error("coerced non-hotel keeps start time")
		}
	})
}

func TestBuildActivity_SortOrder(t *testing.T) {
	g := model.GeneratedActivity{Name: "Walk"}
	if a := model.BuildActivity("a1", "t1", "d1", "USD", g, 4); a.SortOrder != 4 {
		t.Errorf("expected index default 4, got %d", a.SortOrder)
	}
	explicit := 9
	g.SortOrder = &explicit
	if a := model.BuildActivity("a1", "t1", "d1", "USD", g, 4); a.SortOrder != 9 {
		t.Errorf("expected explicit order 9, got %d", a.SortOrder)
	}
}

func TestStopFor(t *testing.T) {
	st := &model.PlanStructure{
		Stops: []model.StructureStop{
			{Name: "Porto", ArrivalDate: "2026-05-01", DepartureDate: "2026-05-03"},
			{Name: "Lisbon", ArrivalDate: "2026-05-04", DepartureDate: "2026-05-07"},
			{Name: "Dateless"},
		},
	}

	if s := st.StopFor("2026-05-02"); s == nil || s.Name != "Porto" {
		t.Errorf("expected Porto, got %+v", s)
	}
	if s := st.StopFor("2026-05-04"); s == nil || s.Name != "Lisbon" {
		t.Errorf("expected Lisbon on boundary, got %+v", s)
	}
	if s := st.StopFor("2026-05-09"); s != nil {
		t.Errorf("expected no stop outside windows, got %+v", s)
	}
	if s := st.StopFor(""); s != nil {
		t.Errorf("expected nil for empty date, got %+v", s)
	}
}
