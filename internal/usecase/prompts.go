package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/domain/ports/adapter"
)

const structureSystemPrompt = `You are a travel planning assistant. Produce the skeleton of a trip as a single JSON object and nothing else. The object has keys "trip" (name, destination, description, start_date, end_date, total_budget), "stops" (name, arrival_date, departure_date), "days" (date, title; one entry per calendar day of the trip) and "budget_categories" (name, amount). Dates are YYYY-MM-DD. Do not include activities.`

const activitiesSystemPrompt = `You are a travel planning assistant. For the single requested date, produce a JSON object with one key "activities": an array of activities, each with name, description, category (one of sightseeing, food, activity, transport, hotel, shopping, relaxation, stop, other), start_time and end_time as HH:MM (omit both for hotels, which instead may carry check_in_date/check_out_date), location_name, cost and sort_order. Output JSON only.`

// buildStructureMessages assembles the structure-phase prompt from the
// planning context and the conversation that produced the request.
func buildStructureMessages(job *model.PlanJob) []adapter.Message {
	var sb strings.Builder
	c := job.Context
	fmt.Fprintf(&sb, "Plan a trip to %s from %s to %s.", c.Destination, c.StartDate, c.EndDate)
	if c.Currency != "" {
		fmt.Fprintf(&sb, " Currency: %s.", c.Currency)
	}
	if c.Travelers > 0 {
		fmt.Fprintf(&sb, " Travelers: %d.", c.Travelers)
	}
	if c.Budget > 0 {
		fmt.Fprintf(&sb, " Total budget: %.0f.", c.Budget)
	}
	if len(c.Interests) > 0 {
		fmt.Fprintf(&sb, " Interests: %s.", strings.Join(c.Interests, ", "))
	}
	if c.Weather != "" {
		fmt.Fprintf(&sb, " Weather outlook: %s.", c.Weather)
	}
	if c.Memory != "" {
		fmt.Fprintf(&sb, " About the traveler: %s.", c.Memory)
	}
	if c.EnhanceMode() && len(c.ExistingTrip) > 0 {
		existing, _ := json.Marshal(json.RawMessage(c.ExistingTrip))
		fmt.Fprintf(&sb, " Enhance this existing trip: %s", existing)
	}

	msgs := make([]adapter.Message, 0, len(job.Messages)+1)
	for _, m := range job.Messages {
		msgs = append(msgs, adapter.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, adapter.Message{Role: "user", Content: sb.String()})
	return msgs
}

// buildDayMessages scopes the activities prompt to exactly one date.
func buildDayMessages(job *model.PlanJob, day model.StructureDay, dest string) []adapter.Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate the activities for %s of the trip to %s.", day.Date, dest)
	if day.Title != "" {
		fmt.Fprintf(&sb, " Day theme: %s.", day.Title)
	}
	if stop := job.Structure.StopFor(day.Date); stop != nil {
		fmt.Fprintf(&sb, " The traveler is staying in %s on this date.", stop.Name)
	}
	if c := job.Context; c.Currency != "" {
		fmt.Fprintf(&sb, " Use %s for costs.", c.Currency)
	}
	return []adapter.Message{{Role: "user", Content: sb.String()}}
}
