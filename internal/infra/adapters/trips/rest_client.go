package trips

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/domain/ports/adapter"
)

var _ adapter.TripStore = (*RestClient)(nil)

// RestClient talks to the trip datastore service. Every call carries the
// request context plus the client-level timeout, so a wedged datastore can
// stall one day of generation but never the whole executor.
type RestClient struct {
	base   string
	apiKey string
	client *http.Client
}

func NewRestClient(baseURL, apiKey string, timeout time.Duration) (*RestClient, error) {
	if baseURL == "" {
		return nil, errors.New("trip store base url empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RestClient{
		base:   strings.TrimRight(baseURL, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type idResponse struct {
	ID string `json:"id"`
}

func (c *RestClient) CreateTrip(ctx context.Context, t *model.Trip) (string, error) {
	body := map[string]interface{}{
		"user_id":      t.UserID,
		"name":         t.Name,
		"destination":  t.Destination,
		"description":  t.Description,
		"start_date":   t.StartDate,
		"end_date":     t.EndDate,
		"currency":     t.Currency,
		"total_budget": t.TotalBudget,
	}
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/trips", body, &out); err != nil {
		return "", fmt.Errorf("create trip: %w", err)
	}
	return out.ID, nil
}

func (c *RestClient) CreateDay(ctx context.Context, d *model.TripDay) (string, error) {
	body := map[string]interface{}{
		"trip_id": d.TripID,
		"date":    d.Date,
		"title":   d.Title,
	}
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/trips/"+d.TripID+"/days", body, &out); err != nil {
		return "", fmt.Errorf("create day %s: %w", d.Date, err)
	}
	return out.ID, nil
}

func (c *RestClient) CreateStop(ctx context.Context, s *model.TripStop) (string, error) {
	body := map[string]interface{}{
		"trip_id":        s.TripID,
		"name":           s.Name,
		"arrival_date":   s.ArrivalDate,
		"departure_date": s.DepartureDate,
		"latitude":       s.Latitude,
		"longitude":      s.Longitude,
		"address":        s.Address,
		"place_id":       s.PlaceID,
	}
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/trips/"+s.TripID+"/stops", body, &out); err != nil {
		return "", fmt.Errorf("create stop %q: %w", s.Name, err)
	}
	return out.ID, nil
}

func (c *RestClient) CreateBudgetCategory(ctx context.Context, b *model.BudgetCategory) (string, error) {
	body := map[string]interface{}{
		"trip_id":  b.TripID,
		"name":     b.Name,
		"amount":   b.Amount,
		"currency": b.Currency,
	}
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/trips/"+b.TripID+"/budget-categories", body, &out); err != nil {
		return "", fmt.Errorf("create budget category %q: %w", b.Name, err)
	}
	return out.ID, nil
}

func (c *RestClient) InsertActivities(ctx context.Context, activities []model.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	items := make([]map[string]interface{}, 0, len(activities))
	for _, a := range activities {
		items = append(items, map[string]interface{}{
			"id":             a.ID,
			"trip_id":        a.TripID,
			"day_id":         a.DayID,
			"name":           a.Name,
			"description":    a.Description,
			"category":       a.Category,
			"start_time":     a.StartTime,
			"end_time":       a.EndTime,
			"check_in_date":  a.CheckInDate,
			"check_out_date": a.CheckOutDate,
			"location_name":  a.LocationName,
			"location_lat":   a.LocationLat,
			"location_lng":   a.LocationLng,
			"address":        a.Address,
			"map_url":        a.MapURL,
			"place_id":       a.PlaceID,
			"cost":           a.Cost,
			"currency":       a.Currency,
			"sort_order":     a.SortOrder,
		})
	}
	tripID := activities[0].TripID
	body := map[string]interface{}{"activities": items}
	if err := c.do(ctx, http.MethodPost, "/trips/"+tripID+"/activities/batch", body, nil); err != nil {
		return fmt.Errorf("insert activities: %w", err)
	}
	return nil
}

func (c *RestClient) UpdateCoverImage(ctx context.Context, tripID, imageURL string) error {
	body := map[string]interface{}{"cover_image": imageURL}
	if err := c.do(ctx, http.MethodPatch, "/trips/"+tripID, body, nil); err != nil {
		return fmt.Errorf("update cover image: %w", err)
	}
	return nil
}

func (c *RestClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("trip store http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
