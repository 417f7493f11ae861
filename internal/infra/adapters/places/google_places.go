package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/domain/ports/adapter"
)

var _ adapter.PlaceAdapter = (*GooglePlacesAdapter)(nil)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// GooglePlacesAdapter resolves free-text queries through the Places text
// search API. A query with no results is not an error; Lookup returns
// (nil, nil) and the caller moves on.
type GooglePlacesAdapter struct {
	apiKey string
	base   string
	client *http.Client
}

func NewGooglePlacesAdapter(apiKey, baseURL string, timeout time.Duration) (*GooglePlacesAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("places api key empty")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GooglePlacesAdapter{
		apiKey: apiKey,
		base:   baseURL,
		client: &http.Client{Timeout: timeout},
	}, nil
}

type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

func (g *GooglePlacesAdapter) Lookup(ctx context.Context, query string) (*model.PlaceResult, error) {
	if query == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("key", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/textsearch/json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("places http %d", resp.StatusCode)
	}

	var payload textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Status == "ZERO_RESULTS" || len(payload.Results) == 0 {
		return nil, nil
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("places status %s", payload.Status)
	}

	top := payload.Results[0]
	out := &model.PlaceResult{
		PlaceID:          top.PlaceID,
		Latitude:         top.Geometry.Location.Lat,
		Longitude:        top.Geometry.Location.Lng,
		FormattedAddress: top.FormattedAddress,
		MapURL:           model.PlaceMapURL(top.PlaceID, top.Name),
	}
	if len(top.Photos) > 0 && top.Photos[0].PhotoReference != "" {
		out.PhotoURL = g.photoURL(top.Photos[0].PhotoReference)
	}
	return out, nil
}

func (g *GooglePlacesAdapter) photoURL(ref string) string {
	q := url.Values{}
	q.Set("maxwidth", "1200")
	q.Set("photo_reference", ref)
	q.Set("key", g.apiKey)
	return g.base + "/photo?" + q.Encode()
}
