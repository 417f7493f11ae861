package model

import (
	"fmt"
	"net/url"
)

// PlaceResult is a normalized geocoding hit. Transient: cached only for the
// duration of one enrichment batch, never persisted on its own.
type PlaceResult struct {
	PlaceID          string
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	MapURL           string
	PhotoURL         string
}

// PlaceMapURL builds a map link for an enriched place.
func PlaceMapURL(placeID, name string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", name)
	if placeID != "" {
		q.Set("query_place_id", placeID)
	}
	return "https://www.google.com/maps/search/?" + q.Encode()
}

// FallbackMapURL synthesizes a coordinates-centered map link with the
// location name as a search hint, used when no enrichment match exists but
// approximate coordinates are already known.
func FallbackMapURL(name string, lat, lng float64) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", fmt.Sprintf("%s @%f,%f", name, lat, lng))
	return "https://www.google.com/maps/search/?" + q.Encode()
}
