//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/usecase"
)

func TestEnrichmentService_BatchDeduplicates(t *testing.T) {
	ctx := context.Background()
	places := NewMockPlaces()
	svc := usecase.NewEnrichmentService(places, 5, newTestLogger())

	items := []usecase.EnrichItem{
		{Key: "a", Query: "Alfama, Lisbon"},
		{Key: "b", Query: "Belem Tower, Lisbon"},
		{Key: "a", Query: "Alfama, Lisbon"},
		{Key: "a", Query: "Alfama, Lisbon"},
		{Key: "", Query: "ignored"},
	}
	out := svc.EnrichBatch(ctx, items, 5)

	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if len(places.Queries) != 2 {
		t.Errorf("duplicate keys must be looked up once: %d lookups", len(places.Queries))
	}
}

func TestEnrichmentService_BatchBoundsConcurrency(t *testing.T) {
	ctx := context.Background()
	places := NewMockPlaces()

	var inFlight, peak int64
	places.LookupFunc = func(ctx context.Context, query string) (*model.PlaceResult, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if cur <= p || atomic.CompareAndSwapInt64(&peak, p, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return &model.PlaceResult{PlaceID: query, Latitude: 1, Longitude: 2}, nil
	}

	svc := usecase.NewEnrichmentService(places, 5, newTestLogger())
	items := make([]usecase.EnrichItem, 0, 23)
	for i := 0; i < 23; i++ {
		q := fmt.Sprintf("query-%d", i)
		items = append(items, usecase.EnrichItem{Key: q, Query: q})
	}

	out := svc.EnrichBatch(ctx, items, 5)
	if len(out) != 23 {
		t.Fatalf("expected 23 results, got %d", len(out))
	}
	if p := atomic.LoadInt64(&peak); p > 5 {
		t.Errorf("expected at most 5 concurrent lookups, saw %d", p)
	}
}

func TestEnrichmentService_ActivityQueriesUseStopLocality(t *testing.T) {
	ctx := context.Background()
	places := NewMockPlaces()
	svc := usecase.NewEnrichmentService(places, 5, newTestLogger())

	structure := &model.PlanStructure{
		Trip: model.StructureTrip{Destination: "Portugal"},
		Stops: []model.StructureStop{
			{Name: "Porto", ArrivalDate: "2026-05-01", DepartureDate: "2026-05-03"},
			{Name: "Lisbon", ArrivalDate: "2026-05-04", DepartureDate: "2026-05-07"},
		},
	}
	acts := []model.Activity{{Name: "Dinner", LocationName: "Time Out Market"}}

	svc.EnrichActivities(ctx, structure, "2026-05-05", "Portugal", acts)

	found := false
	for _, q := range places.Queries {
		if q == "Time Out Market, Lisbon" {
			found = true
		}
		if strings.Contains(q, "Porto") {
			t.Errorf("wrong stop used for locality: %q", q)
		}
	}
	if !found {
		t.Errorf("expected lookup scoped to the active stop, got %v", places.Queries)
	}
	if acts[0].LocationLat == nil || acts[0].PlaceID == "" {
		t.Errorf("activity not enriched: %+v", acts[0])
	}
}

func TestEnrichmentService_FallbackMapLinkOnMiss(t *testing.T) {
	ctx := context.Background()
	places := NewMockPlaces()
	places.LookupFunc = func(ctx context.Context, query string) (*model.PlaceResult, error) {
		return nil, nil // always a miss
	}
	svc := usecase.NewEnrichmentService(places, 5, newTestLogger())

	lat, lng := 38.7, -9.1
	acts := []model.Activity{{
		Name:         "Viewpoint",
		LocationName: "Miradouro da Senhora do Monte",
		LocationLat:  &lat,
		LocationLng:  &lng,
	}}
	svc.EnrichActivities(ctx, &model.PlanStructure{}, "2026-05-01", "Lisbon", acts)

	if acts[0].MapURL == "" {
		t.Fatal("expected a fallback map link for coordinates without a match")
	}
	if !strings.Contains(acts[0].MapURL, "google.com/maps/search") {
		t.Errorf("unexpected map link: %q", acts[0].MapURL)
	}
}

func TestEnrichmentService_LookupErrorIsAdvisory(t *testing.T) {
	ctx := context.Background()
	places := NewMockPlaces()
	places.LookupFunc = func(ctx context.Context, query string) (*model.PlaceResult, error) {
		return nil, fmt.Errorf("geocoder down")
	}
	svc := usecase.NewEnrichmentService(places, 5, newTestLogger())

	if res := svc.Lookup(ctx, "anywhere"); res != nil {
		t.Errorf("expected nil on upstream error, got %+v", res)
	}

	acts := []model.Activity{{Name: "Walk", LocationName: "Baixa"}}
	svc.EnrichActivities(ctx, &model.PlanStructure{}, "2026-05-01", "Lisbon", acts)
	if acts[0].LocationLat != nil {
		t.Error("activity must stay untouched when the geocoder fails")
	}
}
