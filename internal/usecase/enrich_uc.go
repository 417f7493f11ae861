package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/domain/ports/adapter"
	"travel-ai-planner/internal/infra/metrics"
)

// DefaultEnrichConcurrency caps simultaneous geocoder requests per batch.
const DefaultEnrichConcurrency = 5

// EnrichItem is one keyed lookup request. Items sharing a key are looked up
// once per batch.
type EnrichItem struct {
	Key   string
	Query string
}

// Enricher is what the orchestrator needs from place enrichment.
type Enricher interface {
	Lookup(ctx context.Context, query string) *model.PlaceResult
	EnrichBatch(ctx context.Context, items []EnrichItem, concurrency int) map[string]*model.PlaceResult
	EnrichActivities(ctx context.Context, structure *model.PlanStructure, date, destination string, acts []model.Activity)
}

// Compile-time check
var _ Enricher = (*EnrichmentService)(nil)

type EnrichmentService struct {
	places      adapter.PlaceAdapter
	concurrency int
	log         *zerolog.Logger
}

func NewEnrichmentService(places adapter.PlaceAdapter, concurrency int, logger *zerolog.Logger) *EnrichmentService {
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	compLog := logger.With().Str("component", "EnrichmentService").Logger()
	return &EnrichmentService{places: places, concurrency: concurrency, log: &compLog}
}

// Lookup performs a single advisory lookup. Misses and upstream failures
// both come back as nil; enrichment never fails a caller.
func (s *EnrichmentService) Lookup(ctx context.Context, query string) *model.PlaceResult {
	res, err := s.places.Lookup(ctx, query)
	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("place lookup failed")
		metrics.IncEnrichment("error")
		return nil
	}
	if res == nil {
		metrics.IncEnrichment("miss")
		return nil
	}
	metrics.IncEnrichment("hit")
	return res
}

// EnrichBatch resolves items in chunks of at most `concurrency` concurrent
// lookups, deduplicating by key before dispatch so the same named place is
// never looked up twice in one batch.
func (s *EnrichmentService) EnrichBatch(ctx context.Context, items []EnrichItem, concurrency int) map[string]*model.PlaceResult {
	if concurrency <= 0 {
		concurrency = s.concurrency
	}

	seen := make(map[string]struct{}, len(items))
	unique := make([]EnrichItem, 0, len(items))
	for _, it := range items {
		if it.Key == "" {
			continue
		}
		if _, dup := seen[it.Key]; dup {
			continue
		}
		seen[it.Key] = struct{}{}
		unique = append(unique, it)
	}

	out := make(map[string]*model.PlaceResult, len(unique))
	var mu sync.Mutex

	for start := 0; start < len(unique); start += concurrency {
		end := start + concurrency
		if end > len(unique) {
			end = len(unique)
		}
		var wg sync.WaitGroup
		for _, it := range unique[start:end] {
			wg.Add(1)
			go func(it EnrichItem) {
				defer wg.Done()
				if res := s.Lookup(ctx, it.Query); res != nil {
					mu.Lock()
					out[it.Key] = res
					mu.Unlock()
				}
			}(it)
		}
		wg.Wait()
	}
	return out
}

// EnrichActivities fills coordinates, address and map link for one day's
// activities in place. The lookup query is qualified by the stop active on
// that date, falling back to the trip's overall destination, so a landmark
// on a multi-city route resolves against the right city.
func (s *EnrichmentService) EnrichActivities(ctx context.Context, structure *model.PlanStructure, date, destination string, acts []model.Activity) {
	locality := destination
	if stop := structure.StopFor(date); stop != nil && stop.Name != "" {
		locality = stop.Name
	}

	items := make([]EnrichItem, 0, len(acts))
	for i := range acts {
		if acts[i].LocationName == "" {
			continue
		}
		q := fmt.Sprintf("%s, %s", acts[i].LocationName, locality)
		items = append(items, EnrichItem{Key: q, Query: q})
	}

	results := s.EnrichBatch(ctx, items, s.concurrency)

	for i := range acts {
		a := &acts[i]
		if a.LocationName == "" {
			continue
		}
		key := fmt.Sprintf("%s, %s", a.LocationName, locality)
		if res, ok := results[key]; ok {
			lat, lng := res.Latitude, res.Longitude
			a.LocationLat = &lat
			a.LocationLng = &lng
			a.Address = res.FormattedAddress
			a.PlaceID = res.PlaceID
			a.MapURL = model.PlaceMapURL(res.PlaceID, a.LocationName)
			continue
		}
		// No match but the model supplied approximate coordinates:
		// still give the client a usable link.
		if a.MapURL == "" && a.LocationLat != nil && a.LocationLng != nil {
			a.MapURL = model.FallbackMapURL(a.LocationName, *a.LocationLat, *a.LocationLng)
		}
	}
}
