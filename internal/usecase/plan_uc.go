package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/domain/model"
	"travel-ai-planner/internal/domain/ports/adapter"
	"travel-ai-planner/internal/domain/ports/repository"
	"travel-ai-planner/internal/infra/metrics"
)

// Credit cost schedule. Stable contract: the structure phase costs a flat
// 3 units once; activities cost 1 unit per started 7-day block, charged at
// day indices 0, 7, 14, ...
const (
	structureCreditCost = 3
	activityBlockDays   = 7
	activityBlockCost   = 1
)

// errJobCancelled marks the cooperative-cancellation exit; it is
// bookkeeping, not a failure.
var errJobCancelled = errors.New("job cancelled")

// Enqueuer hands a background task to the worker pool.
type Enqueuer interface {
	Submit(task func(ctx context.Context) error) error
}

// Locker guards the single-executor invariant per job. Optional; a nil
// locker skips leasing (single-process deployments).
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase drives a plan-generation job from submission through the
// two-phase generation to a terminal state.
type PlanUseCase interface {
	// Submit persists a pending job and launches exactly one background
	// execution. It never blocks on generation.
	Submit(ctx context.Context, userID string, pc model.PlanContext, msgs []model.ChatMessage, structure *model.PlanStructure) (jobID string, err error)
	// Execute runs the background generation for one job. Exported so the
	// worker pool and the sweeper can drive it.
	Execute(ctx context.Context, jobID string)
}

type planUC struct {
	jobs   repository.PlanJobRepository
	ledger repository.CreditLedger
	tm     repository.TransactionManager
	trips  adapter.TripStore
	ai     adapter.CompletionAdapter
	enrich Enricher
	notify NotificationUseCase
	queue  Enqueuer
	locker Locker

	model    string
	leaseTTL time.Duration
	log      *zerolog.Logger
}

func NewPlanUseCase(
	jobs repository.PlanJobRepository,
	ledger repository.CreditLedger,
	tm repository.TransactionManager,
	trips adapter.TripStore,
	ai adapter.CompletionAdapter,
	enrich Enricher,
	notify NotificationUseCase,
	queue Enqueuer,
	locker Locker,
	modelName string,
	logger *zerolog.Logger,
) *planUC {
	compLog := logger.With().Str("component", "PlanUC").Logger()
	return &planUC{
		jobs:     jobs,
		ledger:   ledger,
		tm:       tm,
		trips:    trips,
		ai:       ai,
		enrich:   enrich,
		notify:   notify,
		queue:    queue,
		locker:   locker,
		model:    modelName,
		leaseTTL: 30 * time.Minute,
		log:      &compLog,
	}
}

func (uc *planUC) Submit(ctx context.Context, userID string, pc model.PlanContext, msgs []model.ChatMessage, structure *model.PlanStructure) (string, error) {
	if userID == "" || pc.Empty() || len(msgs) == 0 {
		return "", domain.ErrInvalidArgument
	}

	job := model.NewPlanJob(ulid.Make().String(), userID, pc, msgs)
	if structure != nil {
		job.Structure = structure
		job.Progress.TotalDays = len(structure.Days)
	}
	if err := uc.jobs.Create(ctx, nil, job); err != nil {
		return "", err
	}

	jobID := job.ID
	if err := uc.queue.Submit(func(taskCtx context.Context) error {
		uc.Execute(taskCtx, jobID)
		return nil
	}); err != nil {
		// The caller already has nothing to poll if we silently drop the
		// task, so surface the saturation on the record itself.
		uc.log.Error().Err(err).Str("job_id", jobID).Msg("could not enqueue plan job")
		reason := "generation could not be scheduled, please retry"
		st := model.JobStatusFailed
		now := time.Now()
		_ = uc.jobs.Patch(ctx, nil, jobID, repository.JobPatch{Status: &st, Error: &reason, CompletedAt: &now})
		return "", err
	}
	uc.log.Info().Str("job_id", jobID).Str("user_id", userID).Bool("enhance", pc.EnhanceMode()).Msg("plan job submitted")
	return jobID, nil
}

func (uc *planUC) Execute(ctx context.Context, jobID string) {
	log := uc.log.With().Str("job_id", jobID).Logger()

	if uc.locker != nil {
		token, err := uc.locker.TryLock(ctx, "plan_job_lock:"+jobID, uc.leaseTTL)
		if err != nil {
			log.Warn().Err(err).Msg("job lease held elsewhere, skipping")
			return
		}
		defer func() { _ = uc.locker.Unlock(context.Background(), "plan_job_lock:"+jobID, token) }()
	}

	job, err := uc.jobs.FindByID(ctx, nil, jobID)
	if err != nil {
		log.Error().Err(err).Msg("plan job not found")
		return
	}
	if job.Status.Terminal() {
		return
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			uc.fail(job, fmt.Sprintf("internal error: %v", r))
		}
		metrics.ObservePlanJobDuration(time.Since(start).Seconds())
	}()

	st := model.JobStatusGenerating
	if err := uc.jobs.Patch(ctx, nil, job.ID, repository.JobPatch{Status: &st}); err != nil {
		log.Error().Err(err).Msg("could not mark job generating")
		return
	}
	job.Status = st

	if err := uc.run(ctx, job, &log); err != nil {
		if errors.Is(err, errJobCancelled) {
			metrics.IncPlanJob(string(model.JobStatusCancelled))
			log.Info().Msg("plan job cancelled")
			return
		}
		uc.fail(job, err.Error())
		return
	}
	uc.complete(job, &log)
}

// run executes phases 1-3. Any returned error other than errJobCancelled
// fails the job with that message.
func (uc *planUC) run(ctx context.Context, job *model.PlanJob, log *zerolog.Logger) error {
	// --- Phase 1: structure ---
	if job.Structure == nil {
		if err := uc.charge(ctx, job, "structure", structureCreditCost); err != nil {
			if errors.Is(err, domain.ErrInsufficientCredits) {
				return fmt.Errorf("not enough credits to generate a plan (%d required)", structureCreditCost)
			}
			return err
		}

		raw, err := uc.completeWithMetrics(ctx, structureSystemPrompt, buildStructureMessages(job))
		if err != nil {
			// The charge produced no value; compensate before failing.
			next := job.CreditsCharged - structureCreditCost
			rerr := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
				if err := uc.ledger.Refund(ctx, tx, job.UserID, structureCreditCost); err != nil {
					return err
				}
				return uc.jobs.Patch(ctx, tx, job.ID, repository.JobPatch{CreditsCharged: &next})
			})
			if rerr != nil {
				log.Error().Err(rerr).Msg("structure refund failed")
			} else {
				job.CreditsCharged = next
				metrics.AddCreditRefund(structureCreditCost)
			}
			return fmt.Errorf("structure generation failed: %w", err)
		}

		structure, err := ParseStructure(raw)
		if err != nil {
			return fmt.Errorf("could not understand the generated plan structure: %w", err)
		}
		job.Structure = structure
	}

	// Persist skeleton + day count before any database rows exist, so an
	// observer sees the shape of the trip immediately.
	job.Progress.Phase = model.PhaseStructure
	job.Progress.TotalDays = len(job.Structure.Days)
	if err := uc.jobs.Patch(ctx, nil, job.ID, repository.JobPatch{Structure: job.Structure, Progress: &job.Progress}); err != nil {
		return err
	}

	// --- Phase 2: skeleton persistence ---
	destination, currency := uc.resolveDestination(job)
	tripID, dayIDs, err := uc.persistSkeleton(ctx, job, destination, currency, log)
	if err != nil {
		return err
	}

	// --- Phase 3: per-day activities ---
	return uc.runActivities(ctx, job, tripID, destination, currency, dayIDs, log)
}

// resolveDestination derives destination/currency, context winning over
// structure when both carry a value.
func (uc *planUC) resolveDestination(job *model.PlanJob) (string, string) {
	destination := job.Context.Destination
	if destination == "" {
		destination = job.Structure.Trip.Destination
	}
	currency := job.Context.Currency
	if currency == "" {
		currency = "USD"
	}
	return destination, currency
}

func (uc *planUC) persistSkeleton(ctx context.Context, job *model.PlanJob, destination, currency string, log *zerolog.Logger) (string, map[string]string, error) {
	st := job.Structure

	tripID := job.Context.TripID
	if tripID == "" {
		id, err := uc.trips.CreateTrip(ctx, &model.Trip{
			ID:          uuid.NewString(),
			UserID:      job.UserID,
			Name:        st.Trip.Name,
			Destination: destination,
			Description: st.Trip.Description,
			StartDate:   st.Trip.StartDate,
			EndDate:     st.Trip.EndDate,
			Currency:    currency,
			TotalBudget: st.Trip.TotalBudget,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			return "", nil, fmt.Errorf("could not create trip: %w", err)
		}
		tripID = id
	}
	if tripID == "" {
		return "", nil, domain.ErrTripUnresolved
	}

	job.TripID = &tripID
	if err := uc.jobs.Patch(ctx, nil, job.ID, repository.JobPatch{TripID: &tripID}); err != nil {
		return "", nil, err
	}

	dayIDs := make(map[string]string, len(st.Days))
	for _, d := range st.Days {
		id, err := uc.trips.CreateDay(ctx, &model.TripDay{
			ID:     uuid.NewString(),
			TripID: tripID,
			Date:   d.Date,
			Title:  d.Title,
		})
		if err != nil {
			return "", nil, fmt.Errorf("could not create day %s: %w", d.Date, err)
		}
		dayIDs[d.Date] = id
	}
	job.Progress.TripID = tripID

	for i := range st.Stops {
		stop := &st.Stops[i]
		if stop.Latitude == nil || stop.Longitude == nil {
			if res := uc.enrich.Lookup(ctx, fmt.Sprintf("%s, %s", stop.Name, destination)); res != nil {
				lat, lng := res.Latitude, res.Longitude
				stop.Latitude = &lat
				stop.Longitude = &lng
				stop.Address = res.FormattedAddress
				stop.PlaceID = res.PlaceID
			}
		}
		if _, err := uc.trips.CreateStop(ctx, &model.TripStop{
			ID:            uuid.NewString(),
			TripID:        tripID,
			Name:          stop.Name,
			ArrivalDate:   stop.ArrivalDate,
			DepartureDate: stop.DepartureDate,
			Latitude:      stop.Latitude,
			Longitude:     stop.Longitude,
			Address:       stop.Address,
			PlaceID:       stop.PlaceID,
		}); err != nil {
			return "", nil, fmt.Errorf("could not create stop %q: %w", stop.Name, err)
		}
	}

	for _, b := range st.BudgetCategories {
		if _, err := uc.trips.CreateBudgetCategory(ctx, &model.BudgetCategory{
			ID:       uuid.NewString(),
			TripID:   tripID,
			Name:     b.Name,
			Amount:   b.Amount,
			Currency: currency,
		}); err != nil {
			return "", nil, fmt.Errorf("could not create budget category %q: %w", b.Name, err)
		}
	}

	job.Progress.Phase = model.PhaseActivities
	if err := uc.jobs.Patch(ctx, nil, job.ID, repository.JobPatch{Progress: &job.Progress}); err != nil {
		return "", nil, err
	}

	uc.updateCoverImage(tripID, destination)

	return tripID, dayIDs, nil
}

// updateCoverImage is fire-and-forget: a missing or failed cover lookup
// must never fail the job.
func (uc *planUC) updateCoverImage(tripID, destination string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		res := uc.enrich.Lookup(ctx, destination)
		if res == nil || res.PhotoURL == "" {
			return
		}
		if err := uc.trips.UpdateCoverImage(ctx, tripID, res.PhotoURL); err != nil {
			uc.log.Debug().Err(err).Str("trip_id", tripID).Msg("cover image update failed")
		}
	}()
}

func (uc *planUC) runActivities(ctx context.Context, job *model.PlanJob, tripID, destination, currency string, dayIDs map[string]string, log *zerolog.Logger) error {
	total := len(job.Structure.Days)

	for i, day := range job.Structure.Days {
		// Cancellation is cooperative and polled once per day boundary;
		// prior days' work stays committed.
		if status, err := uc.jobs.GetStatus(ctx, job.ID); err == nil && status == model.JobStatusCancelled {
			now := time.Now()
			_ = uc.jobs.Patch(context.Background(), nil, job.ID, repository.JobPatch{
				CreditsCharged: &job.CreditsCharged,
				CompletedAt:    &now,
			})
			return errJobCancelled
		}

		if i%activityBlockDays == 0 {
			if err := uc.charge(ctx, job, "activities", activityBlockCost); err != nil {
				if errors.Is(err, domain.ErrInsufficientCredits) {
					_ = uc.jobs.Patch(ctx, nil, job.ID, repository.JobPatch{Progress: &job.Progress})
					return fmt.Errorf("ran out of credits after %d of %d days; generated days are kept", i, total)
				}
				return err
			}
		}

		raw, err := uc.completeWithMetrics(ctx, activitiesSystemPrompt, buildDayMessages(job, day, destination))
		if err != nil {
			// One day must never abort the trip.
			log.Warn().Err(err).Str("date", day.Date).Msg("day generation failed, skipping")
			metrics.IncPlanDay("model_error")
			uc.advanceProgress(ctx, job, i+1, day.Date)
			continue
		}

		acts, err := ParseActivities(raw)
		if err != nil {
			log.Warn().Err(err).Str("date", day.Date).Msg("day response unparseable, skipping")
			metrics.IncPlanDay("parse_error")
			uc.advanceProgress(ctx, job, i+1, day.Date)
			continue
		}

		batch := make([]model.Activity, 0, len(acts))
		for idx, g := range acts {
			batch = append(batch, model.BuildActivity(uuid.NewString(), tripID, dayIDs[day.Date], currency, g, idx))
		}
		uc.enrich.EnrichActivities(ctx, job.Structure, day.Date, destination, batch)

		if len(batch) > 0 {
			if err := uc.trips.InsertActivities(ctx, batch); err != nil {
				log.Warn().Err(err).Str("date", day.Date).Msg("activity insert failed, skipping day")
				metrics.IncPlanDay("store_error")
				uc.advanceProgress(ctx, job, i+1, day.Date)
				continue
			}
		}

		metrics.IncPlanDay("ok")
		uc.advanceProgress(ctx, job, i+1, day.Date)
	}
	return nil
}

// advanceProgress is the only writer of the cursor; current_day never
// decreases within one execution.
func (uc *planUC) advanceProgress(ctx context.Context, job *model.PlanJob, currentDay int, date string) {
	job.Progress.CurrentDay = currentDay
	job.Progress.CurrentDate = date
	if err := uc.jobs.Patch(ctx, nil, job.ID, repository.JobPatch{Progress: &job.Progress}); err != nil {
		uc.log.Warn().Err(err).Str("job_id", job.ID).Msg("progress update failed")
	}
}

// charge deducts from the ledger and advances the audit counter in one
// transaction. The counter only ever shrinks when a charge is fully
// reversed before producing value (structure refund).
func (uc *planUC) charge(ctx context.Context, job *model.PlanJob, phase string, amount int64) error {
	next := job.CreditsCharged + amount
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if _, err := uc.ledger.Deduct(ctx, tx, job.UserID, amount); err != nil {
			return err
		}
		return uc.jobs.Patch(ctx, tx, job.ID, repository.JobPatch{CreditsCharged: &next})
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			metrics.IncCreditBlocked(phase)
		}
		return err
	}
	job.CreditsCharged = next
	metrics.AddCreditCharge(phase, amount)
	return nil
}

func (uc *planUC) completeWithMetrics(ctx context.Context, system string, msgs []adapter.Message) (string, error) {
	tokens, _ := uc.ai.CountTokens(ctx, uc.model, msgs)
	start := time.Now()
	raw, err := uc.ai.Complete(ctx, uc.model, system, msgs)
	metrics.ObserveCompletion(uc.model, tokens, int(time.Since(start)/time.Millisecond), err == nil)
	return raw, err
}

func (uc *planUC) complete(job *model.PlanJob, log *zerolog.Logger) {
	// Terminal updates run on a background context so a dying request or
	// pool shutdown cannot leave the record half-finished.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	st := model.JobStatusCompleted
	job.Progress.Phase = model.PhaseDone
	err := uc.jobs.Patch(ctx, nil, job.ID, repository.JobPatch{
		Status:         &st,
		Progress:       &job.Progress,
		CreditsCharged: &job.CreditsCharged,
		CompletedAt:    &now,
	})
	if err != nil {
		log.Error().Err(err).Msg("could not mark job completed")
		return
	}
	metrics.IncPlanJob(string(st))
	log.Info().Int64("credits_charged", job.CreditsCharged).Msg("plan job completed")

	tripID := ""
	if job.TripID != nil {
		tripID = *job.TripID
	}
	destination, _ := uc.resolveDestination(job)
	uc.notify.NotifyCompletion(ctx, job.UserID, job.ID, tripID, destination)
}

func (uc *planUC) fail(job *model.PlanJob, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	st := model.JobStatusFailed
	err := uc.jobs.Patch(ctx, nil, job.ID, repository.JobPatch{
		Status:         &st,
		Error:          &reason,
		CreditsCharged: &job.CreditsCharged,
		Progress:       &job.Progress,
		CompletedAt:    &now,
	})
	if err != nil {
		uc.log.Error().Err(err).Str("job_id", job.ID).Msg("could not mark job failed")
	}
	metrics.IncPlanJob(string(st))
	uc.log.Error().Str("job_id", job.ID).Str("reason", reason).Msg("plan job failed")
}
