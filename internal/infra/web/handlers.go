package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"travel-ai-planner/internal/domain"
	"travel-ai-planner/internal/domain/model"
)

type generateRequest struct {
	Context   model.PlanContext    `json:"context"`
	Messages  []model.ChatMessage  `json:"messages"`
	Structure *model.PlanStructure `json:"structure,omitempty"`
}

type generateResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !s.modelSet {
		writeError(w, http.StatusInternalServerError, "no generation model configured")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Context.Empty() && len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "context or messages required")
		return
	}

	userID := userIDFrom(r.Context())
	jobID, err := s.planUC.Submit(r.Context(), userID, req.Context, req.Messages, req.Structure)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "invalid plan request")
		case errors.Is(err, domain.ErrInsufficientCredits):
			writeError(w, http.StatusPaymentRequired, "not enough credits")
		default:
			s.log.Error().Err(err).Msg("plan submit failed")
			writeError(w, http.StatusInternalServerError, "could not start generation")
		}
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{JobID: jobID, Status: string(model.JobStatusPending)})
}

type jobResponse struct {
	JobID          string         `json:"job_id"`
	Status         string         `json:"status"`
	TripID         *string        `json:"trip_id,omitempty"`
	Progress       model.Progress `json:"progress"`
	CreditsCharged int64          `json:"credits_charged"`
	Error          string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job, err := s.jobs.FindByID(r.Context(), nil, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.log.Error().Err(err).Str("job_id", jobID).Msg("job read failed")
		writeError(w, http.StatusInternalServerError, "could not read job")
		return
	}
	if job.UserID != userIDFrom(r.Context()) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, jobResponse{
		JobID:          job.ID,
		Status:         string(job.Status),
		TripID:         job.TripID,
		Progress:       job.Progress,
		CreditsCharged: job.CreditsCharged,
		Error:          job.Error,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
		CompletedAt:    job.CompletedAt,
	})
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	err := s.jobs.Cancel(r.Context(), jobID, userIDFrom(r.Context()))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"job_id": jobID, "status": string(model.JobStatusCancelled)})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "job not found")
	case errors.Is(err, domain.ErrJobNotCancellable):
		writeError(w, http.StatusConflict, "job already finished")
	default:
		s.log.Error().Err(err).Str("job_id", jobID).Msg("cancel failed")
		writeError(w, http.StatusInternalServerError, "could not cancel job")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
