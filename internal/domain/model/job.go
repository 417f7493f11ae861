package model

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusGenerating JobStatus = "generating"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether no further transition may leave this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

type JobPhase string

const (
	PhaseStructure  JobPhase = "structure"
	PhaseActivities JobPhase = "activities"
	PhaseDone       JobPhase = "done"
)

// Progress is the cursor an external observer uses to render percent-complete
// without re-deriving it from raw activity counts.
type Progress struct {
	Phase       JobPhase `json:"phase"`
	CurrentDay  int      `json:"current_day"`
	TotalDays   int      `json:"total_days"`
	CurrentDate string   `json:"current_date,omitempty"`
	TripID      string   `json:"trip_id,omitempty"`
}

// ChatMessage is one entry of the conversational transcript that produced
// a generation request. Kept on the job for audit and retry.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// PlanJob is one persisted record tracking a single trip-generation request
// from submission to terminal outcome. The background executor is the only
// writer for all fields except Status, which the cancellation path may set
// to cancelled externally.
type PlanJob struct {
	ID             string
	UserID         string
	TripID         *string // set at most once, never cleared
	Status         JobStatus
	Context        PlanContext
	Messages       []ChatMessage
	Structure      *PlanStructure
	Progress       Progress
	CreditsCharged int64
	Error          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

func NewPlanJob(id, userID string, pc PlanContext, msgs []ChatMessage) *PlanJob {
	now := time.Now()
	return &PlanJob{
		ID:        id,
		UserID:    userID,
		Status:    JobStatusPending,
		Context:   pc,
		Messages:  msgs,
		Progress:  Progress{Phase: PhaseStructure},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
