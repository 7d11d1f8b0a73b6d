package pipeline

import (
	"time"

	"github.com/google/uuid"
)

// Stage names
const (
	StageResolve = "resolve"
	StageHarvest = "harvest-emails"
	StageExport  = "export-contacts"
)

// Status is the result of processing one item
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Skip reasons. Failures use place.Reason of the underlying error.
const (
	ReasonMissingURL = "missing_url"
	ReasonHasEmails  = "has_emails"
	ReasonNoWebsite  = "no_website"
	ReasonNoEmails   = "no_emails_found"
	ReasonStore      = "store"
)

// Outcome records what happened to one item
type Outcome struct {
	Key    string `json:"key" yaml:"key"`
	Status Status `json:"status" yaml:"status"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Err    error  `json:"-" yaml:"-"`
}

// Summary collects the outcomes of one stage run
type Summary struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Stage      string    `json:"stage" yaml:"stage"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Outcomes   []Outcome `json:"outcomes" yaml:"outcomes"`
}

func newSummary(stage string) *Summary {
	return &Summary{
		RunID:     uuid.NewString(),
		Stage:     stage,
		StartedAt: time.Now().UTC(),
		Outcomes:  make([]Outcome, 0),
	}
}

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
}

func (s *Summary) finish() {
	s.FinishedAt = time.Now().UTC()
}

// Count returns the number of outcomes with the given status
func (s *Summary) Count(status Status) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Find returns the last outcome recorded for key
func (s *Summary) Find(key string) (Outcome, bool) {
	for i := len(s.Outcomes) - 1; i >= 0; i-- {
		if s.Outcomes[i].Key == key {
			return s.Outcomes[i], true
		}
	}
	return Outcome{}, false
}

// Duration returns how long the run took
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

func ok(key, detail string) Outcome {
	return Outcome{Key: key, Status: StatusOK, Detail: detail}
}

func skipped(key, reason, detail string) Outcome {
	return Outcome{Key: key, Status: StatusSkipped, Reason: reason, Detail: detail}
}

func failed(key, reason string, err error) Outcome {
	return Outcome{Key: key, Status: StatusFailed, Reason: reason, Detail: err.Error(), Err: err}
}
