package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SyncRun statuses. A run is created in_progress and transitions exactly once
// to completed or failed; rows are immutable afterward.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrSyncAlreadyRunning is returned when a sync is requested for a connection
// that already has an in_progress run. Callers should poll status instead.
var ErrSyncAlreadyRunning = errors.New("sync already running for this connection")

// MaxRecordedErrors bounds the per-run error list kept for diagnostics.
const MaxRecordedErrors = 50

// SyncRun is one bounded ingestion attempt against a Connection.
type SyncRun struct {
	ID           string `json:"id" gorm:"primaryKey"`
	ConnectionID string `json:"connection_id" gorm:"index;not null"`
	UserID       string `json:"user_id" gorm:"index;not null"`
	Status       string `json:"status" gorm:"not null"`

	EmailsProcessed     int `json:"emails_processed"`
	CompaniesCreated    int `json:"companies_created"`
	ContactsCreated     int `json:"contacts_created"`
	InteractionsCreated int `json:"interactions_created"`

	Errors        RunErrors  `json:"errors" gorm:"type:jsonb"`
	FailureReason string     `json:"failure_reason,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// RecordError appends a per-message error, keeping the list bounded.
func (r *SyncRun) RecordError(messageRef string, err error) {
	if len(r.Errors) >= MaxRecordedErrors {
		return
	}
	r.Errors = append(r.Errors, RunError{MessageRef: messageRef, Reason: err.Error()})
}

// RunError records why a single message could not be ingested.
type RunError struct {
	MessageRef string `json:"message_ref"`
	Reason     string `json:"reason"`
}

// RunErrors is stored as a jsonb column.
type RunErrors []RunError

func (e RunErrors) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (e *RunErrors) Scan(value interface{}) error {
	if value == nil {
		*e = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("unsupported type for RunErrors: %T", value)
	}
}
