package dto

import syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"

// SyncRequest carries optional overrides for one run. DaysSince is a pointer
// so an explicit zero (no date floor) is distinguishable from an absent value.
type SyncRequest struct {
	DaysSince *int `json:"days_since" binding:"omitempty,min=0"`
	MaxEmails int  `json:"max_emails" binding:"omitempty,min=1"`
}

type SyncResult struct {
	Success             bool                 `json:"success"`
	RunID               string               `json:"run_id"`
	EmailsProcessed     int                  `json:"emails_processed"`
	CompaniesCreated    int                  `json:"companies_created"`
	ContactsCreated     int                  `json:"contacts_created"`
	InteractionsCreated int                  `json:"interactions_created"`
	Errors              syncdomain.RunErrors `json:"errors"`
	FailureReason       string               `json:"failure_reason,omitempty"`
}

type SyncStatus struct {
	InProgress bool                  `json:"in_progress"`
	RecentRuns []*syncdomain.SyncRun `json:"recent_runs"`
}
