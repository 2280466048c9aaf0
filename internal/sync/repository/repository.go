package repository

import syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"

// SyncRunRepository defines data access for sync runs
type SyncRunRepository interface {
	// Claim atomically creates the run in in_progress state. Returns
	// domain.ErrSyncAlreadyRunning if the connection already has one.
	Claim(run *syncdomain.SyncRun) error

	// Finish applies the terminal transition. It only touches rows still in
	// in_progress, so the transition happens at most once.
	Finish(run *syncdomain.SyncRun) error

	HasInProgress(connectionID string) (bool, error)
	FindRecentByConnection(connectionID string, limit int) ([]*syncdomain.SyncRun, error)
}
