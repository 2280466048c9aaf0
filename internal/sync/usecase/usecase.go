package usecase

import (
	"context"

	syncdto "github.com/thamiresml/thracker-sub002/internal/sync/dto"
)

// SyncUsecase runs and reports mailbox ingestion passes.
type SyncUsecase interface {
	// Run executes one bounded ingestion pass for the connection. It returns
	// domain.ErrSyncAlreadyRunning without mutating anything if another run
	// holds the connection's sync slot.
	Run(ctx context.Context, userID, connectionID string, req *syncdto.SyncRequest) (*syncdto.SyncResult, error)

	// Status reports whether a run is in flight plus recent history, newest
	// first.
	Status(userID, connectionID string) (*syncdto.SyncStatus, error)
}
