package repository

import (
	"errors"
	"fmt"
	"time"

	syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// syncRunRepository implements SyncRunRepository interface
type syncRunRepository struct {
	db *gorm.DB
}

// NewSyncRunRepository creates a new instance of syncRunRepository
func NewSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &syncRunRepository{
		db: db,
	}
}

// Claim relies on the partial unique index on (connection_id) WHERE status =
// 'in_progress': the insert itself is the single-flight check, so two
// concurrent claims cannot both succeed.
func (r *syncRunRepository) Claim(run *syncdomain.SyncRun) error {
	run.ID = uuid.New().String()
	run.Status = syncdomain.StatusInProgress
	run.StartedAt = time.Now()

	err := r.db.Create(run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return syncdomain.ErrSyncAlreadyRunning
		}
		return err
	}
	return nil
}

func (r *syncRunRepository) Finish(run *syncdomain.SyncRun) error {
	if run.Status != syncdomain.StatusCompleted && run.Status != syncdomain.StatusFailed {
		return fmt.Errorf("cannot finish run %s with non-terminal status %q", run.ID, run.Status)
	}

	now := time.Now()
	if run.CompletedAt == nil {
		run.CompletedAt = &now
	}

	result := r.db.Model(&syncdomain.SyncRun{}).
		Where("id = ? AND status = ?", run.ID, syncdomain.StatusInProgress).
		Updates(map[string]interface{}{
			"status":               run.Status,
			"emails_processed":     run.EmailsProcessed,
			"companies_created":    run.CompaniesCreated,
			"contacts_created":     run.ContactsCreated,
			"interactions_created": run.InteractionsCreated,
			"errors":               run.Errors,
			"failure_reason":       run.FailureReason,
			"completed_at":         run.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run %s already finished", run.ID)
	}
	return nil
}

func (r *syncRunRepository) HasInProgress(connectionID string) (bool, error) {
	var count int64
	err := r.db.Model(&syncdomain.SyncRun{}).
		Where("connection_id = ? AND status = ?", connectionID, syncdomain.StatusInProgress).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *syncRunRepository) FindRecentByConnection(connectionID string, limit int) ([]*syncdomain.SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []*syncdomain.SyncRun
	err := r.db.Where("connection_id = ?", connectionID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
