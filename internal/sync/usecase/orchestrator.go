package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	conndomain "github.com/thamiresml/thracker-sub002/internal/connection/domain"
	connusecase "github.com/thamiresml/thracker-sub002/internal/connection/usecase"
	crmdomain "github.com/thamiresml/thracker-sub002/internal/crm/domain"
	crmusecase "github.com/thamiresml/thracker-sub002/internal/crm/usecase"
	syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"
	syncdto "github.com/thamiresml/thracker-sub002/internal/sync/dto"
	"github.com/thamiresml/thracker-sub002/internal/sync/repository"
	"github.com/thamiresml/thracker-sub002/pkg/config"
	"github.com/thamiresml/thracker-sub002/pkg/gmail"
)

const (
	// Page size requested from the provider; the per-run budget may shrink it.
	listPageSize = 100

	retryBaseDelay = 500 * time.Millisecond
)

const (
	reasonAuthExpired         = "auth_expired"
	reasonProviderUnavailable = "provider_unavailable"
	reasonAborted             = "aborted"
)

// syncUsecase implements SyncUsecase interface
type syncUsecase struct {
	connections connusecase.ConnectionUsecase
	runRepo     repository.SyncRunRepository
	resolver    crmusecase.EntityResolver
	mail        syncdomain.MailClient
	config      *config.Config
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(connections connusecase.ConnectionUsecase, runRepo repository.SyncRunRepository, resolver crmusecase.EntityResolver, mail syncdomain.MailClient, cfg *config.Config) SyncUsecase {
	return &syncUsecase{
		connections: connections,
		runRepo:     runRepo,
		resolver:    resolver,
		mail:        mail,
		config:      cfg,
	}
}

func (u *syncUsecase) Run(ctx context.Context, userID, connectionID string, req *syncdto.SyncRequest) (*syncdto.SyncResult, error) {
	conn, err := u.connections.GetConnection(userID, connectionID)
	if err != nil {
		return nil, err
	}
	if !conn.IsActive {
		return nil, errors.New("connection is inactive, reconnect the mailbox first")
	}

	// An explicit zero means "no date floor"; only an absent value falls
	// back to the configured window.
	daysSince := u.config.SyncDaysSince
	if req.DaysSince != nil {
		daysSince = *req.DaysSince
	}
	maxEmails := req.MaxEmails
	if maxEmails <= 0 {
		maxEmails = u.config.SyncMaxEmails
	}

	run := &syncdomain.SyncRun{
		ConnectionID: conn.ID,
		UserID:       userID,
	}
	// The claim is the single-flight gate; it must happen before any other
	// mutation or provider call.
	if err := u.runRepo.Claim(run); err != nil {
		return nil, err
	}

	log.Printf("[sync] run %s started for %s (days=%d max=%d)", run.ID, conn.EmailAddress, daysSince, maxEmails)

	runCtx, cancel := context.WithTimeout(ctx, u.config.SyncTimeout)
	defer cancel()

	u.execute(runCtx, conn, run, daysSince, maxEmails)

	// Whatever happened above, the run must leave in_progress exactly once.
	if run.Status == syncdomain.StatusInProgress {
		run.Status = syncdomain.StatusFailed
		run.FailureReason = reasonAborted
	}
	if err := u.runRepo.Finish(run); err != nil {
		log.Printf("[sync] run %s: failed to persist terminal state: %v", run.ID, err)
	}

	log.Printf("[sync] run %s %s: %d emails, %d companies, %d contacts, %d interactions, %d errors",
		run.ID, run.Status, run.EmailsProcessed, run.CompaniesCreated, run.ContactsCreated, run.InteractionsCreated, len(run.Errors))

	return &syncdto.SyncResult{
		Success:             run.Status == syncdomain.StatusCompleted,
		RunID:               run.ID,
		EmailsProcessed:     run.EmailsProcessed,
		CompaniesCreated:    run.CompaniesCreated,
		ContactsCreated:     run.ContactsCreated,
		InteractionsCreated: run.InteractionsCreated,
		Errors:              run.Errors,
		FailureReason:       run.FailureReason,
	}, nil
}

// execute drives pagination and per-message resolution, mutating run in
// place. It sets a terminal status before returning.
func (u *syncUsecase) execute(ctx context.Context, conn *conndomain.Connection, run *syncdomain.SyncRun, daysSince, maxEmails int) {
	query := gmail.BuildQuery(daysSince)
	pageToken := ""

	for {
		remaining := maxEmails - run.EmailsProcessed
		if remaining <= 0 {
			run.Status = syncdomain.StatusCompleted
			return
		}
		pageSize := int64(listPageSize)
		if int64(remaining) < pageSize {
			pageSize = int64(remaining)
		}

		var ids []string
		var next string
		err := u.callWithAuth(ctx, conn, func(token string) error {
			var lerr error
			ids, next, lerr = u.mail.ListMessages(ctx, token, query, pageToken, pageSize)
			return lerr
		})
		if err != nil {
			u.finishOnError(ctx, run, err)
			return
		}

		for _, id := range ids {
			if run.EmailsProcessed >= maxEmails {
				break
			}
			if ctx.Err() != nil {
				// Budget/deadline exhausted: stop pulling and complete with
				// partial aggregates.
				run.Status = syncdomain.StatusCompleted
				return
			}

			var msg *syncdomain.Message
			err := u.callWithAuth(ctx, conn, func(token string) error {
				var gerr error
				msg, gerr = u.mail.GetMessage(ctx, token, id)
				return gerr
			})
			if err != nil {
				u.finishOnError(ctx, run, err)
				return
			}

			run.EmailsProcessed++
			u.resolveMessage(run, msg)
		}

		if next == "" || run.EmailsProcessed >= maxEmails {
			run.Status = syncdomain.StatusCompleted
			return
		}
		pageToken = next
	}
}

// resolveMessage folds one message's outcome into the run. Resolver errors
// are data, never fatal.
func (u *syncUsecase) resolveMessage(run *syncdomain.SyncRun, msg *syncdomain.Message) {
	outcome, err := u.resolver.Resolve(run.UserID, msg)
	if err != nil {
		if errors.Is(err, crmdomain.ErrSkippedNoContact) {
			return
		}
		run.RecordError(msg.ID, err)
		return
	}

	if outcome.CompanyCreated {
		run.CompaniesCreated++
	}
	if outcome.ContactCreated {
		run.ContactsCreated++
	}
	if outcome.InteractionCreated {
		run.InteractionsCreated++
	}
}

// finishOnError maps a provider-call failure to a terminal status. When the
// run's own clock expired mid-call that is budget exhaustion, not a fault:
// the run completes with whatever partial aggregates it collected. Everything
// else fails the run.
func (u *syncUsecase) finishOnError(ctx context.Context, run *syncdomain.SyncRun, err error) {
	if ctx.Err() != nil {
		run.Status = syncdomain.StatusCompleted
		return
	}

	run.Status = syncdomain.StatusFailed
	switch {
	case errors.Is(err, gmail.ErrAuthExpired):
		run.FailureReason = reasonAuthExpired
	case errors.Is(err, gmail.ErrProviderUnavailable):
		run.FailureReason = reasonProviderUnavailable
	default:
		run.FailureReason = err.Error()
	}
}

// callWithAuth obtains a fresh token, runs fn with retries, and on a 401-class
// failure forces exactly one refresh before a final attempt.
func (u *syncUsecase) callWithAuth(ctx context.Context, conn *conndomain.Connection, fn func(accessToken string) error) error {
	token, err := u.connections.EnsureFreshToken(ctx, conn)
	if err != nil {
		return err
	}

	err = u.withRetry(ctx, func() error { return fn(token) })
	if !errors.Is(err, gmail.ErrAuthExpired) {
		return err
	}

	token, err = u.connections.ForceRefresh(ctx, conn)
	if err != nil {
		return err
	}
	return u.withRetry(ctx, func() error { return fn(token) })
}

// withRetry retries fn with exponential backoff. Only ErrProviderUnavailable
// is retryable; everything else returns immediately.
func (u *syncUsecase) withRetry(ctx context.Context, fn func() error) error {
	maxAttempts := u.config.SyncMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	delay := retryBaseDelay
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return err
			case <-time.After(delay):
			}
			delay *= 2
		}

		err = fn()
		if err == nil || !errors.Is(err, gmail.ErrProviderUnavailable) {
			return err
		}
		log.Printf("[sync] transient provider fault (attempt %d/%d): %v", attempt, maxAttempts, err)
	}
	return err
}

func (u *syncUsecase) Status(userID, connectionID string) (*syncdto.SyncStatus, error) {
	if _, err := u.connections.GetConnection(userID, connectionID); err != nil {
		return nil, err
	}

	inProgress, err := u.runRepo.HasInProgress(connectionID)
	if err != nil {
		return nil, err
	}

	runs, err := u.runRepo.FindRecentByConnection(connectionID, 10)
	if err != nil {
		return nil, err
	}

	return &syncdto.SyncStatus{
		InProgress: inProgress,
		RecentRuns: runs,
	}, nil
}
