package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	conndomain "github.com/thamiresml/thracker-sub002/internal/connection/domain"
	crmdomain "github.com/thamiresml/thracker-sub002/internal/crm/domain"
	crmusecase "github.com/thamiresml/thracker-sub002/internal/crm/usecase"
	syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"
	syncdto "github.com/thamiresml/thracker-sub002/internal/sync/dto"
	"github.com/thamiresml/thracker-sub002/pkg/config"
	"github.com/thamiresml/thracker-sub002/pkg/gmail"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeConnections struct {
	conn        *conndomain.Connection
	ensureErr   error
	forceErr    error
	ensureCalls int
	forceCalls  int
}

func (f *fakeConnections) AuthorizationURL(userID string) (string, error) { return "", nil }

func (f *fakeConnections) CompleteCallback(ctx context.Context, userID, state, code string) (*conndomain.Connection, error) {
	return nil, nil
}

func (f *fakeConnections) Disconnect(ctx context.Context, userID, connectionID string) error {
	return nil
}

func (f *fakeConnections) ListConnections(userID string) ([]*conndomain.Connection, error) {
	return nil, nil
}

func (f *fakeConnections) GetConnection(userID, connectionID string) (*conndomain.Connection, error) {
	if f.conn != nil && f.conn.ID == connectionID && f.conn.UserID == userID {
		return f.conn, nil
	}
	return nil, errors.New("connection not found")
}

func (f *fakeConnections) EnsureFreshToken(ctx context.Context, conn *conndomain.Connection) (string, error) {
	f.ensureCalls++
	if f.ensureErr != nil {
		return "", f.ensureErr
	}
	return "token-1", nil
}

func (f *fakeConnections) ForceRefresh(ctx context.Context, conn *conndomain.Connection) (string, error) {
	f.forceCalls++
	if f.forceErr != nil {
		return "", f.forceErr
	}
	return "token-2", nil
}

type fakeRunRepo struct {
	inProgress map[string]bool
	runs       []*syncdomain.SyncRun
	finished   []*syncdomain.SyncRun
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{inProgress: make(map[string]bool)}
}

func (f *fakeRunRepo) Claim(run *syncdomain.SyncRun) error {
	if f.inProgress[run.ConnectionID] {
		return syncdomain.ErrSyncAlreadyRunning
	}
	run.ID = uuid.New().String()
	run.Status = syncdomain.StatusInProgress
	run.StartedAt = time.Now()
	f.inProgress[run.ConnectionID] = true
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) Finish(run *syncdomain.SyncRun) error {
	if run.Status != syncdomain.StatusCompleted && run.Status != syncdomain.StatusFailed {
		return fmt.Errorf("non-terminal status %q", run.Status)
	}
	if !f.inProgress[run.ConnectionID] {
		return errors.New("already finished")
	}
	f.inProgress[run.ConnectionID] = false
	f.finished = append(f.finished, run)
	return nil
}

func (f *fakeRunRepo) HasInProgress(connectionID string) (bool, error) {
	return f.inProgress[connectionID], nil
}

func (f *fakeRunRepo) FindRecentByConnection(connectionID string, limit int) ([]*syncdomain.SyncRun, error) {
	var out []*syncdomain.SyncRun
	for i := len(f.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.runs[i].ConnectionID == connectionID {
			out = append(out, f.runs[i])
		}
	}
	return out, nil
}

type fakeMail struct {
	messages  []*syncdomain.Message
	pageSize  int
	listErrs  []error         // consumed one per ListMessages call
	getErrs   map[string]error
	blockOn   map[string]bool // GetMessage hangs until ctx is done
	queries   []string
	listCalls int
	getCalls  int
}

func (f *fakeMail) ListMessages(ctx context.Context, accessToken, query, pageToken string, maxResults int64) ([]string, string, error) {
	f.listCalls++
	f.queries = append(f.queries, query)
	if len(f.listErrs) > 0 {
		err := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		if err != nil {
			return nil, "", err
		}
	}

	start := 0
	if pageToken != "" {
		start, _ = strconv.Atoi(pageToken)
	}
	size := f.pageSize
	if size <= 0 {
		size = 100
	}
	if int64(size) > maxResults {
		size = int(maxResults)
	}

	var ids []string
	for i := start; i < len(f.messages) && len(ids) < size; i++ {
		ids = append(ids, f.messages[i].ID)
	}
	next := ""
	if start+len(ids) < len(f.messages) {
		next = strconv.Itoa(start + len(ids))
	}
	return ids, next, nil
}

func (f *fakeMail) GetMessage(ctx context.Context, accessToken, id string) (*syncdomain.Message, error) {
	f.getCalls++
	if f.blockOn[id] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.getErrs[id]; err != nil {
		return nil, err
	}
	for _, m := range f.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, errors.New("message not found")
}

// fakeResolver dedups senders and message ids like the real resolver does
// against the store, so re-runs are idempotent.
type fakeResolver struct {
	senders      map[string]bool
	interactions map[string]bool
	failFor      map[string]error
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		senders:      make(map[string]bool),
		interactions: make(map[string]bool),
		failFor:      make(map[string]error),
	}
}

func (f *fakeResolver) Resolve(userID string, msg *syncdomain.Message) (*crmusecase.Outcome, error) {
	if err := f.failFor[msg.ID]; err != nil {
		return nil, err
	}
	out := &crmusecase.Outcome{}
	if !f.senders[msg.From] {
		f.senders[msg.From] = true
		out.CompanyCreated = true
		out.ContactCreated = true
	}
	if !f.interactions[msg.ID] {
		f.interactions[msg.ID] = true
		out.InteractionCreated = true
	}
	return out, nil
}

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SyncDaysSince:   30,
		SyncMaxEmails:   100,
		SyncTimeout:     time.Minute,
		SyncMaxAttempts: 3,
	}
}

func testConnection() *conndomain.Connection {
	return &conndomain.Connection{
		ID:           "conn-1",
		UserID:       "user-1",
		EmailAddress: "me@example.com",
		AccessToken:  "token-1",
		RefreshToken: "refresh-1",
		TokenExpiry:  time.Now().Add(time.Hour),
		IsActive:     true,
	}
}

func corpus(n int) []*syncdomain.Message {
	msgs := make([]*syncdomain.Message, 0, n)
	for i := 1; i <= n; i++ {
		msgs = append(msgs, &syncdomain.Message{
			ID:      fmt.Sprintf("m%d", i),
			From:    fmt.Sprintf("Person %d <person%d@corp%d.com>", i, i, i),
			Subject: fmt.Sprintf("subject %d", i),
			Date:    time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}
	return msgs
}

type syncFixture struct {
	uc          SyncUsecase
	connections *fakeConnections
	runs        *fakeRunRepo
	mail        *fakeMail
	resolver    *fakeResolver
}

func newSyncFixture(mail *fakeMail) *syncFixture {
	connections := &fakeConnections{conn: testConnection()}
	runs := newFakeRunRepo()
	resolver := newFakeResolver()
	return &syncFixture{
		uc:          NewSyncUsecase(connections, runs, resolver, mail, testConfig()),
		connections: connections,
		runs:        runs,
		mail:        mail,
		resolver:    resolver,
	}
}

// --- tests ---

func TestSyncHappyPath(t *testing.T) {
	fx := newSyncFixture(&fakeMail{messages: corpus(10)})

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 10, result.EmailsProcessed)
	assert.Equal(t, 10, result.CompaniesCreated)
	assert.Equal(t, 10, result.ContactsCreated)
	assert.Equal(t, 10, result.InteractionsCreated)
	assert.Empty(t, result.Errors)

	require.Len(t, fx.runs.finished, 1)
	assert.Equal(t, syncdomain.StatusCompleted, fx.runs.finished[0].Status)
	assert.False(t, fx.runs.inProgress["conn-1"])
}

func TestSyncPartialFailureStillCompletes(t *testing.T) {
	fx := newSyncFixture(&fakeMail{messages: corpus(10)})
	fx.resolver.failFor["m7"] = fmt.Errorf("%w: %q", crmdomain.ErrUnparseableSender, "garbage")

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	// One bad message never aborts the run.
	assert.True(t, result.Success)
	assert.Equal(t, 10, result.EmailsProcessed)
	assert.Equal(t, 9, result.InteractionsCreated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "m7", result.Errors[0].MessageRef)
	assert.Contains(t, result.Errors[0].Reason, "unparseable")
}

func TestSyncSkippedSendersAreNotErrors(t *testing.T) {
	fx := newSyncFixture(&fakeMail{messages: corpus(3)})
	fx.resolver.failFor["m2"] = crmdomain.ErrSkippedNoContact

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.EmailsProcessed)
	assert.Equal(t, 2, result.InteractionsCreated)
	assert.Empty(t, result.Errors)
}

func TestSyncRespectsMaxEmailsBudget(t *testing.T) {
	mail := &fakeMail{messages: corpus(50)}
	fx := newSyncFixture(mail)

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{MaxEmails: 5})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 5, result.EmailsProcessed)
	assert.Equal(t, 5, mail.getCalls)
	// The budget also bounds the list request, not just processing.
	assert.Equal(t, 1, mail.listCalls)
}

func TestSyncStopsMidPageWhenBudgetHit(t *testing.T) {
	// Pages of 4, budget 6: the second page is cut short.
	mail := &fakeMail{messages: corpus(12), pageSize: 4}
	fx := newSyncFixture(mail)

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{MaxEmails: 6})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 6, result.EmailsProcessed)
	assert.Equal(t, 6, mail.getCalls)
}

func TestSyncTimeoutCompletesWithPartialAggregates(t *testing.T) {
	// The fetch of m2 hangs until the run's clock expires mid-call.
	mail := &fakeMail{messages: corpus(3), blockOn: map[string]bool{"m2": true}}
	connections := &fakeConnections{conn: testConnection()}
	runs := newFakeRunRepo()
	cfg := testConfig()
	cfg.SyncTimeout = 50 * time.Millisecond
	uc := NewSyncUsecase(connections, runs, newFakeResolver(), mail, cfg)

	result, err := uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	// Running out of wall clock is budget exhaustion, not a fault: the run
	// keeps m1 and completes.
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.EmailsProcessed)
	assert.Equal(t, 1, result.InteractionsCreated)
	assert.Empty(t, result.FailureReason)
	require.Len(t, runs.finished, 1)
	assert.Equal(t, syncdomain.StatusCompleted, runs.finished[0].Status)
	assert.False(t, runs.inProgress["conn-1"])
}

func TestSyncDefaultWindowWhenRequestOmitsDays(t *testing.T) {
	mail := &fakeMail{messages: corpus(1)}
	fx := newSyncFixture(mail)

	_, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	require.Len(t, mail.queries, 1)
	assert.Equal(t, "in:inbox newer_than:30d", mail.queries[0])
}

func TestSyncExplicitZeroDaysMeansNoDateFloor(t *testing.T) {
	mail := &fakeMail{messages: corpus(1)}
	fx := newSyncFixture(mail)

	zero := 0
	_, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{DaysSince: &zero})
	require.NoError(t, err)

	require.Len(t, mail.queries, 1)
	assert.Equal(t, "in:inbox", mail.queries[0])
}

func TestSyncSingleFlight(t *testing.T) {
	mail := &fakeMail{messages: corpus(3)}
	fx := newSyncFixture(mail)
	fx.runs.inProgress["conn-1"] = true

	_, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	assert.ErrorIs(t, err, syncdomain.ErrSyncAlreadyRunning)

	// Rejected before any work: no provider calls, no terminal transition.
	assert.Zero(t, mail.listCalls)
	assert.Empty(t, fx.runs.finished)
}

func TestSyncAuthExpiredFailsRun(t *testing.T) {
	fx := newSyncFixture(&fakeMail{messages: corpus(3)})
	fx.connections.ensureErr = gmail.ErrAuthExpired

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "auth_expired", result.FailureReason)
	require.Len(t, fx.runs.finished, 1)
	assert.Equal(t, syncdomain.StatusFailed, fx.runs.finished[0].Status)
	assert.False(t, fx.runs.inProgress["conn-1"])
}

func TestSyncRetriesTransientFault(t *testing.T) {
	mail := &fakeMail{
		messages: corpus(2),
		listErrs: []error{gmail.ErrProviderUnavailable, nil},
	}
	fx := newSyncFixture(mail)

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.EmailsProcessed)
	assert.Equal(t, 2, mail.listCalls)
}

func TestSyncFailsWhenRetryBudgetExhausted(t *testing.T) {
	mail := &fakeMail{
		messages: corpus(2),
		listErrs: []error{gmail.ErrProviderUnavailable, gmail.ErrProviderUnavailable, gmail.ErrProviderUnavailable},
	}
	fx := newSyncFixture(mail)

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "provider_unavailable", result.FailureReason)
	assert.Equal(t, 3, mail.listCalls)
}

func TestSyncForcesOneRefreshOn401(t *testing.T) {
	mail := &fakeMail{
		messages: corpus(2),
		listErrs: []error{gmail.ErrAuthExpired, nil},
	}
	fx := newSyncFixture(mail)

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, fx.connections.forceCalls)
}

func TestSync401AfterForcedRefreshFailsRun(t *testing.T) {
	mail := &fakeMail{
		messages: corpus(2),
		listErrs: []error{gmail.ErrAuthExpired, gmail.ErrAuthExpired},
	}
	fx := newSyncFixture(mail)

	result, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "auth_expired", result.FailureReason)
	assert.Equal(t, 1, fx.connections.forceCalls)
}

func TestSyncRerunIsIdempotent(t *testing.T) {
	fx := newSyncFixture(&fakeMail{messages: corpus(5)})

	first, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)
	second, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	assert.Equal(t, 5, first.InteractionsCreated)
	assert.Equal(t, 5, second.EmailsProcessed)
	assert.Zero(t, second.InteractionsCreated)
	assert.Zero(t, second.ContactsCreated)
	assert.Zero(t, second.CompaniesCreated)
}

func TestSyncInactiveConnectionRejected(t *testing.T) {
	fx := newSyncFixture(&fakeMail{messages: corpus(1)})
	fx.connections.conn.IsActive = false

	_, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	assert.Error(t, err)
	assert.Empty(t, fx.runs.runs)
}

func TestSyncUnknownConnectionRejected(t *testing.T) {
	fx := newSyncFixture(&fakeMail{messages: corpus(1)})

	_, err := fx.uc.Run(context.Background(), "user-2", "conn-1", &syncdto.SyncRequest{})
	assert.Error(t, err)
}

func TestStatusReportsRunsNewestFirst(t *testing.T) {
	fx := newSyncFixture(&fakeMail{messages: corpus(2)})

	_, err := fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)
	_, err = fx.uc.Run(context.Background(), "user-1", "conn-1", &syncdto.SyncRequest{})
	require.NoError(t, err)

	status, err := fx.uc.Status("user-1", "conn-1")
	require.NoError(t, err)

	assert.False(t, status.InProgress)
	require.Len(t, status.RecentRuns, 2)
	assert.Equal(t, fx.runs.runs[1].ID, status.RecentRuns[0].ID)
	assert.Equal(t, fx.runs.runs[0].ID, status.RecentRuns[1].ID)
}
