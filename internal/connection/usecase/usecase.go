package usecase

import (
	"context"

	conndomain "github.com/thamiresml/thracker-sub002/internal/connection/domain"

	"golang.org/x/oauth2"
)

// ConnectionUsecase manages the lifecycle of mailbox connections and keeps
// their credentials fresh.
type ConnectionUsecase interface {
	// AuthorizationURL returns the provider consent URL with a signed state
	// value binding the initiating user (CSRF defense).
	AuthorizationURL(userID string) (string, error)

	// CompleteCallback verifies state, exchanges the code and upserts the
	// connection. Nothing is persisted if the provider grants no refresh token.
	CompleteCallback(ctx context.Context, userID, state, code string) (*conndomain.Connection, error)

	// Disconnect revokes the token best-effort and always deletes the local row.
	Disconnect(ctx context.Context, userID, connectionID string) error

	ListConnections(userID string) ([]*conndomain.Connection, error)
	GetConnection(userID, connectionID string) (*conndomain.Connection, error)

	// EnsureFreshToken returns a usable access token, refreshing and persisting
	// it when expiry is within the safety margin. ErrAuthExpired deactivates
	// the connection.
	EnsureFreshToken(ctx context.Context, conn *conndomain.Connection) (string, error)

	// ForceRefresh refreshes unconditionally. Used after a 401 from the
	// provider despite a seemingly valid token.
	ForceRefresh(ctx context.Context, conn *conndomain.Connection) (string, error)
}

// GoogleOAuth is the slice of the provider's OAuth and profile surface the
// lifecycle manager needs. pkg/gmail.Service implements it.
type GoogleOAuth interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
	Revoke(ctx context.Context, token string) error
	Profile(ctx context.Context, accessToken string) (string, error)
}
