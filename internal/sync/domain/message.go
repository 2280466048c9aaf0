package domain

import (
	"context"
	"time"
)

// Message is the normalized form of a provider message, carrying just what
// the entity resolver needs.
type Message struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	From     string    `json:"from"` // raw From header, e.g. `Jane Doe <jane@acme.com>`
	Subject  string    `json:"subject"`
	Snippet  string    `json:"snippet"`
	Date     time.Time `json:"date"`
}

// MailClient is the provider contract the orchestrator drives. Every call is
// authenticated with an access token the caller obtained from the token
// refresher; implementations do not refresh on their own.
type MailClient interface {
	// ListMessages returns message ids matching query, plus the token for the
	// next page ("" at end of list).
	ListMessages(ctx context.Context, accessToken, query, pageToken string, maxResults int64) ([]string, string, error)

	// GetMessage fetches one message's metadata.
	GetMessage(ctx context.Context, accessToken, id string) (*Message, error)
}
