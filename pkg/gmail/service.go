package gmail

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const revokeEndpoint = "https://oauth2.googleapis.com/revoke"

// Gmail API caps MaxResults at 500 per list request.
const maxPageSize = 500

// Service wraps the Google OAuth flow and the Gmail REST API. It is safe for
// concurrent use: every API call builds its own gmail.Service from the access
// token it is given, so no token state is shared across requests.
type Service struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewService creates a Gmail service for the given OAuth client.
func NewService(clientID, clientSecret, redirectURI string) *Service {
	return &Service{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				gmail.GmailReadonlyScope,
				"https://www.googleapis.com/auth/userinfo.email",
			},
		},
		httpClient: http.DefaultClient,
	}
}

// AuthCodeURL builds the authorization URL carrying the caller's CSRF state.
// offline access + forced consent are required to be granted a refresh token.
func (s *Service) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange swaps an authorization code for tokens.
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, classify(err)
	}
	return token, nil
}

// Refresh exchanges a refresh token for a new access token. An invalid_grant
// response surfaces as ErrAuthExpired; network and 5xx faults as
// ErrProviderUnavailable.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	source := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, classify(err)
	}
	return token, nil
}

// Revoke invalidates a token with the provider. Best effort: callers log the
// error and proceed with local cleanup.
func (s *Service) Revoke(ctx context.Context, token string) error {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRevokeFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRevokeFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRevokeFailed, resp.StatusCode)
	}
	return nil
}

// Profile returns the email address of the authorized mailbox.
func (s *Service) Profile(ctx context.Context, accessToken string) (string, error) {
	srv, err := s.service(ctx, accessToken)
	if err != nil {
		return "", err
	}

	profile, err := srv.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", classify(err)
	}
	return profile.EmailAddress, nil
}

// ListMessages returns one page of message ids matching query, plus the next
// page token ("" at end of list).
func (s *Service) ListMessages(ctx context.Context, accessToken, query, pageToken string, maxResults int64) ([]string, string, error) {
	srv, err := s.service(ctx, accessToken)
	if err != nil {
		return nil, "", err
	}

	if maxResults <= 0 || maxResults > maxPageSize {
		maxResults = maxPageSize
	}

	call := srv.Users.Messages.List("me").MaxResults(maxResults)
	if query != "" {
		call = call.Q(query)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, "", classify(err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		ids = append(ids, msg.Id)
	}
	return ids, resp.NextPageToken, nil
}

// GetMessage fetches one message's metadata. Headers only: the resolver needs
// the sender, subject and date, not the body.
func (s *Service) GetMessage(ctx context.Context, accessToken, id string) (*syncdomain.Message, error) {
	srv, err := s.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", id).
		Format("metadata").
		MetadataHeaders("From", "Subject", "Date").
		Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}

	return convertMessage(msg), nil
}

// BuildQuery translates the sync window into a Gmail search query.
func BuildQuery(daysSince int) string {
	if daysSince <= 0 {
		return "in:inbox"
	}
	return fmt.Sprintf("in:inbox newer_than:%dd", daysSince)
}

// service builds a per-call Gmail client from a static token source. Token
// refresh stays with the caller's refresher so the policy is explicit.
func (s *Service) service(ctx context.Context, accessToken string) (*gmail.Service, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}
	return srv, nil
}
