package gmail

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

var (
	// ErrAuthExpired means the credential is no longer usable: the refresh
	// token was revoked or the provider rejected the grant. Not retryable;
	// the user must reconnect the mailbox.
	ErrAuthExpired = errors.New("gmail: authorization expired")

	// ErrProviderUnavailable is a transient network or server-side fault.
	// Retryable with backoff.
	ErrProviderUnavailable = errors.New("gmail: provider unavailable")

	// ErrRevokeFailed means the provider did not accept a token revocation.
	// Best-effort on disconnect; never blocks local deletion.
	ErrRevokeFailed = errors.New("gmail: token revocation failed")
)

// classify maps SDK and transport errors onto the package's error taxonomy
// so callers can decide between retry, forced refresh, and giving up with
// errors.Is alone.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil && retrieveErr.Response.StatusCode >= 500 {
			return fmt.Errorf("%w: token endpoint returned %d", ErrProviderUnavailable, retrieveErr.Response.StatusCode)
		}
		// invalid_grant and friends: the refresh token itself is dead.
		if retrieveErr.ErrorCode != "" {
			return fmt.Errorf("%w: %s", ErrAuthExpired, retrieveErr.ErrorCode)
		}
		return fmt.Errorf("%w: token exchange rejected", ErrAuthExpired)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401:
			return fmt.Errorf("%w: %s", ErrAuthExpired, apiErr.Message)
		case apiErr.Code == 403 || apiErr.Code == 429 || apiErr.Code >= 500:
			return fmt.Errorf("%w: http %d: %s", ErrProviderUnavailable, apiErr.Code, apiErr.Message)
		default:
			return err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, urlErr)
	}

	return err
}
