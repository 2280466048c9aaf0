package gmail

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestClassifyTokenEndpointErrors(t *testing.T) {
	invalidGrant := &oauth2.RetrieveError{
		Response:  &http.Response{StatusCode: http.StatusBadRequest},
		ErrorCode: "invalid_grant",
	}
	assert.ErrorIs(t, classify(invalidGrant), ErrAuthExpired)

	serverFault := &oauth2.RetrieveError{
		Response: &http.Response{StatusCode: http.StatusBadGateway},
	}
	assert.ErrorIs(t, classify(serverFault), ErrProviderUnavailable)
}

func TestClassifyAPIErrors(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{401, ErrAuthExpired},
		{403, ErrProviderUnavailable},
		{429, ErrProviderUnavailable},
		{500, ErrProviderUnavailable},
		{503, ErrProviderUnavailable},
	}
	for _, tc := range cases {
		err := classify(&googleapi.Error{Code: tc.code, Message: "x"})
		assert.ErrorIs(t, err, tc.want, "code=%d", tc.code)
	}

	// Client errors that are neither auth nor transient pass through.
	notFound := &googleapi.Error{Code: 404, Message: "missing"}
	err := classify(notFound)
	assert.NotErrorIs(t, err, ErrAuthExpired)
	assert.NotErrorIs(t, err, ErrProviderUnavailable)
}

func TestClassifyNetworkErrors(t *testing.T) {
	netErr := &url.Error{Op: "Get", URL: "https://gmail.googleapis.com", Err: errors.New("connection refused")}
	assert.ErrorIs(t, classify(netErr), ErrProviderUnavailable)
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify(nil))
}
