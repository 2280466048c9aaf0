package gmail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"google.golang.org/api/gmail/v1"
)

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "in:inbox newer_than:30d", BuildQuery(30))
	assert.Equal(t, "in:inbox newer_than:1d", BuildQuery(1))
	assert.Equal(t, "in:inbox", BuildQuery(0))
	assert.Equal(t, "in:inbox", BuildQuery(-5))
}

func TestConvertMessage(t *testing.T) {
	msg := &gmail.Message{
		Id:           "m1",
		ThreadId:     "t1",
		Snippet:      "Thanks for reaching out...",
		InternalDate: 1700000000000,
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "Jane Doe <jane@acme.com>"},
				{Name: "Subject", Value: "Re: interview"},
				{Name: "Date", Value: "Tue, 14 Nov 2023 22:13:20 +0000"},
			},
		},
	}

	out := convertMessage(msg)

	assert.Equal(t, "m1", out.ID)
	assert.Equal(t, "t1", out.ThreadID)
	assert.Equal(t, "Jane Doe <jane@acme.com>", out.From)
	assert.Equal(t, "Re: interview", out.Subject)
	assert.Equal(t, "Thanks for reaching out...", out.Snippet)
	assert.Equal(t, time.Unix(1700000000, 0), out.Date)
}

func TestConvertMessageWithoutPayload(t *testing.T) {
	out := convertMessage(&gmail.Message{Id: "m2", InternalDate: 1000})
	assert.Equal(t, "m2", out.ID)
	assert.Empty(t, out.From)
	assert.Empty(t, out.Subject)
}
