package gmail

import (
	"time"

	syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"

	"google.golang.org/api/gmail/v1"
)

func convertMessage(msg *gmail.Message) *syncdomain.Message {
	out := &syncdomain.Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		// InternalDate is epoch millis
		Date: time.Unix(msg.InternalDate/1000, 0),
	}

	if msg.Payload != nil {
		out.From = getHeader(msg.Payload.Headers, "From")
		out.Subject = getHeader(msg.Payload.Headers, "Subject")
	}

	return out
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}
