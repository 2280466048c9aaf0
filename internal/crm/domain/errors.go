package domain

import "errors"

var (
	// ErrUnparseableSender means no valid address could be extracted from the
	// From header. Recorded per message, never fatal for a run.
	ErrUnparseableSender = errors.New("unparseable sender address")

	// ErrSkippedNoContact marks automated senders (no-reply and friends) that
	// are intentionally not turned into contacts.
	ErrSkippedNoContact = errors.New("automated sender skipped")
)
