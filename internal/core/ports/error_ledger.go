package ports

import (
	"context"
)

// ErrorEntry is one captured failure: where it happened, what it was, and who
// triggered it. Stack and user are optional.
type ErrorEntry struct {
	Subsystem string
	Endpoint  string
	Name      string
	Message   string
	Stack     string
	UserID    string
}

// ErrorLedger records failures surfaced at the HTTP boundary for later
// inspection. Recording is best effort; a ledger failure must not mask the
// original error.
type ErrorLedger interface {
	Record(ctx context.Context, entry ErrorEntry) error
}
