package order

import (
	"time"

	"pedidos/internal/pkg/errs"
)

// LogEntry is an append-only history record: one entry per meaningful
// mutation (creation, edit, status change, assignment, rejection or
// cancellation with reason). Entries are immutable by convention.
type LogEntry struct {
	Timestamp time.Time
	Message   string
	UserName  string
}

// NewLogEntry creates a log entry stamped with the current time.
func NewLogEntry(message, userName string) (LogEntry, error) {
	if message == "" {
		return LogEntry{}, errs.NewValueIsRequiredError("log message")
	}
	if userName == "" {
		userName = "Sistema"
	}

	return LogEntry{
		Timestamp: time.Now(),
		Message:   message,
		UserName:  userName,
	}, nil
}
