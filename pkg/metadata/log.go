package metadata

import (
	"time"

	"github.com/liquers-go/liquers/pkg/query"
)

// LogKind classifies a LogEntry.
type LogKind string

const (
	LogDebug   LogKind = "debug"
	LogInfo    LogKind = "info"
	LogWarning LogKind = "warning"
	LogError   LogKind = "error"
)

// LogEntry is one append-only line of an asset's evaluation log.
type LogEntry struct {
	Kind      LogKind         `json:"kind"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Query     *query.Query    `json:"query,omitempty"`
	Position  *query.Position `json:"position,omitempty"`
	Traceback string          `json:"traceback,omitempty"`
}
