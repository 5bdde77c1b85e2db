package metadata

import (
	"encoding/json"
	"path"
	"strings"

	"code.cloudfoundry.org/clock"

	"github.com/liquers-go/liquers/pkg/query"
)

// defaultClock timestamps log entries when a Record carries no Clock of
// its own. Tests that need deterministic timestamps construct a Record
// and set its Clock field to a clock.FakeClock.
var defaultClock clock.Clock = clock.NewClock()

// Metadata is either a structured Record or an opaque Legacy JSON blob
// the runtime cannot fully interpret but must round-trip without loss.
type Metadata interface {
	isMetadata()
}

// Record is the canonical, structured metadata form. Its JSON shape is
// the on-disk metadata format: queries and keys serialise as their
// encoded textual forms.
type Record struct {
	Log            []LogEntry   `json:"log,omitempty"`
	Query          *query.Query `json:"query,omitempty"`
	Key            *query.Key   `json:"key,omitempty"`
	Status         Status       `json:"status"`
	TypeIdentifier string       `json:"type_identifier,omitempty"`
	Message        string       `json:"message,omitempty"`
	IsError        bool         `json:"is_error"`
	MediaType      string       `json:"media_type,omitempty"`
	Filename       string       `json:"filename,omitempty"`

	// Clock timestamps new log entries when set; nil uses the package's
	// real-time default.
	Clock clock.Clock `json:"-"`
}

func (*Record) isMetadata() {}

// Legacy wraps a JSON blob the runtime does not promote to a Record until
// a structured field must be set on it. It round-trips bytes it does not
// understand without loss.
type Legacy struct {
	Raw json.RawMessage
}

func (*Legacy) isMetadata() {}

func (l *Legacy) MarshalJSON() ([]byte, error) {
	if len(l.Raw) == 0 {
		return []byte("null"), nil
	}
	return l.Raw, nil
}

func (l *Legacy) UnmarshalJSON(data []byte) error {
	l.Raw = append(l.Raw[:0], data...)
	return nil
}

// NewRecord creates an empty Record for the given query, in StatusNone.
func NewRecord(q query.Query) *Record {
	return &Record{Query: &q, Status: StatusNone}
}

// Promote converts any Metadata into a *Record, constructing a fresh empty
// one from a null/empty Legacy blob if necessary. A non-null Legacy blob is
// preserved as best-effort by attempting a JSON decode into Record shape;
// on failure an empty Record is returned and the legacy bytes are dropped
// (callers that need lossless legacy round-trips should keep the original
// Metadata around and only Promote a throwaway copy).
func Promote(m Metadata) *Record {
	switch v := m.(type) {
	case *Record:
		return v
	case *Legacy:
		r := &Record{Status: StatusNone}
		if len(v.Raw) > 0 && string(v.Raw) != "null" {
			_ = json.Unmarshal(v.Raw, r)
		}
		return r
	default:
		return &Record{Status: StatusNone}
	}
}

// SetExtension sets the Filename's extension. It does NOT recompute
// MediaType or TypeIdentifier as a side effect -- callers that want all
// three consistent must set them explicitly.
func (r *Record) SetExtension(ext string) {
	ext = strings.TrimPrefix(ext, ".")
	stem := r.Filename
	if dot := strings.LastIndex(stem, "."); dot >= 0 {
		stem = stem[:dot]
	}
	if stem == "" {
		stem = "data"
	}
	if ext == "" {
		r.Filename = stem
		return
	}
	r.Filename = stem + "." + ext
}

// Extension returns the current filename's extension, without the dot.
func (r *Record) Extension() string {
	ext := path.Ext(r.Filename)
	return strings.TrimPrefix(ext, ".")
}

func (r *Record) appendLog(e LogEntry) {
	if e.Timestamp.IsZero() {
		c := r.Clock
		if c == nil {
			c = defaultClock
		}
		e.Timestamp = c.Now().UTC()
	}
	r.Log = append(r.Log, e)
}

// Debugf, Infof, Warnf and Errorf append a log entry of the matching kind.
// Errorf additionally marks the record as errored.
func (r *Record) Debugf(q *query.Query, pos *query.Position, message string) {
	r.appendLog(LogEntry{Kind: LogDebug, Message: message, Query: q, Position: pos})
}

func (r *Record) Infof(q *query.Query, pos *query.Position, message string) {
	r.appendLog(LogEntry{Kind: LogInfo, Message: message, Query: q, Position: pos})
}

func (r *Record) Warnf(q *query.Query, pos *query.Position, message string) {
	r.appendLog(LogEntry{Kind: LogWarning, Message: message, Query: q, Position: pos})
}

func (r *Record) Errorf(q *query.Query, pos *query.Position, message string) {
	r.appendLog(LogEntry{Kind: LogError, Message: message, Query: q, Position: pos})
	r.IsError = true
	r.Message = message
}
