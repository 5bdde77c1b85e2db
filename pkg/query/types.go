package query

import (
	"encoding/json"
	"strings"
)

// ActionParameter is either literal text or an embedded link query.
// Exactly one of Str/Link is set; the zero value (both nil) is never
// produced by the parser but is accepted as an empty string by callers
// that build ActionParameters programmatically.
type ActionParameter struct {
	Str  *string
	Link *Query
}

// StringParam builds a literal-text ActionParameter.
func StringParam(s string) ActionParameter { return ActionParameter{Str: &s} }

// LinkParam builds an embedded-query ActionParameter.
func LinkParam(q Query) ActionParameter { return ActionParameter{Link: &q} }

// IsLink reports whether this parameter is an embedded query.
func (p ActionParameter) IsLink() bool { return p.Link != nil }

// StringValue returns the literal text, or "" if this is a Link.
func (p ActionParameter) StringValue() string {
	if p.Str == nil {
		return ""
	}
	return *p.Str
}

func (p ActionParameter) encode() string {
	if p.IsLink() {
		return "~X" + p.Link.Encode() + "~E"
	}
	s := p.StringValue()
	if n, ok := parseInt(s); ok && n < 0 {
		return EncodeNegative(n)
	}
	return EncodeToken(s)
}

func parseInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i == len(s) {
		return 0, false
	}
	var n int64
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int64(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// ActionRequest is a single named, parameterised transformation step,
// encoded as "name[-param]*".
type ActionRequest struct {
	Name       string
	Parameters []ActionParameter
	Position   Position
}

// IsNs reports whether this action is an "ns" namespace declaration.
// It names no command; its parameters extend the namespace search list
// for the query's other actions.
func (a ActionRequest) IsNs() bool { return a.Name == "ns" }

func (a ActionRequest) Encode() string {
	var b strings.Builder
	b.WriteString(EncodeToken(a.Name))
	for _, p := range a.Parameters {
		b.WriteByte('-')
		b.WriteString(p.encode())
	}
	return b.String()
}

// SegmentHeader introduces a QuerySegment: "-{level+1 dashes}[R][name][-param]*".
type SegmentHeader struct {
	Name       string
	Level      int
	Parameters []ActionParameter
	Resource   bool
	Position   Position
}

func (h SegmentHeader) Encode() string {
	var b strings.Builder
	for i := 0; i <= h.Level; i++ {
		b.WriteByte('-')
	}
	if h.Resource {
		b.WriteByte('R')
	}
	b.WriteString(EncodeToken(h.Name))
	for _, p := range h.Parameters {
		b.WriteByte('-')
		b.WriteString(p.encode())
	}
	return b.String()
}

// TransformQuerySegment is a segment carrying a pipeline of ActionRequests
// and an optional trailing filename.
type TransformQuerySegment struct {
	Header   *SegmentHeader
	Actions  []ActionRequest
	Filename *ResourceName
}

func (s TransformQuerySegment) Encode() string {
	var parts []string
	if s.Header != nil {
		parts = append(parts, s.Header.Encode())
	}
	for _, a := range s.Actions {
		parts = append(parts, a.Encode())
	}
	if s.Filename != nil {
		parts = append(parts, EncodeToken(s.Filename.Name))
	}
	return strings.Join(parts, "/")
}

// ResourceQuerySegment is a segment addressing stored bytes directly.
type ResourceQuerySegment struct {
	Header *SegmentHeader
	Key    Key
}

func (s ResourceQuerySegment) Encode() string {
	var parts []string
	if s.Header != nil {
		parts = append(parts, s.Header.Encode())
	}
	for _, n := range s.Key.Names {
		parts = append(parts, EncodeToken(n.Name))
	}
	return strings.Join(parts, "/")
}

// QuerySegment is the sum of TransformQuerySegment and ResourceQuerySegment.
// Exactly one of Transform/Resource is set.
type QuerySegment struct {
	Transform *TransformQuerySegment
	Resource  *ResourceQuerySegment
}

func (s QuerySegment) IsResource() bool { return s.Resource != nil }

func (s QuerySegment) Encode() string {
	if s.Resource != nil {
		return s.Resource.Encode()
	}
	if s.Transform != nil {
		return s.Transform.Encode()
	}
	return ""
}

// Query is the top-level parsed pipeline description.
type Query struct {
	Segments []QuerySegment
	Absolute bool
	Source   string
}

// Encode renders the query back to its canonical textual form. For any
// query q, Parse(q.Encode()) reproduces q modulo Position fields.
func (q Query) Encode() string {
	parts := make([]string, len(q.Segments))
	for i, s := range q.Segments {
		parts[i] = s.Encode()
	}
	body := strings.Join(parts, "/")
	if q.Absolute {
		return "/" + body
	}
	return body
}

func (q Query) String() string { return q.Encode() }

// MarshalJSON renders the query as its encoded textual form, the same
// representation the on-disk metadata format uses.
func (q Query) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Encode())
}

// UnmarshalJSON parses the encoded textual form back into a Query.
func (q *Query) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Empty reports whether the query has no segments at all.
func (q Query) Empty() bool { return len(q.Segments) == 0 }

// IsNamespaceOnly reports whether the query declares namespaces and
// nothing else: a single transformation segment whose actions are all
// "ns" declarations (e.g. "ns-foo"), or a bare header segment with no
// actions, resource names or filename.
func (q Query) IsNamespaceOnly() bool {
	if len(q.Segments) != 1 {
		return false
	}
	s := q.Segments[0]
	if s.Transform != nil {
		t := s.Transform
		if t.Filename != nil {
			return false
		}
		if len(t.Actions) == 0 {
			return t.Header != nil
		}
		for _, a := range t.Actions {
			if !a.IsNs() {
				return false
			}
		}
		return true
	}
	if s.Resource != nil {
		return s.Resource.Header != nil && s.Resource.Key.Empty()
	}
	return false
}

// Key returns the Key this query denotes, when the query is exactly one
// resource segment naming no view of its own -- either because it
// carries no header at all, or because its header is the bare "-R" form
// with no following view name (plain stored bytes). This is the routing
// predicate the asset store uses to decide between its key-addressed
// and query-addressed maps.
func (q Query) Key() (Key, bool) {
	if len(q.Segments) != 1 {
		return Key{}, false
	}
	r := q.Segments[0].Resource
	if r == nil {
		return Key{}, false
	}
	if r.Header != nil && (r.Header.Name != "" || len(r.Header.Parameters) > 0) {
		return Key{}, false
	}
	return r.Key, true
}

// Predecessor splits the query into everything but the last action or
// filename, and the removed tail. The decomposition is exact: re-joining
// the two encoded halves with a segment slash reproduces the original
// encoded form. Predecessor of an empty query returns two empty queries.
func (q Query) Predecessor() (Query, Query) {
	if len(q.Segments) == 0 {
		return q, q
	}

	last := q.Segments[len(q.Segments)-1]
	head := q.Segments[:len(q.Segments)-1]

	if last.Resource != nil {
		p := Query{Segments: append([]QuerySegment{}, head...), Absolute: q.Absolute}
		r := Query{Segments: []QuerySegment{last}}
		return p, r
	}

	t := *last.Transform

	if t.Filename != nil {
		fn := *t.Filename
		remainder := TransformQuerySegment{Actions: nil}
		tail := Query{Segments: []QuerySegment{{Transform: &TransformQuerySegment{Filename: &fn}}}}
		remainder.Header = t.Header
		remainder.Actions = append([]ActionRequest{}, t.Actions...)
		p := q.withLastSegment(head, remainder)
		return p, tail
	}

	if len(t.Actions) > 0 {
		lastAction := t.Actions[len(t.Actions)-1]
		tail := Query{Segments: []QuerySegment{{Transform: &TransformQuerySegment{Actions: []ActionRequest{lastAction}}}}}

		remaining := t.Actions[:len(t.Actions)-1]
		if len(remaining) == 0 && t.Header == nil {
			p := Query{Segments: append([]QuerySegment{}, head...), Absolute: q.Absolute}
			return p, tail
		}
		remainder := TransformQuerySegment{Header: t.Header, Actions: remaining}
		p := q.withLastSegment(head, remainder)
		return p, tail
	}

	// Header-only segment with nothing to remove: whole segment is the tail.
	p := Query{Segments: append([]QuerySegment{}, head...), Absolute: q.Absolute}
	tail := Query{Segments: []QuerySegment{last}}
	return p, tail
}

func (q Query) withLastSegment(head []QuerySegment, seg TransformQuerySegment) Query {
	segs := append(append([]QuerySegment{}, head...), QuerySegment{Transform: &seg})
	return Query{Segments: segs, Absolute: q.Absolute}
}
