package query

import "strings"

// Parse decodes a query's textual form into a Query value: an optional
// leading "/" (absolute), then "/"-separated tokens grouped into
// resource and transformation segments by their "-"-prefixed headers.
func Parse(s string) (Query, error) {
	src := s
	absolute := false
	if strings.HasPrefix(s, "/") {
		absolute = true
		s = s[1:]
	}

	if s == "" {
		return Query{Absolute: absolute, Source: src}, nil
	}

	tokens := splitTopLevel(s, '/')

	var segments []QuerySegment
	var curTransform *TransformQuerySegment
	var curResource *ResourceQuerySegment

	flushTransform := func() {
		if curTransform != nil {
			segments = append(segments, QuerySegment{Transform: curTransform})
			curTransform = nil
		}
	}
	flushResource := func() {
		if curResource != nil {
			segments = append(segments, QuerySegment{Resource: curResource})
			curResource = nil
		}
	}

	offset := 0
	for i, tok := range tokens {
		isLast := i == len(tokens)-1
		if strings.HasPrefix(tok, "-") {
			flushTransform()
			flushResource()
			header, err := parseHeader(tok, src, offset)
			if err != nil {
				return Query{}, err
			}
			if header.Resource {
				curResource = &ResourceQuerySegment{Header: header}
			} else {
				curTransform = &TransformQuerySegment{Header: header}
			}
		} else if curResource != nil {
			decoded, err := DecodeToken(tok)
			if err != nil {
				return Query{}, &Error{Kind: ErrQueryParse, Message: err.Error(), Source: src, Position: Position{Offset: offset}}
			}
			curResource.Key = curResource.Key.JoinName(decoded)
		} else {
			if curTransform == nil {
				curTransform = &TransformQuerySegment{}
			}
			if isLast && looksLikeFilename(tok) {
				decoded, err := DecodeToken(tok)
				if err != nil {
					return Query{}, &Error{Kind: ErrQueryParse, Message: err.Error(), Source: src, Position: Position{Offset: offset}}
				}
				name := ResourceName{Name: decoded, Position: Position{Offset: offset}}
				curTransform.Filename = &name
			} else {
				action, err := parseActionRequest(tok, src, offset)
				if err != nil {
					return Query{}, err
				}
				curTransform.Actions = append(curTransform.Actions, action)
			}
		}
		offset += len(tok) + 1
	}

	flushTransform()
	flushResource()

	return Query{Segments: segments, Absolute: absolute, Source: src}, nil
}

// looksLikeFilename reports whether a trailing token has the
// "stem.extension" shape required of a filename.
func looksLikeFilename(tok string) bool {
	dot := strings.LastIndexByte(tok, '.')
	if dot <= 0 || dot == len(tok)-1 {
		return false
	}
	stem := tok[:dot]
	// An ActionRequest also contains '-'; a filename's stem must not
	// look like a parameterised action name.
	return !strings.Contains(stem, "-")
}

func parseHeader(tok, src string, offset int) (*SegmentHeader, error) {
	level := 0
	i := 0
	for i < len(tok) && tok[i] == '-' {
		level++
		i++
	}
	level-- // first dash is mandatory; level counts extras.
	if level < 0 {
		level = 0
	}

	resource := false
	if i < len(tok) && tok[i] == 'R' {
		resource = true
		i++
	}

	rest := tok[i:]
	parts := splitTopLevel(rest, '-')
	name, err := DecodeToken(parts[0])
	if err != nil {
		return nil, &Error{Kind: ErrQueryParse, Message: err.Error(), Source: src, Position: Position{Offset: offset}}
	}

	var params []ActionParameter
	for _, p := range parts[1:] {
		param, err := parseActionParameter(p, src, offset)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}

	return &SegmentHeader{
		Name:       name,
		Level:      level,
		Parameters: params,
		Resource:   resource,
		Position:   Position{Offset: offset},
	}, nil
}

func parseActionRequest(tok, src string, offset int) (ActionRequest, error) {
	parts := splitTopLevel(tok, '-')
	name, err := DecodeToken(parts[0])
	if err != nil {
		return ActionRequest{}, &Error{Kind: ErrQueryParse, Message: err.Error(), Source: src, Position: Position{Offset: offset}}
	}

	var params []ActionParameter
	for _, p := range parts[1:] {
		param, err := parseActionParameter(p, src, offset)
		if err != nil {
			return ActionRequest{}, err
		}
		params = append(params, param)
	}

	return ActionRequest{Name: name, Parameters: params, Position: Position{Offset: offset}}, nil
}

func parseActionParameter(s, src string, offset int) (ActionParameter, error) {
	if strings.HasPrefix(s, "~X") && strings.HasSuffix(s, "~E") && len(s) >= 4 {
		inner := s[2 : len(s)-2]
		q, err := Parse(inner)
		if err != nil {
			return ActionParameter{}, err
		}
		return LinkParam(q), nil
	}

	decoded, err := DecodeToken(s)
	if err != nil {
		return ActionParameter{}, &Error{Kind: ErrQueryParse, Message: err.Error(), Source: src, Position: Position{Offset: offset}}
	}
	return StringParam(decoded), nil
}

// splitTopLevel splits s on sep, ignoring any sep found inside a nested
// "~X...~E" link-query span (which may itself contain '/' and '-').
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0

	i := 0
	for i < len(s) {
		c := s[i]
		if c == '~' && i+1 < len(s) {
			switch s[i+1] {
			case 'X':
				depth++
				i += 2
				continue
			case 'E':
				if depth > 0 {
					depth--
				}
				i += 2
				continue
			}
		}
		if depth == 0 && c == sep {
			parts = append(parts, s[start:i])
			start = i + 1
			i++
			continue
		}
		i++
	}
	parts = append(parts, s[start:])
	return parts
}

// ParseNamespaces extracts the namespace search list contributed by
// every "ns" declaration anywhere in the query, in left-to-right order.
// A declaration is a plain "ns-<name>[-...]" action inside a
// transformation segment's action list; an "ns"-named segment header
// contributes the same way. The list applies to every action of the
// query, regardless of where the declaration sits.
func ParseNamespaces(q Query) []string {
	var out []string
	appendParams := func(params []ActionParameter) {
		for _, p := range params {
			if !p.IsLink() {
				out = append(out, p.StringValue())
			}
		}
	}
	for _, seg := range q.Segments {
		var header *SegmentHeader
		if seg.Transform != nil {
			header = seg.Transform.Header
		} else if seg.Resource != nil {
			header = seg.Resource.Header
		}
		if header != nil && header.Name == "ns" {
			appendParams(header.Parameters)
		}
		if seg.Transform != nil {
			for _, a := range seg.Transform.Actions {
				if a.IsNs() {
					appendParams(a.Parameters)
				}
			}
		}
	}
	return out
}
