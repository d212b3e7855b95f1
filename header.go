package formfeed

import (
	"bytes"
	"strings"

	"github.com/indigo-web/utils/uf"
)

const (
	headerContentDisposition = "content-disposition"
	headerContentType        = "content-type"
)

// PartHeader maps lower-cased header names of a part to their trimmed values.
type PartHeader map[string]string

// Get returns the value of the header key, matched case-insensitively.
// If the header is absent, Get returns "".
func (h PartHeader) Get(key string) string {
	return h[strings.ToLower(key)]
}

// Lookup is like Get but reports whether the header is present.
func (h PartHeader) Lookup(key string) (string, bool) {
	v, ok := h[strings.ToLower(key)]
	return v, ok
}

// Len returns the number of headers.
func (h PartHeader) Len() int {
	return len(h)
}

func parseHeaderLine(line []byte) (name, value string, ok bool) {
	i := bytes.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}

	// line is reused by the parser, so the name must not alias it
	name = strings.Clone(strings.ToLower(strings.TrimSpace(uf.B2S(line[:i]))))
	value = strings.TrimSpace(string(line[i+1:]))

	return name, value, name != ""
}

type contentDisposition struct {
	fieldName   string
	filename    string
	hasFilename bool
}

// parseContentDisposition reads the name and filename parameters of a
// form-data disposition such as `form-data; name="f"; filename="a.txt"`.
func parseContentDisposition(value string) contentDisposition {
	var cd contentDisposition

	segments := splitParams(value)
	if len(segments) == 0 {
		return cd
	}

	// segments[0] is the disposition type
	for _, segment := range segments[1:] {
		key, v, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			cd.fieldName = unquote(strings.TrimSpace(v))
		case "filename":
			cd.filename = unquote(strings.TrimSpace(v))
			cd.hasFilename = true
		}
	}

	return cd
}

// splitParams splits s on semicolons that are not inside a quoted string.
func splitParams(s string) []string {
	var (
		segments []string
		quoted   bool
		escaped  bool
		start    int
	)
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case quoted && s[i] == '\\':
			escaped = true
		case s[i] == '"':
			quoted = !quoted
		case s[i] == ';' && !quoted:
			segments = append(segments, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}

	if last := strings.TrimSpace(s[start:]); last != "" || len(segments) == 0 {
		segments = append(segments, last)
	}

	return segments
}

func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}

	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}

	return sb.String()
}
