package formfeed

import (
	"errors"
	"net/textproto"
	"strings"
)

// ErrMalformedContentType is returned when no boundary can be derived from the Content-Type header.
var ErrMalformedContentType = errors.New("malformed content type")

// RFC 2046 limits the boundary token to 70 characters.
const maxBoundaryTokenLength = 70

// Boundary holds the delimiter lines derived from the boundary parameter.
type Boundary struct {
	token string
	part  []byte
	final []byte
}

// NewBoundary builds the part and final delimiter lines for token.
func NewBoundary(token string) (Boundary, error) {
	if token == "" || len(token) > maxBoundaryTokenLength {
		return Boundary{}, ErrMalformedContentType
	}

	part := make([]byte, 0, len(token)+2)
	part = append(part, "--"...)
	part = append(part, token...)

	final := make([]byte, 0, len(token)+4)
	final = append(final, part...)
	final = append(final, "--"...)

	return Boundary{
		token: token,
		part:  part,
		final: final,
	}, nil
}

// ParseBoundary extracts the boundary parameter from a Content-Type header value.
func ParseBoundary(contentType string) (Boundary, error) {
	if strings.TrimSpace(contentType) == "" {
		return Boundary{}, ErrMalformedContentType
	}

	for _, segment := range strings.Split(contentType, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(segment), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "boundary") {
			continue
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}

		return NewBoundary(value)
	}

	return Boundary{}, ErrMalformedContentType
}

// BoundaryFromHeader reads the Content-Type of a request header and derives its boundary.
// http.Header can be passed by conversion: textproto.MIMEHeader(req.Header).
func BoundaryFromHeader(h textproto.MIMEHeader) (Boundary, error) {
	return ParseBoundary(h.Get("Content-Type"))
}

// Token returns the raw boundary parameter.
func (b Boundary) Token() string {
	return b.token
}

// Part returns a copy of the part delimiter line ("--" + token).
func (b Boundary) Part() []byte {
	return append([]byte(nil), b.part...)
}

// Final returns a copy of the final delimiter line ("--" + token + "--").
func (b Boundary) Final() []byte {
	return append([]byte(nil), b.final...)
}

func (b Boundary) isZero() bool {
	return len(b.part) == 0
}
