package headers

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRequestLine means the input has no CRLF ending a request line.
	ErrNoRequestLine = errors.New("no request line")
	// ErrMalformedHeader means a header line has no colon.
	ErrMalformedHeader = errors.New("malformed header")
)

const crlf = "\r\n"

// Headers maps a header name to its value. Names are kept exactly as
// received (trimmed), so lookups are case-sensitive.
type Headers map[string]string

// Get returns the value stored for key.
func (h Headers) Get(key string) (string, bool) {
	v, ok := h[key]
	return v, ok
}

// Len returns the number of distinct header names.
func (h Headers) Len() int {
	return len(h)
}

// Clone returns a copy that can be handed out without exposing h.
func (h Headers) Clone() Headers {
	c := make(Headers, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// Parse reads the header block of a raw request. The request line is
// skipped and parsing stops at the first empty line. Later duplicates
// overwrite earlier ones. A line without a colon fails the whole block.
func Parse(raw string) (Headers, error) {
	_, rest, ok := strings.Cut(raw, crlf)
	if !ok {
		return nil, ErrNoRequestLine
	}

	h := make(Headers)
	for _, line := range strings.Split(rest, crlf) {
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: no colon in %q", ErrMalformedHeader, line)
		}

		h[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return h, nil
}
