package request

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedVersion is returned when no recognised version token is on the request line.
var ErrUnsupportedVersion = errors.New("unsupported HTTP version")

const crlf = "\r\n"

// requestLine returns the text before the first CRLF.
func requestLine(raw string) (string, bool) {
	line, _, ok := strings.Cut(raw, crlf)
	return line, ok
}

// Version is the protocol version named on the request line.
type Version int

const (
	V1_1 Version = iota
	V2_0
)

func (v Version) String() string {
	switch v {
	case V1_1:
		return "HTTP/1.1"
	case V2_0:
		return "HTTP/2"
	default:
		return "HTTP/?"
	}
}

// ParseVersion scans the request line for the first recognised version
// token. Only HTTP/1.1, HTTP/2 and HTTP/2.0 are accepted.
func ParseVersion(raw string) (Version, error) {
	if line, ok := requestLine(raw); ok {
		for _, tok := range strings.Fields(line) {
			switch tok {
			case "HTTP/1.1":
				return V1_1, nil
			case "HTTP/2", "HTTP/2.0":
				return V2_0, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown protocol version in %q", ErrUnsupportedVersion, raw)
}

// Method is the classified request verb. Unclassified is a valid value and
// means no resource is extracted.
type Method int

const (
	Unclassified Method = iota
	Get
	Post
)

func (m Method) String() string {
	switch m {
	case Get:
		return "GET"
	case Post:
		return "POST"
	default:
		return "UNCLASSIFIED"
	}
}

func identifyMethod(tok string) Method {
	switch tok {
	case "GET":
		return Get
	case "POST":
		return Post
	default:
		return Unclassified
	}
}

// ClassifyMethod looks at the token before the first space of the request
// line. It never fails.
func ClassifyMethod(raw string) Method {
	line, ok := requestLine(raw)
	if !ok {
		return Unclassified
	}
	tok, _, ok := strings.Cut(line, " ")
	if !ok {
		return Unclassified
	}
	return identifyMethod(tok)
}
