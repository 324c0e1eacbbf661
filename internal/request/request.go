package request

import (
	"strings"

	"github.com/Brownie44l1/dirserve/internal/headers"
)

// Request is one parsed request. It is not modified after Parse returns.
type Request struct {
	method   Method
	resource Resource
	version  Version
	headers  headers.Headers
	body     string

	// set when the matching part was substituted with an empty default
	noResource bool
	headerErr  error
}

// Parse assembles a Request from raw request text. Only an unknown
// protocol version is fatal; a missing resource or a malformed header
// block fall back to an empty path and an empty header set.
func Parse(raw string) (*Request, error) {
	version, err := ParseVersion(raw)
	if err != nil {
		return nil, err
	}

	r := &Request{
		method:  ClassifyMethod(raw),
		version: version,
	}

	res, ok := ResolveResource(raw)
	if !ok {
		r.noResource = true
	}
	r.resource = res

	h, err := headers.Parse(raw)
	if err != nil {
		r.headerErr = err
		h = headers.Headers{}
	}
	r.headers = h

	if _, body, ok := strings.Cut(raw, "\r\n\r\n"); ok {
		r.body = body
	}

	return r, nil
}

func (r *Request) Method() Method {
	return r.method
}

// Path returns the decoded resource path, "" when none was found.
func (r *Request) Path() string {
	return r.resource.Path
}

func (r *Request) Version() Version {
	return r.version
}

// Header returns the value of a header, matched case-sensitively.
func (r *Request) Header(name string) (string, bool) {
	return r.headers.Get(name)
}

// Headers returns a copy of the header set.
func (r *Request) Headers() headers.Headers {
	return r.headers.Clone()
}

func (r *Request) Body() string {
	return r.body
}

// HasResource reports whether a path was extracted from the request line.
func (r *Request) HasResource() bool {
	return !r.noResource
}

// HeaderError returns why the header block was discarded, if it was.
func (r *Request) HeaderError() error {
	return r.headerErr
}
