package response

import "strconv"

// Status is the outcome of a request. No other codes are produced.
type Status int

const (
	StatusOK       Status = 200
	StatusNotFound Status = 404
)

// Code returns the numeric status code.
func (s Status) Code() int {
	return int(s)
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "200 OK"
	case StatusNotFound:
		return "404 NOT FOUND"
	default:
		return strconv.Itoa(int(s))
	}
}

// AcceptRanges selects the accept-ranges header value. Ranges are
// advertised for files but never served.
type AcceptRanges int

const (
	AcceptNone AcceptRanges = iota
	AcceptBytes
)

func (a AcceptRanges) String() string {
	if a == AcceptBytes {
		return "bytes"
	}
	return "none"
}
