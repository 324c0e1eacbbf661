package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderParse(t *testing.T) {
	// Test: Valid single header
	h, err := Parse("GET / HTTP/1.1\r\nHost: localhost:5500\r\n\r\n")
	require.NoError(t, err)
	val, ok := h.Get("Host")
	assert.True(t, ok)
	assert.Equal(t, "localhost:5500", val)
	assert.Equal(t, 1, h.Len())

	// Test: Extra whitespace around name and value is trimmed
	h, err = Parse("GET / HTTP/1.1\r\n  Host :   localhost:5500   \r\n\r\n")
	require.NoError(t, err)
	val, ok = h.Get("Host")
	assert.True(t, ok)
	assert.Equal(t, "localhost:5500", val)

	// Test: Keys are case-sensitive as received
	h, err = Parse("GET / HTTP/1.1\r\nContent-Type: text/html\r\n\r\n")
	require.NoError(t, err)
	_, ok = h.Get("content-type")
	assert.False(t, ok)
	val, ok = h.Get("Content-Type")
	assert.True(t, ok)
	assert.Equal(t, "text/html", val)

	// Test: Duplicate headers, last one wins
	h, err = Parse("GET / HTTP/1.1\r\nSet-Cookie: a=1\r\nSet-Cookie: b=2\r\n\r\n")
	require.NoError(t, err)
	assert.Equal(t, 1, h.Len())
	val, _ = h.Get("Set-Cookie")
	assert.Equal(t, "b=2", val)

	// Test: Value may contain further colons
	h, err = Parse("GET / HTTP/1.1\r\nHost: example.com:8080\r\n\r\n")
	require.NoError(t, err)
	val, _ = h.Get("Host")
	assert.Equal(t, "example.com:8080", val)

	// Test: Empty header value (allowed)
	h, err = Parse("GET / HTTP/1.1\r\nX-Empty:\r\n\r\n")
	require.NoError(t, err)
	val, ok = h.Get("X-Empty")
	assert.True(t, ok)
	assert.Equal(t, "", val)

	// Test: Parsing stops at the blank line, body is ignored
	h, err = Parse("POST / HTTP/1.1\r\nHost: a\r\n\r\nnot a header\r\nX: y\r\n")
	require.NoError(t, err)
	assert.Equal(t, Headers{"Host": "a"}, h)

	// Test: Request line only
	h, err = Parse("GET / HTTP/1.1\r\n")
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())

	// Test: Multiple headers in one block
	h, err = Parse("GET / HTTP/1.1\r\nHost: example.com\r\nContent-Type: text/html\r\nContent-Length: 42\r\n\r\n")
	require.NoError(t, err)
	assert.Equal(t, Headers{
		"Host":           "example.com",
		"Content-Type":   "text/html",
		"Content-Length": "42",
	}, h)
}

func TestHeaderParseFailures(t *testing.T) {
	// Test: No colon in header fails the whole block
	_, err := Parse("GET / HTTP/1.1\r\nHost: a\r\nInvalidHeader\r\n\r\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedHeader)
	assert.Contains(t, err.Error(), "InvalidHeader")

	// Test: Truncated block without a blank line ends on a partial line
	_, err = Parse("GET / HTTP/1.1\r\nHost: a\r\nUser-Ag")
	assert.ErrorIs(t, err, ErrMalformedHeader)

	// Test: No request line terminator at all
	_, err = Parse("GET / HTTP/1.1")
	assert.ErrorIs(t, err, ErrNoRequestLine)
}

func TestHeadersClone(t *testing.T) {
	h := Headers{"Host": "a"}
	c := h.Clone()
	c["Host"] = "b"

	val, _ := h.Get("Host")
	assert.Equal(t, "a", val)
}
