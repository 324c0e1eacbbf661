package request

import "strings"

// Resource is the decoded request path with leading separators removed.
type Resource struct {
	Path string
}

// ResolveResource extracts the path token of a GET or POST request line.
// It returns false for unclassified methods or when a delimiter is missing.
func ResolveResource(raw string) (Resource, bool) {
	line, ok := requestLine(raw)
	if !ok {
		return Resource{}, false
	}

	method, rest, ok := strings.Cut(line, " ")
	if !ok || identifyMethod(method) == Unclassified {
		return Resource{}, false
	}

	target, _, ok := strings.Cut(rest, " ")
	if !ok {
		return Resource{}, false
	}

	decoded := decodePath(strings.TrimSpace(target))
	return Resource{Path: strings.TrimLeft(decoded, "/")}, true
}

// decodePath percent-decodes each valid %XX sequence of p. A '%' that does
// not start a valid sequence is kept as is. Invalid UTF-8 in the result is
// replaced with U+FFFD.
func decodePath(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}

	buf := make([]byte, 0, len(p))
	for i := 0; i < len(p); i++ {
		if p[i] == '%' && i+2 < len(p) && isHex(p[i+1]) && isHex(p[i+2]) {
			buf = append(buf, unhex(p[i+1])<<4|unhex(p[i+2]))
			i += 2
			continue
		}
		buf = append(buf, p[i])
	}
	return strings.ToValidUTF8(string(buf), "\uFFFD")
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
