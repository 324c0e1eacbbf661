package response

import (
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const listingPreamble = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
</head>
<body>
`

const notFoundPage = `<!DOCTYPE html>
<html>
    <head>
        <meta charset="utf-8">
    </head>
    <body>
        <h1>404 NOT FOUND</h1>
    </body>
</html>`

// renderListing builds the HTML page for dir. current is the request path
// the directory was reached through. Entries keep the order the
// filesystem returns them in.
func renderListing(dir, current string) (string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return "", fmt.Errorf("open directory: %w", err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return "", fmt.Errorf("read directory: %w", err)
	}

	var b strings.Builder
	b.WriteString(listingPreamble)
	fmt.Fprintf(&b, `<h1>Currently in: %s</h1><br><hr><a href="../">Go up</a>`, html.EscapeString("/"+current))
	b.WriteString("<ul>")

	for _, e := range entries {
		name := e.Name()
		display := name
		if isDir(dir, e) {
			display += "/"
		}
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, encodeLink(current+"/"+name), html.EscapeString(display))
	}

	b.WriteString("</ul></body></html>")
	return b.String(), nil
}

// isDir follows a symlinked entry to its target.
func isDir(dir string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// encodeLink percent-encodes every byte outside [A-Za-z0-9].
func encodeLink(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}
