package response

import "github.com/h2non/filetype"

const defaultContentType = "text/plain"

// contentType infers a media type from the leading bytes of data.
func contentType(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return defaultContentType
	}
	return kind.MIME.Value
}
