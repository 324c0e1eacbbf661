package response

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/Brownie44l1/dirserve/internal/request"
)

// Resolver maps a request path to the filesystem path to serve.
type Resolver interface {
	Resolve(resource string) (string, error)
}

// Response is a built response. Body holds the complete serialized
// message and is empty when the target does not exist.
type Response struct {
	Version       request.Version
	Status        Status
	ContentLength int
	AcceptRanges  AcceptRanges
	ContentType   string
	Body          []byte
	CurrentPath   string
}

// Builder turns requests into responses for one serving root.
type Builder struct {
	resolver Resolver
	crlf     bool
}

type Option func(*Builder)

// WithCRLF terminates every header line with "\r\n".
func WithCRLF(crlf bool) Option {
	return func(b *Builder) {
		b.crlf = crlf
	}
}

func NewBuilder(resolver Resolver, opts ...Option) *Builder {
	b := &Builder{resolver: resolver}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build resolves the request path and produces the response. Errors are
// fatal for the request: resolving the path, reading a file or reading a
// directory.
func (b *Builder) Build(req *request.Request) (*Response, error) {
	resp := &Response{
		Version:      request.V1_1,
		Status:       StatusNotFound,
		AcceptRanges: AcceptNone,
		CurrentPath:  req.Path(),
	}

	target, err := b.resolver.Resolve(resp.CurrentPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return resp, nil
		}
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}

	switch {
	case info.Mode().IsRegular():
		err = b.serveFile(resp, target)
	case info.IsDir():
		err = b.serveDirectory(resp, target)
	default:
		err = b.serveNotFound(resp)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (b *Builder) serveFile(resp *Response, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	resp.Status = StatusOK
	resp.AcceptRanges = AcceptBytes
	resp.ContentType = contentType(content)
	return b.finish(resp, content)
}

func (b *Builder) serveDirectory(resp *Response, path string) error {
	page, err := renderListing(path, resp.CurrentPath)
	if err != nil {
		return err
	}

	resp.Status = StatusOK
	return b.finish(resp, []byte(page))
}

func (b *Builder) serveNotFound(resp *Response) error {
	return b.finish(resp, []byte(notFoundPage))
}

func (b *Builder) finish(resp *Response, payload []byte) error {
	resp.ContentLength = len(payload)

	fields := []Field{
		{Name: "accept-ranges", Value: resp.AcceptRanges.String()},
		{Name: "content-length", Value: strconv.Itoa(resp.ContentLength)},
	}
	if resp.ContentType != "" {
		fields = append(fields, Field{Name: "content-type", Value: resp.ContentType})
	}

	var buf bytes.Buffer
	buf.Grow(len(payload) + 128)

	w := NewWriter(&buf, b.crlf)
	if err := w.WriteStatusLine(resp.Version, resp.Status); err != nil {
		return err
	}
	if err := w.WriteHeaders(fields); err != nil {
		return err
	}
	if err := w.WriteBody(payload); err != nil {
		return err
	}

	resp.Body = buf.Bytes()
	return nil
}
