package response

import (
	"fmt"
	"io"

	"github.com/Brownie44l1/dirserve/internal/request"
)

// Field is one header line.
type Field struct {
	Name  string
	Value string
}

// writerState tracks what's been written so far
type writerState int

const (
	stateStart writerState = iota
	stateStatusWritten
	stateHeadersWritten
	stateBodyWritten
)

// Writer serializes a response message. In the default framing the status
// line and header lines are joined with a bare "\n" and the header block
// ends with "\r\n\r\n". With crlf set every line ends with "\r\n".
type Writer struct {
	w       io.Writer
	state   writerState
	lineEnd string
	written int64
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer, crlf bool) *Writer {
	lineEnd := "\n"
	if crlf {
		lineEnd = "\r\n"
	}
	return &Writer{
		w:       w,
		state:   stateStart,
		lineEnd: lineEnd,
	}
}

// WriteStatusLine writes "<version> <status>" without a terminator.
func (w *Writer) WriteStatusLine(v request.Version, s Status) error {
	if w.state != stateStart {
		return fmt.Errorf("status line already written")
	}

	if err := w.write(fmt.Sprintf("%s %s", v, s)); err != nil {
		return err
	}

	w.state = stateStatusWritten
	return nil
}

// WriteHeaders writes the header lines in order followed by the blank line.
func (w *Writer) WriteHeaders(fields []Field) error {
	if w.state != stateStatusWritten {
		return fmt.Errorf("must write status line before headers")
	}

	for _, f := range fields {
		if err := w.write(fmt.Sprintf("%s%s: %s", w.lineEnd, f.Name, f.Value)); err != nil {
			return err
		}
	}

	if err := w.write("\r\n\r\n"); err != nil {
		return err
	}

	w.state = stateHeadersWritten
	return nil
}

// WriteBody writes the payload.
func (w *Writer) WriteBody(data []byte) error {
	if w.state != stateHeadersWritten {
		return fmt.Errorf("must write headers before body")
	}

	n, err := w.w.Write(data)
	w.written += int64(n)
	if err != nil {
		return err
	}

	w.state = stateBodyWritten
	return nil
}

// Written returns the number of bytes written so far.
func (w *Writer) Written() int64 {
	return w.written
}

func (w *Writer) write(s string) error {
	n, err := io.WriteString(w.w, s)
	w.written += int64(n)
	return err
}
