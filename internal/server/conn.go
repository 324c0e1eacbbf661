package server

import (
	"fmt"
	"net"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Brownie44l1/dirserve/internal/request"
	"github.com/Brownie44l1/dirserve/internal/response"
)

// serveConn reads one request, answers it and closes the connection.
func (s *Server) serveConn(conn net.Conn) {
	id := uuid.NewString()
	s.metrics.connOpened()

	defer func() {
		if r := recover(); r != nil {
			s.metrics.RecordPanic()
			s.Logger.Error("connection handler panic",
				Field{"conn_id", id},
				Field{"panic", fmt.Sprint(r)},
				Field{"stack", string(debug.Stack())},
			)
		}
		conn.Close()
		s.metrics.connClosed()
	}()

	if s.config.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	}

	buf := s.buffers.Get()
	defer s.buffers.Put(buf)

	n, err := conn.Read(*buf)
	if n == 0 {
		s.metrics.RecordError()
		s.Logger.Warn("read failed",
			Field{"conn_id", id},
			Field{"remote", conn.RemoteAddr().String()},
			Field{"error", err},
		)
		return
	}

	start := time.Now()
	raw := strings.ToValidUTF8(string((*buf)[:n]), "�")

	resp, err := s.handle(id, raw)
	if err != nil {
		s.metrics.RecordError()
		s.Logger.Error("request failed",
			Field{"conn_id", id},
			Field{"remote", conn.RemoteAddr().String()},
			Field{"error", err},
		)
		return
	}

	var written int64
	if len(resp.Body) > 0 {
		if s.config.WriteTimeout > 0 {
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		}
		written, err = writeFull(conn, resp.Body)
		if err != nil {
			s.metrics.RecordError()
			s.Logger.Warn("write failed", Field{"conn_id", id}, Field{"error", err})
			return
		}
	}

	duration := time.Since(start)
	s.metrics.RecordRequest(resp.Status.Code(), written, duration)
	s.Logger.Info("request handled",
		Field{"conn_id", id},
		Field{"path", "/" + resp.CurrentPath},
		Field{"status", resp.Status.Code()},
		Field{"bytes", written},
		Field{"duration_ms", duration.Milliseconds()},
	)
}

// handle runs the engine over one raw request.
func (s *Server) handle(id, raw string) (*response.Response, error) {
	req, err := request.Parse(raw)
	if err != nil {
		return nil, err
	}

	if !req.HasResource() {
		s.Logger.Debug("no resource on request line, serving root",
			Field{"conn_id", id},
			Field{"method", req.Method().String()},
		)
	}
	if herr := req.HeaderError(); herr != nil {
		s.Logger.Debug("header block ignored", Field{"conn_id", id}, Field{"error", herr})
	}

	return s.builder.Build(req)
}

// Handle turns raw request text into the bytes to send back. An empty
// result means nothing is written.
func (s *Server) Handle(raw string) ([]byte, error) {
	resp, err := s.handle(uuid.NewString(), raw)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func writeFull(conn net.Conn, data []byte) (int64, error) {
	var total int64
	for int(total) < len(data) {
		n, err := conn.Write(data[total:])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
