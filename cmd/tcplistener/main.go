package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"sort"

	"github.com/rs/zerolog"

	"github.com/Brownie44l1/dirserve/internal/request"
)

// tcplistener prints how each incoming request is parsed. It answers
// with a fixed text body and never touches the filesystem.
func main() {
	addr := flag.String("addr", "127.0.0.1:42069", "listen address")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal().Err(err).Msg("listen failed")
	}
	defer listener.Close()
	log.Info().Str("addr", listener.Addr().String()).Msg("listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Warn().Err(err).Msg("accept failed")
			continue
		}

		go handleConnection(conn, log)
	}
}

func handleConnection(conn net.Conn, log zerolog.Logger) {
	defer conn.Close()

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if n == 0 {
		log.Warn().Err(err).Msg("read failed")
		return
	}

	req, err := request.Parse(string(buf[:n]))
	if err != nil {
		log.Error().Err(err).Msg("parse failed")
		return
	}

	fmt.Println("Request Line")
	fmt.Printf("Method: %s\n", req.Method())
	fmt.Printf("Path: %q (found: %t)\n", req.Path(), req.HasResource())
	fmt.Printf("Version: %s\n", req.Version())

	fmt.Println("Headers")
	if herr := req.HeaderError(); herr != nil {
		fmt.Printf("  ignored: %v\n", herr)
	}
	h := req.Headers()
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, h[name])
	}

	fmt.Println("Body")
	fmt.Printf("%s\n", req.Body())

	body := "Hello from your HTTP server!\n"
	fmt.Fprintf(conn,
		"HTTP/1.1 200 OK\r\n"+
			"Content-Length: %d\r\n"+
			"Content-Type: text/plain\r\n"+
			"Connection: close\r\n"+
			"\r\n"+
			"%s",
		len(body),
		body,
	)
}
