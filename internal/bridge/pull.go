package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"

	"goodfood/internal/notify"
	"goodfood/pkg/logger"
)

// Listener binds the pull endpoint and hands every decoded email job to the
// handler. Malformed frames are logged and skipped.
type Listener struct {
	endpoint string
	handle   func(notify.EmailJob)
	log      *logger.Logger
}

func NewListener(endpoint string, handle func(notify.EmailJob), log *logger.Logger) *Listener {
	return &Listener{
		endpoint: endpoint,
		handle:   handle,
		log:      log,
	}
}

// Run accepts connections until the context is cancelled. Each connection
// may carry any number of frames; senders typically write one and close.
func (l *Listener) Run(ctx context.Context) error {
	addr, err := hostPort(l.endpoint)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("cannot bind pull endpoint %s: %w", l.endpoint, err)
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	l.log.Info("bridge_listening", fmt.Sprintf("Pull socket bound at %s", l.endpoint))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		go l.serve(conn)
	}
}

func (l *Listener) serve(conn net.Conn) {
	defer conn.Close()

	for {
		payload, err := readFrame(conn)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			l.log.Warn("bridge_frame_dropped", fmt.Sprintf("Unreadable frame: %v", err))
			return
		}

		var job notify.EmailJob
		if err := json.Unmarshal(payload, &job); err != nil {
			l.log.Warn("bridge_frame_dropped", fmt.Sprintf("Undecodable frame: %v", err))
			continue
		}
		l.handle(job)
	}
}
