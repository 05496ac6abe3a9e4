package mail

import (
	"context"
	"log/slog"
	"sync/atomic"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPSender struct {
	dial func() (gomail.SendCloser, error)
	from string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dial: gomail.NewDialer(host, port, username, password).Dial,
		from: from,
	}
}

const (
	pending int32 = iota
	transmitting
	abandoned
)

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := newMessage(s.from, to, subject, body)

	// The dialer takes no deadline. A context that expires while dialing
	// abandons the message; once transmission starts, Send reports its outcome.
	var state atomic.Int32
	done := make(chan error, 1)
	go func() {
		conn, err := s.dial()
		if err != nil {
			done <- err
			return
		}
		defer conn.Close()

		if !state.CompareAndSwap(pending, transmitting) {
			return
		}
		done <- gomail.Send(conn, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if state.CompareAndSwap(pending, abandoned) {
			return ctx.Err()
		}
		return <-done
	}
}

func newMessage(from, to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}

// LogSender is the development transport. It records who would have been
// mailed; the body may carry credentials and is never logged.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, _ string) error {
	s.logger.InfoContext(ctx, "mail delivery skipped (log driver)", "to", to, "subject", subject)
	return nil
}
