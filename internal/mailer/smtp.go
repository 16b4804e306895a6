package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"syscall"
	"time"

	"recipebox/internal/config"
	"recipebox/internal/observability"

	"github.com/wneessen/go-mail"
)

// DefaultTimeout bounds connecting to and talking with the relay.
const DefaultTimeout = 60 * time.Second

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("Email credentials not configured. Please set EMAIL_USER and EMAIL_PASSWORD environment variables.")

// Sender delivers messages over a single relay session.
type Sender interface {
	Send(ctx context.Context, msgs ...Message) error
}

// SMTPSender sends through an authenticated STARTTLS relay.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
}

// NewSMTPSender builds a sender from the email settings, or ErrNotConfigured.
func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	if !cfg.MailConfigured() {
		return nil, ErrNotConfigured
	}
	return &SMTPSender{
		host:     cfg.EmailHost,
		port:     cfg.EmailPort,
		username: cfg.EmailUser,
		password: cfg.EmailPassword,
		timeout:  DefaultTimeout,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msgs ...Message) error {
	out := make([]*mail.Msg, 0, len(msgs))
	for _, m := range msgs {
		msg, err := toMsg(m)
		if err != nil {
			return err
		}
		out = append(out, msg)
	}

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.username),
		mail.WithPassword(s.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(s.timeout),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	start := time.Now()
	err = client.DialAndSendWithContext(ctx, out...)
	observability.MailSendLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func toMsg(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	if m.ReplyTo != "" {
		if err := msg.ReplyTo(m.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to address: %w", err)
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)
	return msg, nil
}

// IsConnectionError reports whether err is a transport-level failure
// (timeout, refused or reset connection, failed dial) rather than a rejection by the relay.
// A reply from the relay is never a connection failure, whatever its text says.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var replyErr *textproto.Error
	if errors.As(err, &replyErr) {
		return false
	}
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) && sendErr.ErrorCode() > 0 {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
