package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/config"
)

// Client is the subset of *smtp.Client the mailer drives.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Transport opens authenticated SMTP sessions.
type Transport interface {
	Connect(ctx context.Context) (Client, error)
	Sender() string
}

// SMTPTransport dials the relay, upgrades with STARTTLS and authenticates with PLAIN.
type SMTPTransport struct {
	cfg config.SMTPConfig
}

func NewSMTPTransport(cfg config.SMTPConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg}
}

// Sender is the envelope and header From address.
func (t *SMTPTransport) Sender() string {
	return t.cfg.Sender()
}

// Connect establishes a ready-to-send session. The dial is bounded by the
// configured timeout and the context deadline.
func (t *SMTPTransport) Connect(ctx context.Context) (Client, error) {
	if t.cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is not configured")
	}
	if t.cfg.Username == "" || t.cfg.Password == "" {
		return nil, fmt.Errorf("smtp credentials are not configured")
	}

	timeout := t.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial smtp server: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, fmt.Errorf("smtp server does not support STARTTLS")
	}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("start tls: %w", err)
	}

	auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)
	if err := client.Auth(auth); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("smtp auth: %w", err)
	}

	return client, nil
}
