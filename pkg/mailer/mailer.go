package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Mailer delivers composed messages over a Transport.
type Mailer struct {
	transport Transport
	now       func() time.Time
}

func New(transport Transport) *Mailer {
	return &Mailer{transport: transport, now: time.Now}
}

// Send delivers msg. Every SMTP step error is returned wrapped with the step name.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if m == nil || m.transport == nil {
		return fmt.Errorf("mailer not configured")
	}
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return fmt.Errorf("recipient is required")
	}
	msg.To = to

	from := m.transport.Sender()
	if from == "" {
		return fmt.Errorf("sender address is not configured")
	}

	payload, err := Compose(from, msg, m.now())
	if err != nil {
		return err
	}

	client, err := m.transport.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := wc.Write(payload); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}
	return nil
}
