package alerts

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/logger"
	"github.com/cropwatch/cropwatch-backend/pkg/mailer"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"

	sentMessage = "Alert sent successfully"
)

// DeliveryResult reports the outcome of one alert. Delivery problems are
// reported here instead of as errors.
type DeliveryResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Sent is true when the message was accepted by the SMTP server.
func (r DeliveryResult) Sent() bool {
	return r.Status == StatusSent
}

// Err converts a failed result into an error for callers that count failures.
func (r DeliveryResult) Err() error {
	if r.Sent() {
		return nil
	}
	return fmt.Errorf("alert delivery failed: %s", r.Message)
}

type sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Dispatcher renders and mails crop alerts.
type Dispatcher struct {
	sender sender
	logg   *logger.Logger
	now    func() time.Time
}

// NewDispatcher builds a dispatcher. A nil sender makes every alert fail.
func NewDispatcher(s sender, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{
		sender: s,
		logg:   logg,
		now:    time.Now,
	}
}

// SendDiseaseAlert mails a disease detection notice. confidence is a fraction in [0,1].
func (d *Dispatcher) SendDiseaseAlert(ctx context.Context, disease string, confidence float64, email string) DeliveryResult {
	view := diseaseView{
		Disease:    disease,
		Confidence: strconv.FormatFloat(confidence*100, 'f', 1, 64),
		Detected:   d.now().Format(timestampLayout),
	}
	var text, html bytes.Buffer
	if err := diseaseText.Execute(&text, view); err != nil {
		return d.fail(ctx, email, "disease", err)
	}
	if err := diseaseHTML.Execute(&html, view); err != nil {
		return d.fail(ctx, email, "disease", err)
	}
	return d.deliver(ctx, "disease", mailer.Message{
		To:      email,
		Subject: fmt.Sprintf("⚠️ Crop Disease Alert: %s Detected", disease),
		Text:    text.String(),
		HTML:    html.String(),
	})
}

// SendHealthAlert mails a vegetation health report for level.
func (d *Dispatcher) SendHealthAlert(ctx context.Context, level string, ndvi float64, email string) DeliveryResult {
	color, ok := healthColors[level]
	background := color
	if !ok {
		color, background = "#000", "#fff"
	}
	view := healthView{
		Level:      level,
		NDVI:       strconv.FormatFloat(ndvi, 'f', 2, 64),
		Timestamp:  d.now().Format(timestampLayout),
		Color:      color,
		Background: background,
	}
	var text, html bytes.Buffer
	if err := healthText.Execute(&text, view); err != nil {
		return d.fail(ctx, email, "health", err)
	}
	if err := healthHTML.Execute(&html, view); err != nil {
		return d.fail(ctx, email, "health", err)
	}
	return d.deliver(ctx, "health", mailer.Message{
		To:      email,
		Subject: fmt.Sprintf("Crop Health Report: %s", level),
		Text:    text.String(),
		HTML:    html.String(),
	})
}

func (d *Dispatcher) deliver(ctx context.Context, kind string, msg mailer.Message) DeliveryResult {
	if strings.TrimSpace(msg.To) == "" {
		return d.fail(ctx, msg.To, kind, fmt.Errorf("recipient is required"))
	}
	if d.sender == nil {
		return d.fail(ctx, msg.To, kind, fmt.Errorf("mailer not configured"))
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		return d.fail(ctx, msg.To, kind, err)
	}
	if d.logg != nil {
		d.logg.Info(d.logg.WithFields(ctx, map[string]any{"alert": kind, "recipient": msg.To}), "alert.sent")
	}
	return DeliveryResult{Status: StatusSent, Message: sentMessage}
}

func (d *Dispatcher) fail(ctx context.Context, recipient, kind string, err error) DeliveryResult {
	if d.logg != nil {
		logCtx := d.logg.WithFields(ctx, map[string]any{
			"alert":     kind,
			"recipient": recipient,
			"error":     err.Error(),
		})
		d.logg.Warn(logCtx, "alert.failed")
	}
	return DeliveryResult{Status: StatusFailed, Message: err.Error()}
}
