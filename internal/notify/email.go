package notify

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/oshokin/moisture-sensor/internal/logger"
)

//go:embed alert.html
var defaultTemplate string

// SMTPSettings holds the outbound mail server parameters.
type SMTPSettings struct {
	// Host is the SMTP server hostname.
	Host string
	// Port is the SMTP server port.
	Port int
	// Username authenticates the session; empty disables AUTH.
	Username string
	// Password authenticates the session.
	Password string
	// StartTLS upgrades a plain connection instead of implicit TLS.
	StartTLS bool
}

// MessageSettings describes the alert message envelope and body source.
type MessageSettings struct {
	// From is the sender address ("Name <addr>" or bare address).
	From string
	// To is the recipient address.
	To string
	// Subject is the alert subject line.
	Subject string
	// TemplatePath points to an html/template file for the body.
	// Empty uses the embedded default.
	TemplatePath string
}

// EmailNotifier renders the alert template and delivers the result over SMTP.
// A fresh connection is opened per send; the daemon alerts rarely enough that
// keeping a session alive would only give the server a reason to drop it.
type EmailNotifier struct {
	smtp SMTPSettings
	msg  MessageSettings
	tmpl *template.Template
}

// NewEmailNotifier parses the body template (from the configured path, or
// the embedded default) and returns a ready notifier.
func NewEmailNotifier(smtp SMTPSettings, msg MessageSettings) (*EmailNotifier, error) {
	var (
		tmpl *template.Template
		err  error
	)

	if msg.TemplatePath != "" {
		tmpl, err = template.ParseFiles(msg.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", msg.TemplatePath, err)
		}
	} else {
		tmpl, err = template.New("alert").Parse(defaultTemplate)
		if err != nil {
			return nil, fmt.Errorf("parse embedded template: %w", err)
		}
	}

	return &EmailNotifier{
		smtp: smtp,
		msg:  msg,
		tmpl: tmpl,
	}, nil
}

// alertView is the data handed to the body template.
type alertView struct {
	Channel   int
	Value     int
	Threshold int
	State     string
	Timestamp string
	Hostname  string
	GainCount int
	LossCount int
}

// newAlertView flattens an Alert for template consumption.
func newAlertView(alert Alert) alertView {
	return alertView{
		Channel:   alert.Reading.Channel,
		Value:     alert.Reading.Value,
		Threshold: alert.Threshold,
		State:     string(alert.State),
		Timestamp: alert.Reading.Timestamp.Format(time.RFC1123),
		Hostname:  alert.Hostname,
		GainCount: alert.GainCount,
		LossCount: alert.LossCount,
	}
}

// renderHTML executes the body template for the alert.
func (n *EmailNotifier) renderHTML(alert Alert) (string, error) {
	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, newAlertView(alert)); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}

	return buf.String(), nil
}

// renderPlain produces the text/plain fallback part from the alert fields.
func renderPlain(alert Alert) string {
	v := newAlertView(alert)

	return fmt.Sprintf(
		"Soil moisture alert\n\n"+
			"The probe on channel %d read %d at %s, crossing the dryness threshold of %d.\n\n"+
			"Host: %s\n"+
			"Moisture loss events since start: %d\n"+
			"Moisture gain events since start: %d\n\n"+
			"Time to water the plant.\n",
		v.Channel, v.Value, v.Timestamp, v.Threshold, v.Hostname, v.LossCount, v.GainCount,
	)
}

// Notify renders the alert and submits it to the configured SMTP server.
func (n *EmailNotifier) Notify(ctx context.Context, alert Alert) error {
	htmlBody, err := n.renderHTML(alert)
	if err != nil {
		return err
	}

	raw, err := composeMessage(n.msg.From, n.msg.To, n.msg.Subject, renderPlain(alert), htmlBody)
	if err != nil {
		return fmt.Errorf("compose alert: %w", err)
	}

	if err = sendMail(ctx, n.smtp, n.msg.From, n.msg.To, raw); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	logger.InfoKV(ctx, "Alert delivered",
		"to", n.msg.To, "value", alert.Reading.Value, "threshold", alert.Threshold)

	return nil
}
