package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Mailer notifies the site organizer address about new federated
// responses. It is optional: a zero-value Mailer sends nothing.
type Mailer struct {
	Host     string
	From     string
	Password string
	To       string
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.Host != "" && m.From != "" && m.To != ""
}

// SendResponseNotification tells the organizer a new response of the given
// type was stored for an event. Failures are logged by the caller; the
// response itself is already persisted.
func (m *Mailer) SendResponseNotification(log *zerolog.Logger, eventName, responseType, sourceURL string) error {
	if !m.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("New %s on %q", responseType, eventName)
	body := fmt.Sprintf("A new %s response arrived for %q.\n\nSource: %s\n", responseType, eventName, sourceURL)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.From, m.To, subject, body)

	// Host carries host:port; PlainAuth wants the bare host.
	host := m.Host
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	auth := smtp.PlainAuth("", m.From, m.Password, host)

	if err := smtp.SendMail(m.Host, auth, m.From, []string{m.To}, []byte(msg)); err != nil {
		log.Warn().Msgf("failed to send notification to %s: %v", m.To, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("notification sent to %s (%s on %q)", m.To, responseType, eventName)
	return nil
}
