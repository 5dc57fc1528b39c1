package mailer

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/rs/zerolog"

	"sessionhub/internal/notify"
)

type Config struct {
	Host     string
	Port     string
	From     string
	Password string
}

// Enabled reports whether outgoing mail is configured at all. With no
// SMTP host the mailer silently drops messages.
func (c Config) Enabled() bool {
	return c.Host != ""
}

type Mailer struct {
	cfg Config
	log *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

func (m *Mailer) SendAttendanceEmail(event notify.Event, sessionTitle, recipient string, start time.Time) error {
	if !m.cfg.Enabled() {
		m.log.Debug().Str("email", recipient).Msg("SMTP not configured, skipping notification mail")
		return nil
	}

	var subject, body string
	switch event {
	case notify.EventJoined:
		subject = fmt.Sprintf("You joined %q", sessionTitle)
		body = fmt.Sprintf(
			"Hi!\n\nYou are on the attendee list for %q starting %s.\nKeep your attendance code safe: it is the only way to remove yourself later.",
			sessionTitle, start.Format("Mon, 2 Jan 2006 15:04"),
		)
	case notify.EventRemoved:
		subject = fmt.Sprintf("You were removed from %q", sessionTitle)
		body = fmt.Sprintf(
			"Hi!\n\nThe organizer removed you from the attendee list of %q.",
			sessionTitle,
		)
	default:
		return fmt.Errorf("unknown notification event %q", event)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, recipient, subject, body,
	)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", recipient, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Msgf("Notification email sent to %s (event: %s)", recipient, event)
	return nil
}
