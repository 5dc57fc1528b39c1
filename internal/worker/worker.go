// Package worker consumes attendance notification messages from
// RabbitMQ and delivers them by e-mail. It never touches domain state.
package worker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"sessionhub/internal/mailer"
	"sessionhub/internal/notify"
	"sessionhub/internal/rabbit"
)

type Reader struct {
	RMQ    *rabbit.Client
	mail   *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, mail *mailer.Mailer) *Reader {
	return &Reader{
		RMQ:  rmq,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("Notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg notify.Message
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal notification message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Int64("session_id", msg.SessionID).
				Str("event", string(msg.Event)).
				Msg("Received notification message")

			if msg.AttendeeEmail == "" {
				// Attendee joined without an e-mail address.
				return nil
			}

			if err := r.mail.SendAttendanceEmail(
				msg.Event,
				msg.SessionTitle,
				msg.AttendeeEmail,
				msg.StartTime,
			); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("email", msg.AttendeeEmail).
					Msg("Failed to send notification e-mail")
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("Notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
