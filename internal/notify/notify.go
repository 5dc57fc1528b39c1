// Package notify defines the attendance notification messages that
// flow from the HTTP handlers to the mail worker. Delivery is
// fire-and-forget: a failed publish only logs, it never fails the
// request that triggered it.
package notify

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"sessionhub/internal/rabbit"
)

type Event string

const (
	EventJoined  Event = "joined"
	EventRemoved Event = "removed"
)

type Message struct {
	Event         Event     `json:"event"`
	SessionID     int64     `json:"session_id"`
	SessionTitle  string    `json:"session_title"`
	StartTime     time.Time `json:"start_time"`
	AttendeeEmail string    `json:"attendee_email"`
}

type Notifier interface {
	Notify(msg Message) error
}

// Queue publishes notification messages to the AMQP exchange the mail
// worker consumes from.
type Queue struct {
	client *rabbit.Client
	log    *zerolog.Logger
}

func NewQueue(client *rabbit.Client, log *zerolog.Logger) *Queue {
	return &Queue{client: client, log: log}
}

func (q *Queue) Notify(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		q.log.Error().Err(err).Msg("failed to marshal notification message")
		return err
	}
	return q.client.Publish(payload)
}
