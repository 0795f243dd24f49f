package model

import (
	"context"
	"time"
)

// Message is an outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Receipt describes an accepted delivery.
type Receipt struct {
	ID         string
	Driver     string
	AcceptedAt time.Time
}

// Mailer delivers messages to an external notification system.
type Mailer interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
