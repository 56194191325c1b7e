// Package notify decides whether a written status record warrants an email
// and sends it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/pkg/errors"
)

const Subject = "Status Update"

type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// NotificationError is reported for a failed send. It never fails the batch.
type NotificationError struct {
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notifying %s: %v", e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
func (e *NotificationError) Cause() error  { return e.Err }

// Evaluate returns the message to send for a written record, or false when the
// record carries no usable recipient.
func Evaluate(r status.Record) (Message, bool) {
	if r.Notify == "" || !status.LooksLikeAddress(r.Notify) {
		return Message{}, false
	}

	body, _ := json.Marshal(r)
	return Message{
		To:      r.Notify,
		Subject: Subject,
		Body:    string(body),
	}, true
}

// Send delivers m, wrapping any failure as a NotificationError.
func Send(ctx context.Context, s Sender, m Message) error {
	err := s.Send(ctx, m)
	if err != nil {
		return &NotificationError{Recipient: m.To, Err: errors.WithStack(err)}
	}
	return nil
}
