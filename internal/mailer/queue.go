package mailer

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher is satisfied by *rabbit.Client.
type Publisher interface {
	Publish(message []byte) error
}

// QueueSender hands messages to the mail queue; delivery happens in the
// mail worker.
type QueueSender struct {
	pub Publisher
}

func NewQueueSender(pub Publisher) *QueueSender {
	return &QueueSender{pub: pub}
}

func (s *QueueSender) Send(_ context.Context, msg Message) error {
	if _, _, err := Render(msg); err != nil {
		return err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail message: %w", err)
	}
	if err := s.pub.Publish(payload); err != nil {
		return fmt.Errorf("publish mail message: %w", err)
	}
	return nil
}

// Decode parses a queued message produced by QueueSender.
func Decode(body []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, fmt.Errorf("unmarshal mail message: %w", err)
	}
	if msg.To == "" {
		return Message{}, fmt.Errorf("mail message without recipient")
	}
	return msg, nil
}
