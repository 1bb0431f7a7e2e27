package consumerWorker

import (
	"context"

	"github.com/rs/zerolog"

	"eventplanner/internal/mailer"
)

type Consumer interface {
	Consume(handler func([]byte) error) error
}

// Reader drains the mail queue and delivers each message through sender.
type Reader struct {
	queue  Consumer
	sender mailer.Sender
	log    *zerolog.Logger
	ctx    context.Context
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(queue Consumer, sender mailer.Sender, log *zerolog.Logger) *Reader {
	return &Reader{
		queue:  queue,
		sender: sender,
		log:    log,
		ctx:    context.Background(),
		done:   make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.ctx = cctx
	r.cancel = cancel

	r.log.Info().Msg("mail worker started")

	go func() {
		defer close(r.done)

		if err := r.queue.Consume(r.handle); err != nil {
			r.log.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		r.log.Info().Msg("mail worker stopped by context")
	}()
}

func (r *Reader) handle(body []byte) error {
	msg, err := mailer.Decode(body)
	if err != nil {
		// Malformed payloads are acked and dropped.
		r.log.Error().Err(err).Msgf("Failed to decode message: %s", string(body))
		return nil
	}

	if err := r.sender.Send(r.ctx, msg); err != nil {
		r.log.Warn().
			Err(err).
			Str("template", msg.Key).
			Str("to", msg.To).
			Msg("Failed to deliver queued email")
		return err
	}

	r.log.Info().
		Str("template", msg.Key).
		Str("to", msg.To).
		Msg("queued email delivered")
	return nil
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
