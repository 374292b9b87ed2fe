package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"eventpub/internal/mailer"
	"eventpub/internal/metrics"
	"eventpub/internal/rabbit"
	"eventpub/internal/repo"
	"eventpub/internal/webmention"
)

var storeRetry = retry.Strategy{Attempts: 3, Delay: time.Second, Backoff: 2}

// Reader drains the webmention intake queue and turns mentions into
// stored response records.
type Reader struct {
	rmq    *rabbit.Client
	repo   repo.Repository
	mail   *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repo repo.Repository, mail *mailer.Mailer) *Reader {
	return &Reader{
		rmq:  rmq,
		repo: repo,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("webmention reader started")

	go func() {
		defer close(r.done)

		if err := r.rmq.Consume(r.handle(cctx)); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("webmention reader stopped by context")
	}()
}

func (r *Reader) handle(ctx context.Context) func([]byte) error {
	return func(body []byte) error {
		var m webmention.Mention
		if err := json.Unmarshal(body, &m); err != nil {
			zlog.Logger.Error().Err(err).Msgf("failed to unmarshal mention: %s", string(body))
			// poison message, drop it
			return nil
		}

		zlog.Logger.Info().
			Str("event_key", m.EventKey).
			Str("source", m.Source).
			Msg("received mention from queue")

		ev, err := r.repo.GetEventByKey(ctx, m.EventKey, false)
		if err != nil {
			if errors.Is(err, repo.ErrEventNotFound) {
				zlog.Logger.Warn().Str("event_key", m.EventKey).Msg("mention targets unknown or deleted event, dropping")
				return nil
			}
			return err
		}

		resp, err := webmention.ToResponse(&m, ev.ID)
		if err != nil {
			if errors.Is(err, webmention.ErrUnknownKind) {
				metrics.ResponseAnomalies.WithLabelValues("webmention").Inc()
				zlog.Logger.Warn().
					Str("source", m.Source).
					Str("kind", m.Payload.Kind).
					Msg("mention payload outside taxonomy, dropping")
				return nil
			}
			return err
		}

		if err := retry.Do(func() error {
			return r.repo.CreateResponse(ctx, resp)
		}, storeRetry); err != nil {
			zlog.Logger.Error().Err(err).Str("source", m.Source).Msg("failed to store response")
			return err
		}
		metrics.WebmentionsStored.Inc()

		if err := r.mail.SendResponseNotification(&zlog.Logger, ev.Name, resp.Type, m.Source); err != nil {
			zlog.Logger.Warn().Err(err).Msg("failed to send organizer notification")
		}

		return nil
	}
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
