// Package queue runs the best-effort blob cleanup pipeline on a Redis Streams
// consumer group. Deleting an asset removes its primary blob synchronously;
// the size-variant keys are enqueued here and removed in the background with
// retries, so a storage hiccup never blocks the user-facing deletion.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"

	"github.com/swairua/kennedynespot/internal/config"
	"github.com/swairua/kennedynespot/internal/logger"
)

type BlobStore interface {
	Remove(ctx context.Context, key string) error
}

type Worker struct {
	rc    redis.UniversalClient
	cfg   config.CleanupWorkerConfig
	store BlobStore
	log   *logger.Logger
}

// Init starts the cleanup worker in the background and returns the producer
// the asset store enqueues through.
func Init(ctx context.Context, rc redis.UniversalClient, cfg config.CleanupWorkerConfig, store BlobStore, log *logger.Logger) *Producer {
	producer := NewProducer(rc, cfg.Stream, cfg.MaxLen)
	worker := NewWorker(rc, cfg, store, log)

	go func() {
		if err := worker.Start(ctx); err != nil {
			log.Warn("cleanup worker stopped", "err", err)
		}
	}()

	return producer
}

func NewWorker(rc redis.UniversalClient, cfg config.CleanupWorkerConfig, store BlobStore, log *logger.Logger) *Worker {
	return &Worker{
		rc:    rc,
		cfg:   cfg,
		store: store,
		log:   log,
	}
}

func (w *Worker) EnsureGroup(ctx context.Context) error {
	// Without MkStream, Redis would error out if we create a group before any
	// messages exist in the stream.
	err := w.rc.XGroupCreateMkStream(ctx, w.cfg.Stream, w.cfg.Group, "0").Err()
	// Redis returns BUSYGROUP if the group already exists therefore we check for other errors
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (w *Worker) Start(ctx context.Context) error {
	if err := w.EnsureGroup(ctx); err != nil {
		return fmt.Errorf("failed to ensure Redis group: %w", err)
	}

	w.log.Info("cleanup worker starting",
		"group", w.cfg.Group, "stream", w.cfg.Stream, "workers", w.cfg.Workers)

	// Adopt orphaned pending messages
	w.autoClaim(ctx)

	errCh := make(chan error, w.cfg.Workers)
	for i := 0; i < w.cfg.Workers; i++ {
		id := i
		go func() {
			err := w.loop(ctx)
			if err != nil {
				w.log.Warn("cleanup worker loop stopped with error", "worker", id, "err", err)
			}
			errCh <- err
		}()
	}

	select {
	case <-ctx.Done():
		w.log.Info("cleanup worker context canceled, stopping")
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("worker loop exited with error: %w", err)
		}
		return nil
	}
}

// autoClaim scans the consumer group for messages that were delivered to
// other consumers but never acknowledged (a worker crashed or was killed
// before XACK). XAUTOCLAIM takes ownership of those idle messages so the
// variant blobs still get removed eventually.
func (w *Worker) autoClaim(ctx context.Context) {
	next := "0-0"

	// A message must be idle for at least 30 seconds (or 6x the block
	// timeout) before we steal it, so slow but live workers keep their jobs.
	minIdle := 30 * time.Second
	if w.cfg.BlockTimeout > 0 {
		t := w.cfg.BlockTimeout * 6
		if t > minIdle {
			minIdle = t
		}
	}

	for {
		msgs, start, err := w.rc.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   w.cfg.Stream,
			Group:    w.cfg.Group,
			Consumer: w.cfg.Consumer,
			MinIdle:  minIdle,
			Start:    next,
			Count:    100,
		}).Result()
		if err != nil || len(msgs) == 0 {
			return
		}
		next = start
	}
}

func (w *Worker) loop(ctx context.Context) error {
	for {
		// XREADGROUP marks delivered messages as pending for this consumer;
		// they stay on the group's PEL until the deferred XACK in handle().
		// A crash before XACK leaves them for autoClaim on the next start.
		streams, err := w.rc.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    w.cfg.Group,
			Consumer: w.cfg.Consumer,
			Streams:  []string{w.cfg.Stream, ">"},
			Count:    1,
			Block:    w.cfg.BlockTimeout,
		}).Result()
		if err != nil && err != redis.Nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		for _, s := range streams {
			for _, m := range s.Messages {
				_ = w.handle(ctx, m)
			}
		}
	}
}

func (w *Worker) handle(ctx context.Context, m redis.XMessage) error {
	defer w.rc.XAck(ctx, w.cfg.Stream, w.cfg.Group, m.ID)

	raw, ok := m.Values["payload"].(string)
	if !ok {
		w.log.Warn("cleanup job without payload", "id", m.ID)
		return nil
	}
	var job CleanupJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		w.log.Warn("cleanup job payload unreadable", "id", m.ID, "err", err)
		return nil
	}
	attempt := toInt(m.Values["attempt"])

	if err := w.process(ctx, job); err != nil {
		if attempt+1 >= w.cfg.MaxAttempts {
			// Best-effort contract: give up after max attempts, report, move on.
			sentry.CaptureException(fmt.Errorf("cleanup gave up for asset %s: %w", job.AssetID, err))
			w.log.Error("cleanup gave up", "asset", job.AssetID, "attempt", attempt+1, "err", err)
			return nil
		}
		// simple exponential backoff requeue
		backoff := w.cfg.BackoffBase << attempt
		time.AfterFunc(backoff, func() {
			_ = w.rc.XAdd(context.Background(), &redis.XAddArgs{
				Stream: w.cfg.Stream,
				MaxLen: w.cfg.MaxLen,
				Values: map[string]any{
					"payload": raw,
					"attempt": attempt + 1,
				},
			}).Err()
		})
		return err
	}
	return nil
}

// process removes every variant key; keys already gone are not errors.
func (w *Worker) process(ctx context.Context, job CleanupJob) error {
	var lastErr error
	for _, key := range job.Keys {
		if err := w.store.Remove(ctx, key); err != nil {
			w.log.Warn("variant removal failed", "key", key, "err", err)
			lastErr = err
		}
	}
	return lastErr
}

func toInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case string:
		var x int
		fmt.Sscanf(t, "%d", &x)
		return x
	default:
		return 0
	}
}
