package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"parkdash/internal/domain"
	"parkdash/internal/metrics"
	"parkdash/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MirrorTask asks the worker to push the current snapshot to the sheet.
// Tasks are collapsible: a full rewrite makes earlier ones redundant.
type MirrorTask struct {
	Reason     string    `json:"reason"`
	RetryCount int       `json:"retry_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// MirrorWorker consumes mirror tasks and rewrites the spreadsheet from
// the dashboard snapshot. Redis backs the queue when available so tasks
// survive a restart; otherwise the in-memory channel is used.
type MirrorWorker struct {
	source        domain.RecordSource
	sheets        domain.SheetsWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan MirrorTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	logger        *zerolog.Logger
}

// NewMirrorWorker builds a worker with sane defaults.
func NewMirrorWorker(source domain.RecordSource, sheets domain.SheetsWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *MirrorWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &MirrorWorker{
		source:        source,
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan MirrorTask, models.WorkerQueueSize),
		redisQueueKey: "mirror:queue",
		deadLetterKey: "mirror:deadletter",
		pollInterval:  2 * time.Second,
		logger:        logger,
	}
}

// Enqueue schedules a mirror refresh via redis or the in-memory queue.
func (w *MirrorWorker) Enqueue(ctx context.Context, reason string) error {
	return w.enqueueTask(ctx, MirrorTask{
		Reason:    reason,
		CreatedAt: time.Now(),
	})
}

func (w *MirrorWorker) enqueueTask(ctx context.Context, task MirrorTask) error {
	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("mirror worker: redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		w.logger.Warn().Str("reason", task.Reason).Msg("mirror worker: queue full, task dropped")
		return errors.New("mirror queue is full")
	}
}

// Start launches the main loop; stops when ctx is done.
func (w *MirrorWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("mirror worker: started")
	defer w.logger.Info().Msg("mirror worker: stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, t)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case t := <-w.queue:
			w.processTask(ctx, t)
		case <-time.After(w.pollInterval):
		}
	}
}

func (w *MirrorWorker) tryLocalQueue() (MirrorTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return MirrorTask{}, false
	}
}

func (w *MirrorWorker) tryRedis(ctx context.Context) (MirrorTask, bool) {
	if w.redis == nil {
		return MirrorTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return MirrorTask{}, false
		}
		w.logger.Error().Err(err).Msg("mirror worker: redis BRPOP error")
		return MirrorTask{}, false
	}
	if len(res) != 2 {
		return MirrorTask{}, false
	}
	var task MirrorTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("mirror worker: decode redis task")
		return MirrorTask{}, false
	}
	return task, true
}

func (w *MirrorWorker) processTask(ctx context.Context, task MirrorTask) {
	records := w.source.Records()
	if err := w.sheets.ReplaceBookings(ctx, records); err != nil {
		metrics.IncSheetsSync("error")
		w.retryOrFail(ctx, task, err)
		return
	}
	metrics.IncSheetsSync("ok")
	w.logger.Debug().Str("reason", task.Reason).Int("records", len(records)).Msg("mirror worker: sheet refreshed")
}

func (w *MirrorWorker) retryOrFail(ctx context.Context, task MirrorTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		w.logger.Error().Err(cause).Str("reason", task.Reason).Msg("mirror worker: retries exhausted")
		w.pushDeadLetter(ctx, task)
		return
	}

	task.RetryCount = attempt
	delay := w.retryPolicy.NextDelay(attempt)
	w.logger.Warn().Err(cause).Int("attempt", attempt).Dur("delay", delay).Msg("mirror worker: sync failed, will retry")

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			if err := w.enqueueTask(ctx, task); err != nil {
				w.logger.Error().Err(err).Msg("mirror worker: re-enqueue failed")
			}
		}
	}()
}

func (w *MirrorWorker) pushRedis(ctx context.Context, task MirrorTask) error {
	if w.redis == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *MirrorWorker) pushDeadLetter(ctx context.Context, task MirrorTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Msg("mirror worker: encode deadletter")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Msg("mirror worker: deadletter push failed")
	}
}
