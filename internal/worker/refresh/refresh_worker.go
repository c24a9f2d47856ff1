package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/boundary-resolver/internal/domain"
	"github.com/boundary-resolver/internal/domain/repository"
	apperrors "github.com/boundary-resolver/internal/pkg/errors"
	"github.com/boundary-resolver/internal/usecase/dto"
	"github.com/boundary-resolver/internal/worker"
)

const (
	defaultBatchSize = 10
	defaultBlock     = 5 * time.Second
	retryDelay       = time.Second
)

// DatasetService - перезагрузка и скачивание слоёв (реализуется usecase.DatasetUseCase)
type DatasetService interface {
	Reload(ctx context.Context, which string) (*dto.ReloadResponse, error)
	Refresh(ctx context.Context, which string) (*dto.RefreshResponse, error)
}

// Config - параметры чтения стрима
type Config struct {
	ConsumerGroup string
	BatchSize     int
	Block         time.Duration
	MaxRetries    int
}

// Worker обрабатывает события stream:boundary:refresh и публикует
// результат в stream:boundary:reloaded
type Worker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	datasets   DatasetService
	batchSize  int64
	block      time.Duration
	maxRetries int
}

// NewWorker создает новый Worker
func NewWorker(
	streamRepo repository.StreamRepository,
	datasets DatasetService,
	cfg Config,
	logger *zap.Logger,
) *Worker {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	block := cfg.Block
	if block <= 0 {
		block = defaultBlock
	}
	return &Worker{
		BaseWorker: worker.NewBaseWorker("boundary-refresh", cfg.ConsumerGroup, logger),
		streamRepo: streamRepo,
		datasets:   datasets,
		batchSize:  int64(batch),
		block:      block,
		maxRetries: cfg.MaxRetries,
	}
}

// Start запускает цикл чтения до остановки воркера или отмены контекста
func (w *Worker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting refresh worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int64("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamBoundaryRefresh, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		if _, err := w.processBatch(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("Failed to process batch", zap.Error(err))
			w.Sleep(ctx, retryDelay)
		}
	}
}

// processBatch читает пачку событий, обрабатывает их по очереди и
// подтверждает. Возвращает число прочитанных сообщений.
func (w *Worker) processBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(ctx, domain.StreamBoundaryRefresh,
		w.ConsumerGroup(), w.ConsumerName(), w.batchSize, w.block)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)

		event, err := parseMessage(msg)
		if err != nil {
			w.Logger().Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID), zap.Error(err))
			continue
		}

		done := w.handle(ctx, event)
		if err := w.streamRepo.PublishToStream(ctx, domain.StreamBoundaryReloaded, done); err != nil {
			w.Logger().Error("Failed to publish reloaded event",
				zap.String("event_id", event.EventID.String()), zap.Error(err))
		}
	}

	// Неподтверждённые сообщения переобработаются после рестарта
	if err := w.streamRepo.AckMessages(ctx, domain.StreamBoundaryRefresh, w.ConsumerGroup(), ids); err != nil {
		w.Logger().Error("Failed to ack messages", zap.Error(err))
	}
	return len(messages), nil
}

// handle выполняет одно событие с повторами; ошибка попадает в Error результата
func (w *Worker) handle(ctx context.Context, event *domain.BoundaryRefreshEvent) *domain.BoundaryReloadedEvent {
	logger := w.Logger().With(
		zap.String("event_id", event.EventID.String()),
		zap.String("which", event.Target()),
		zap.Bool("fetch", event.Fetch))

	var (
		done *domain.BoundaryReloadedEvent
		err  error
	)
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 && !w.Sleep(ctx, retryDelay) {
			break
		}
		done, err = w.run(ctx, event)
		if err == nil || !retryable(err) {
			break
		}
		logger.Warn("Refresh attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}

	if err != nil {
		logger.Error("Refresh failed", zap.Error(err))
		done = &domain.BoundaryReloadedEvent{EventID: event.EventID, Error: err.Error()}
	} else {
		logger.Info("Layers reloaded", zap.Uint64("generation", done.Generation))
	}
	done.ReloadedAt = time.Now().UTC()
	return done
}

func (w *Worker) run(ctx context.Context, event *domain.BoundaryRefreshEvent) (*domain.BoundaryReloadedEvent, error) {
	if event.Fetch {
		resp, err := w.datasets.Refresh(ctx, event.Target())
		if err != nil {
			return nil, err
		}
		return &domain.BoundaryReloadedEvent{
			EventID:    event.EventID,
			Generation: resp.Generation,
			Layers:     resp.Layers,
			Fetched:    resp.Fetched,
		}, nil
	}

	resp, err := w.datasets.Reload(ctx, event.Target())
	if err != nil {
		return nil, err
	}
	return &domain.BoundaryReloadedEvent{
		EventID:    event.EventID,
		Generation: resp.Generation,
		Layers:     resp.Layers,
	}, nil
}

// retryable - ошибки запроса (неизвестный слой, нет URL) не повторяются
func retryable(err error) bool {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode >= 500
	}
	return true
}

func parseMessage(msg domain.StreamMessage) (*domain.BoundaryRefreshEvent, error) {
	var event domain.BoundaryRefreshEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}
