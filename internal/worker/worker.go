package worker

import (
	"context"
)

// Worker - фоновый обработчик, управляемый WorkerManager
type Worker interface {
	// Start блокируется до остановки воркера или отмены ctx
	Start(ctx context.Context) error

	// Stop идемпотентен
	Stop() error

	Name() string
}
