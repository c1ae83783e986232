package store

import (
	"context"
	"log/slog"
)

// Task is one persistence operation executed against the store by the
// background worker.
type Task func(ctx context.Context, s *SQLiteStore) error

// Worker drains a queue of persistence tasks on a single background
// goroutine, serializing all writes to the store. Task failures are logged
// and never propagate to the enqueuer.
type Worker struct {
	store *SQLiteStore
	tasks chan Task
	done  chan struct{}
	log   *slog.Logger
}

// NewWorker starts a Worker over the given store with a queue of queueSize
// pending tasks.
func NewWorker(s *SQLiteStore, queueSize int, log *slog.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = 64
	}
	w := &Worker{
		store: s,
		tasks: make(chan Task, queueSize),
		done:  make(chan struct{}),
		log:   log.With("component", "db-worker"),
	}
	go w.run()
	w.log.Info("worker started", "queue_size", queueSize)
	return w
}

// Enqueue submits a task for background execution. It blocks when the queue
// is full and must not be called after Stop.
func (w *Worker) Enqueue(t Task) {
	w.tasks <- t
}

// Stop drains the remaining queue, stops the worker, and waits for it to
// exit.
func (w *Worker) Stop() {
	close(w.tasks)
	<-w.done
	w.log.Info("worker stopped")
}

func (w *Worker) run() {
	defer close(w.done)
	ctx := context.Background()

	for task := range w.tasks {
		if err := task(ctx, w.store); err != nil {
			w.log.Error("database task failed", "error", err)
		}
	}
}
