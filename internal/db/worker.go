package db

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

var ErrWorkerClosed = errors.New("db worker closed")

type TxFn func(ctx context.Context, tx *sql.Tx) error

type job struct {
	ctx context.Context
	fn  TxFn
	ch  chan error
}

// Worker funnels every write through one goroutine so SQLite only ever
// sees a single writer. Each job runs in its own transaction.
type Worker struct {
	db        *sql.DB
	jobs      chan job
	closing   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewWorker(db *sql.DB) *Worker {
	w := &Worker{
		db:      db,
		jobs:    make(chan job, 256),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w
}

// Close stops accepting jobs, finishes the queued ones and waits for the
// loop to exit. It is safe to call more than once.
func (w *Worker) Close() {
	w.closeOnce.Do(func() { close(w.closing) })
	<-w.done
}

func (w *Worker) Do(ctx context.Context, fn TxFn) error {
	ch := make(chan error, 1)
	j := job{ctx: ctx, fn: fn, ch: ch}

	select {
	case <-w.closing:
		return ErrWorkerClosed
	default:
	}

	select {
	case w.jobs <- j:
	case <-w.closing:
		return ErrWorkerClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// The loop still completes a transaction whose caller gave up; the
	// result lands in the buffered ch and is discarded.
	select {
	case err := <-ch:
		return err
	case <-w.done:
		select {
		case err := <-ch:
			return err
		default:
			return ErrWorkerClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer close(w.done)

	for {
		select {
		case j := <-w.jobs:
			w.run(j)
		case <-w.closing:
			for {
				select {
				case j := <-w.jobs:
					w.run(j)
				default:
					return
				}
			}
		}
	}
}

func (w *Worker) run(j job) {
	if err := j.ctx.Err(); err != nil {
		j.ch <- err
		return
	}

	tx, err := w.db.BeginTx(j.ctx, nil)
	if err != nil {
		j.ch <- err
		return
	}

	if err := j.fn(j.ctx, tx); err != nil {
		_ = tx.Rollback()
		j.ch <- err
		return
	}

	j.ch <- tx.Commit()
}
