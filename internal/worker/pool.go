// Package worker runs fire-and-forget jobs on a goroutine pool fed by an
// in-process queue. The invoice bridge runs asynchronously: a sale must
// never fail because invoice generation did.
package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

const TypeInvoice = "invoice"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into a buffered channel consumed by the
// worker pool.
type Dispatcher struct {
	jobs chan Job
}

func NewDispatcher(buffer int) *Dispatcher {
	if buffer < 1 {
		buffer = 64
	}
	return &Dispatcher{jobs: make(chan Job, buffer)}
}

// EnqueueInvoice pushes an invoice-generation job. Best-effort: when the
// queue is full the job is dropped and logged, never blocking the caller.
func (d *Dispatcher) EnqueueInvoice(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, TypeInvoice, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	select {
	case d.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		log.Warn().Str("type", jobType).Msg("job queue full, dropping job")
		return nil
	}
}

// Handler processes one decoded job payload.
type Handler interface {
	Handle(ctx context.Context, payload json.RawMessage) error
}

// Handlers maps job types to their processors, wired at the composition root.
type Handlers struct {
	Invoice Handler
}

// StartPool launches numWorkers goroutines consuming the dispatcher's queue.
// Workers exit when ctx is cancelled.
func StartPool(ctx context.Context, d *Dispatcher, handlers *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, d, handlers, i)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
}

func runWorker(ctx context.Context, d *Dispatcher, handlers *Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		case job := <-d.jobs:
			var h Handler
			switch job.Type {
			case TypeInvoice:
				h = handlers.Invoice
			}
			if h == nil {
				log.Error().Str("type", job.Type).Msg("no handler for job type")
				continue
			}
			if err := h.Handle(ctx, job.Payload); err != nil {
				log.Error().Err(err).Str("type", job.Type).Msg("job failed")
			}
		}
	}
}
