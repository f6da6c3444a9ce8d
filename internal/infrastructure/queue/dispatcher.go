package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/infrastructure/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
	jobTimeout     = 30 * time.Second
)

// Prefetcher is the work each job performs.
type Prefetcher interface {
	Prefetch(ctx context.Context, content string) error
}

// Dispatcher routes suggestion prefetch jobs to a fixed set of workers using
// consistent hashing on the feedback id.
type Dispatcher struct {
	workers []chan ports.SuggestionJob
	service Prefetcher
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service Prefetcher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SuggestionJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SuggestionJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands job to the worker responsible for its feedback id without
// blocking. It reports false when that worker's queue is full and the job
// was dropped.
func (d *Dispatcher) Enqueue(job ports.SuggestionJob) bool {
	idx := d.shardIndex(job.FeedbackID)
	select {
	case d.workers[idx] <- job:
		metrics.PrefetchQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.PrefetchDroppedTotal.Inc()
		d.log.Warn().Str("feedback_id", job.FeedbackID).Int("worker_id", idx).Msg("prefetch queue full, job dropped")
		return false
	}
}

// shardIndex maps a feedback id deterministically to a worker index.
func (d *Dispatcher) shardIndex(feedbackID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(feedbackID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SuggestionJob) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.PrefetchQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			err := d.service.Prefetch(jobCtx, job.Content)
			cancel()
			if err != nil {
				d.log.Warn().Err(err).
					Str("feedback_id", job.FeedbackID).
					Int("worker_id", id).
					Msg("suggestion prefetch failed")
			}
		}
	}
}
