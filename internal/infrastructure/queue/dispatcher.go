package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/safevault/safevault-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans audit events out to a fixed set of workers using consistent
// hashing on the subject, so events concerning the same account are recorded
// in the order they were enqueued. Enqueue never blocks the request path on
// persistence.
type Dispatcher struct {
	workers []chan ports.AuditEvent
	sink    ports.AuditSink
	depth   *prometheus.GaugeVec
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. depth, when non-nil, is kept
// updated with the pending event count per worker; the composition root
// supplies it so this package stays independent of where metrics are
// registered.
func NewDispatcher(numWorkers int, sink ports.AuditSink, depth *prometheus.GaugeVec, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuditEvent, numWorkers),
		sink:    sink,
		depth:   depth,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its subject. When the
// worker's buffer is full the event is dropped with a warning; audit loss is
// preferable to stalling a login.
func (d *Dispatcher) Enqueue(event ports.AuditEvent) {
	idx := d.shardIndex(event.Subject)
	select {
	case d.workers[idx] <- event:
		d.setDepth(idx, len(d.workers[idx]))
	default:
		d.log.Warn().
			Str("action", event.Action).
			Str("subject", event.Subject).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a subject deterministically to a worker index.
func (d *Dispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) setDepth(workerID, pending int) {
	if d.depth == nil {
		return
	}
	d.depth.WithLabelValues(strconv.Itoa(workerID)).Set(float64(pending))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.setDepth(id, len(ch))
			if err := d.sink.Record(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("action", event.Action).
					Str("subject", event.Subject).
					Int("worker_id", id).
					Msg("audit event recording failed")
			}
		}
	}
}
