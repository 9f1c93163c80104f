package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/meetgate/meetgate/internal/api/metrics"
	"github.com/meetgate/meetgate/internal/core/service"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// NoticeSender delivers a single decision notice. The default implementation
// logs the notice; an SMTP-backed sender is a drop-in replacement.
type NoticeSender interface {
	Send(ctx context.Context, notice service.DecisionNotice) error
}

// Dispatcher fans decision notices out to a fixed set of workers using
// consistent hashing on the applicant email, so notices for the same address
// are delivered in order. It implements service.DecisionNotifier.
type Dispatcher struct {
	workers []chan service.DecisionNotice
	sender  NoticeSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender NoticeSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan service.DecisionNotice, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan service.DecisionNotice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify enqueues a notice for the worker responsible for its email address.
// Never blocks the caller: when the worker's queue is full the notice is
// dropped and counted as a delivery error.
func (d *Dispatcher) Notify(notice service.DecisionNotice) {
	i := d.shardIndex(notice.Email)
	select {
	case d.workers[i] <- notice:
		metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
	default:
		metrics.NotificationsErrorsTotal.WithLabelValues(string(notice.Status)).Inc()
		d.log.Warn().
			Str("email", notice.Email).
			Int("worker_id", i).
			Msg("notice dropped, worker queue full")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan service.DecisionNotice) {
	for {
		select {
		case <-ctx.Done():
			return
		case notice, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.sender.Send(ctx, notice); err != nil {
				metrics.NotificationsErrorsTotal.WithLabelValues(string(notice.Status)).Inc()
				d.log.Error().Err(err).
					Str("email", notice.Email).
					Int("worker_id", id).
					Msg("notice delivery failed")
				continue
			}
			metrics.NotificationsSentTotal.WithLabelValues(string(notice.Status)).Inc()
		}
	}
}

// LogSender is a NoticeSender that writes the notice to the log. The
// temporary password is intentionally not logged.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, notice service.DecisionNotice) error {
	s.log.Info().
		Str("email", notice.Email).
		Str("status", string(notice.Status)).
		Bool("has_temp_password", notice.TempPassword != "").
		Msg("signup decision notice")
	return nil
}
