package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Event struct {
	BranchID *uint     `json:"branch_id,omitempty"`
	UserID   *uint     `json:"user_id,omitempty"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID *uint     `json:"entity_id,omitempty"`
	Metadata any       `json:"metadata,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher forwards events to other systems (Kafka in production).
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Dispatcher persists and publishes events off the request path. Requests
// never wait on it and a full queue drops events.
type Dispatcher struct {
	logger    *Logger
	publisher Publisher
	log       *slog.Logger
	queue     chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewDispatcher(logger *Logger, publisher Publisher, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		logger:    logger,
		publisher: publisher,
		log:       log,
		queue:     make(chan Event, 100),
		done:      make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if d.logger != nil {
			if err := d.logger.Log(ctx, ev); err != nil {
				d.log.Error("audit persist failed", "action", ev.Action, "error", err)
			}
		}
		if d.publisher != nil {
			if err := d.publisher.Publish(ctx, ev); err != nil {
				d.log.Warn("audit publish failed", "action", ev.Action, "error", err)
			}
		}

		cancel()
	}
}

// Dispatch is safe on a nil dispatcher, which simply discards.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains the queue. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		close(d.queue)
		<-d.done
	})
}
