package audit

import (
	"context"

	"github.com/sirupsen/logrus"
)

type Event struct {
	Actor     string
	Action    string
	Entity    string
	EntityID  *uint
	RequestID string
	Metadata  any
}

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// Dispatcher writes events from a single background worker. Dispatch
// never blocks a request; a full queue drops the event.
type Dispatcher struct {
	sink  Sink
	log   *logrus.Logger
	queue chan Event
	done  chan struct{}
}

func NewDispatcher(sink Sink, log *logrus.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Write(context.Background(), ev); err != nil {
			d.log.WithField("action", ev.Action).Errorf("audit error: %v", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close drains pending events. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
