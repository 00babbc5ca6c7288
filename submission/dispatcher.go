package submission

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mbolis/monday-forms/log"
	"github.com/mbolis/monday-forms/model"
)

var ErrClosed = errors.New("dispatcher closed")

// ItemCreator is the external board client.
type ItemCreator interface {
	CreateItemWithValues(ctx context.Context, boardID, itemName string, columns map[string]string) (string, error)
}

// ConfigSource returns the live configuration document.
type ConfigSource interface {
	Get(ctx context.Context) model.Document
}

type job struct {
	form    model.FormInstance
	answers model.Answers
}

// Dispatcher pushes submissions to the destination board from a single
// background goroutine, in the order they were dispatched.
type Dispatcher struct {
	configs ConfigSource
	creator ItemCreator
	timeout time.Duration

	mu      sync.Mutex
	queue   []job
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
}

func NewDispatcher(configs ConfigSource, creator ItemCreator, timeout time.Duration) *Dispatcher {
	d := &Dispatcher{
		configs: configs,
		creator: creator,
		timeout: timeout,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch queues the submission and returns immediately.
func (d *Dispatcher) Dispatch(form model.FormInstance, answers model.Answers) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.queue = append(d.queue, job{form, answers})
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close stops accepting submissions and waits for the queued ones.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.stopped
		return
	}
	d.closed = true
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	<-d.stopped
}

func (d *Dispatcher) run() {
	defer close(d.stopped)
	for range d.wake {
		for {
			d.mu.Lock()
			if len(d.queue) == 0 {
				closed := d.closed
				d.mu.Unlock()
				if closed {
					return
				}
				break
			}
			next := d.queue[0]
			d.queue = d.queue[1:]
			d.mu.Unlock()

			ctx, cancel := d.context()
			_ = d.Process(ctx, next.form, next.answers)
			cancel()
		}
	}
}

func (d *Dispatcher) context() (context.Context, context.CancelFunc) {
	if d.timeout > 0 {
		return context.WithTimeout(context.Background(), d.timeout)
	}
	return context.WithCancel(context.Background())
}

// Process maps and pushes one submission synchronously. Every outcome is
// logged; the error is returned for callers that want it.
func (d *Dispatcher) Process(ctx context.Context, form model.FormInstance, answers model.Answers) error {
	entry := log.Form(form.ID, form.Type).WithField("item_id", form.WebhookData.ItemID())

	payload, err := Map(form, answers, d.configs.Get(ctx))
	switch {
	case errors.Is(err, ErrNoDestination):
		entry.Warn("submission.map: no board_b configured, nothing pushed")
		return err
	case err != nil:
		entry.Errorf("submission.map: %s", err)
		return err
	}

	entry = entry.WithField("board_id", payload.BoardID)
	entry.Debugf("submission.push: %d column values: %v", len(payload.Columns), payload.Columns)

	itemID, err := d.creator.CreateItemWithValues(ctx, payload.BoardID, payload.ItemName, payload.Columns)
	if err != nil {
		entry.Errorf("submission.push: %s", err)
		return errors.Wrap(err, "submission.push")
	}

	entry.WithField("new_item_id", itemID).Infof("submission.push: created item %q with %d column values", payload.ItemName, len(payload.Columns))
	return nil
}
