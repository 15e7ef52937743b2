package deliverer

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"context"
	"errors"
	"sync"
)

// Dispatcher fans a fired notification out to every registered deliverer.
type Dispatcher struct {
	log        logging.Logger
	deliverers map[string]reminder.Deliverer
	names      []string
	behavior   reminder.DisplayBehavior
	lock       sync.RWMutex
}

func NewDispatcher(log logging.Logger) *Dispatcher {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	return &Dispatcher{
		log:        log,
		deliverers: make(map[string]reminder.Deliverer),
		behavior:   reminder.DefaultDisplayBehavior,
	}
}

// Register adds a deliverer under the given name. Registering the same name
// twice replaces the previous deliverer.
func (d *Dispatcher) Register(name string, deliverer reminder.Deliverer) {
	if deliverer == nil {
		panic(e.NewNilArgumentError("deliverer"))
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	if _, ok := d.deliverers[name]; !ok {
		d.names = append(d.names, name)
	}
	d.deliverers[name] = deliverer
}

// ConfigureDisplayBehavior sets how fired notifications are presented.
// It is expected to be called once at startup.
func (d *Dispatcher) ConfigureDisplayBehavior(behavior reminder.DisplayBehavior) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.behavior = behavior
	d.log.Info(context.Background(), "Display behavior configured.", logging.Entry("behavior", behavior))
}

func (d *Dispatcher) DisplayBehavior() reminder.DisplayBehavior {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.behavior
}

func (d *Dispatcher) Dispatch(ctx context.Context, n reminder.Notification) error {
	d.lock.RLock()
	behavior := d.behavior
	names := append([]string{}, d.names...)
	deliverers := make([]reminder.Deliverer, 0, len(names))
	for _, name := range names {
		deliverers = append(deliverers, d.deliverers[name])
	}
	d.lock.RUnlock()

	if len(deliverers) == 0 {
		d.log.Warning(ctx, "No deliverers registered.", logging.Entry("handle", n.Handle))
		return nil
	}

	var errs []error
	for ix, deliverer := range deliverers {
		if err := deliverer.Deliver(ctx, n, behavior); err != nil {
			logging.Error(
				ctx,
				d.log,
				err,
				logging.Entry("handle", n.Handle),
				logging.Entry("deliverer", names[ix]),
			)
			errs = append(errs, err)
			continue
		}
		d.log.Info(
			ctx,
			"Notification has been delivered.",
			logging.Entry("handle", n.Handle),
			logging.Entry("deliverer", names[ix]),
		)
	}
	return errors.Join(errs...)
}

// Available reports whether at least one deliverer can be reached.
func (d *Dispatcher) Available(ctx context.Context) bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	for _, deliverer := range d.deliverers {
		if deliverer.Available(ctx) {
			return true
		}
	}
	return false
}
