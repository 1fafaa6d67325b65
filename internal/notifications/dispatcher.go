// Package notifications turns raw order changes into role-targeted alerts
// with audible cues. The dispatcher consumes the same change feed the sync
// layer does; each connected viewer registers a sink and receives only the
// alerts addressed to their role and city assignments.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/domain/model/user"
	"pedidos/internal/core/ports"
)

// Severity classifies the visual tone of an alert.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Alert is one human-readable notification for one viewer. Cue is nil
// when the alert carries no sound.
type Alert struct {
	Message  string
	Severity Severity
	Cue      *SoundCue
}

// Dispatcher fans order changes out to registered viewer sinks. It keeps
// the last known driver per order so a status update that merely repeats
// an existing assignment is not mistaken for a new one.
type Dispatcher struct {
	feed   ports.ChangeFeedSubscriber
	logger *slog.Logger

	mu           sync.Mutex
	sinks        map[*Sink]struct{}
	lastAssigned map[string]string
}

// NewDispatcher creates a Dispatcher over the given change feed.
func NewDispatcher(feed ports.ChangeFeedSubscriber, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		feed:         feed,
		logger:       logger.With("component", "notifications"),
		sinks:        make(map[*Sink]struct{}),
		lastAssigned: make(map[string]string),
	}
}

// Prime seeds the assignment memory from already-loaded orders so that the
// first change seen after startup is judged against current state, not
// against an empty map.
func (d *Dispatcher) Prime(assignments map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for orderID, deliveryID := range assignments {
		d.lastAssigned[orderID] = deliveryID
	}
}

// Register attaches a sink for the given viewer. The returned cancel
// function detaches it and closes its channels.
func (d *Dispatcher) Register(viewer *user.User) (*Sink, func()) {
	sink := newSink(viewer)

	d.mu.Lock()
	d.sinks[sink] = struct{}{}
	d.mu.Unlock()

	cancel := func() {
		d.mu.Lock()
		_, registered := d.sinks[sink]
		delete(d.sinks, sink)
		d.mu.Unlock()
		if registered {
			sink.close()
		}
	}
	return sink, cancel
}

// Run consumes the change feed until ctx is cancelled or the feed closes.
func (d *Dispatcher) Run(ctx context.Context) error {
	changes, err := d.feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			d.Handle(change)
		}
	}
}

// Handle classifies one change and delivers the resulting alerts. Exposed
// so callers that already pump the feed elsewhere can drive the dispatcher
// directly.
func (d *Dispatcher) Handle(change ports.OrderChange) {
	newlyAssigned := d.trackAssignment(change)

	d.mu.Lock()
	sinks := make([]*Sink, 0, len(d.sinks))
	for sink := range d.sinks {
		sinks = append(sinks, sink)
	}
	d.mu.Unlock()

	for _, sink := range sinks {
		if alert := alertFor(sink.viewer, change, newlyAssigned); alert != nil {
			sink.deliver(*alert)
		}
	}
}

// trackAssignment updates the per-order driver memory and reports whether
// this change assigns a driver the order did not have before.
func (d *Dispatcher) trackAssignment(change ports.OrderChange) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	orderID := change.OrderID.String()
	previous := d.lastAssigned[orderID]

	current := ""
	if change.DeliveryID != nil {
		current = change.DeliveryID.String()
	}
	if current == "" {
		delete(d.lastAssigned, orderID)
		return false
	}
	d.lastAssigned[orderID] = current
	return current != previous
}

// alertFor applies the routing rules for one viewer. A nil result means
// the change is not addressed to them.
func alertFor(viewer *user.User, change ports.OrderChange, newlyAssigned bool) *Alert {
	if change.Kind == ports.OrderInserted {
		switch viewer.Role() {
		case user.Admin:
		case user.Warehouse, user.Production:
			if !viewer.IsAssignedToCity(change.CityID) {
				return nil
			}
		default:
			return nil
		}
		cue := NewOrderCue()
		return &Alert{
			Message:  fmt.Sprintf("Nuevo pedido de %s", change.ClientName),
			Severity: SeverityInfo,
			Cue:      &cue,
		}
	}

	if newlyAssigned && viewer.Role() == user.Delivery &&
		change.DeliveryID != nil && change.DeliveryID.IsEqual(viewer.ID()) {
		cue := AssignedCue()
		return &Alert{
			Message:  fmt.Sprintf("Se te asignó el pedido %s", change.OrderID),
			Severity: SeverityInfo,
			Cue:      &cue,
		}
	}

	if change.PrevStatus != change.NewStatus && change.SellerID.IsEqual(viewer.ID()) {
		return &Alert{
			Message:  fmt.Sprintf("Pedido %s: %s", change.OrderID, change.NewStatus),
			Severity: statusSeverity(change.NewStatus),
		}
	}

	return nil
}

func statusSeverity(status order.Status) Severity {
	switch status {
	case order.Delivered:
		return SeveritySuccess
	case order.Rejected:
		return SeverityError
	default:
		return SeverityInfo
	}
}
