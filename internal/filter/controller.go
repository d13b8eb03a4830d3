package filter

import (
	"sync"

	appLog "unical/internal/log"
	"unical/internal/model"
)

// Refresher receives the recomputed view after every state change.
// Implemented by the render adapter.
type Refresher interface {
	Refresh(events []model.Event) error
}

// Controller owns the filter state and is the only component allowed to
// change which subset of events is displayed. The loaded event set
// itself is immutable; filtering only selects a visible subset.
//
// Each mutator recomputes the view and synchronously pushes it to the
// Refresher. A mutex keeps mutations atomic with respect to each other,
// so filter state is never observed mid-update.
type Controller struct {
	mu     sync.Mutex
	events []model.Event
	state  model.FilterState
	sink   Refresher
}

// NewController creates a Controller over the loaded event set with
// default state (blank query, all events). sink may be nil, in which
// case mutators only update state.
func NewController(events []model.Event, sink Refresher) *Controller {
	return &Controller{
		events: events,
		sink:   sink,
	}
}

// AllEvents returns the full loaded set regardless of filter state.
// The returned slice is shared and must not be mutated.
func (c *Controller) AllEvents() []model.Event {
	return c.events
}

// State returns a copy of the current filter state.
func (c *Controller) State() model.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentView recomputes the filtered list from scratch, preserving the
// original load order. No result caching: the event set is small and a
// fresh pass is always correct.
func (c *Controller) CurrentView() []model.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() []model.Event {
	out := make([]model.Event, 0, len(c.events))
	for _, ev := range c.events {
		if Matches(ev, c.state.Query, c.state.OnlyAllDay) {
			out = append(out, ev)
		}
	}
	return out
}

// SetQuery updates the query text and pushes the recomputed view.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	c.state.Query = query
	view := c.viewLocked()
	c.mu.Unlock()
	c.push(view)
}

// SetOnlyAllDay updates the all-day-only flag and pushes the recomputed view.
func (c *Controller) SetOnlyAllDay(flag bool) {
	c.mu.Lock()
	c.state.OnlyAllDay = flag
	view := c.viewLocked()
	c.mu.Unlock()
	c.push(view)
}

// Reset clears both fields to their defaults and pushes the full set.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = model.FilterState{}
	view := c.viewLocked()
	c.mu.Unlock()
	c.push(view)
}

func (c *Controller) push(view []model.Event) {
	if c.sink == nil {
		return
	}
	if err := c.sink.Refresh(view); err != nil {
		appLog.Error("filter: view refresh failed", err, "visible", len(view))
	}
}
