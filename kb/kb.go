package kb

import (
	"fmt"
	"sync"

	"github.com/signalsfoundry/impact-simulator/model"
)

// EventType indicates what kind of change happened in the KB.
type EventType int

const (
	EventScenarioAdded EventType = iota
	EventTrajectoryUpdated
	EventImpactPointMoved
	EventMitigationSet
)

// Event is emitted to subscribers when something interesting happens.
type Event struct {
	Type     EventType
	Scenario model.AsteroidScenario
}

// KnowledgeBase is an in-memory, thread-safe store for asteroid scenarios.
// The mission-clock loop writes trajectory updates into it; the API layer
// subscribes and pushes them to connected clients.
type KnowledgeBase struct {
	mu sync.RWMutex

	scenarios map[string]*model.AsteroidScenario

	subs      map[int]func(Event)
	nextSubID int
}

// NewKnowledgeBase constructs an empty KB.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		scenarios: make(map[string]*model.AsteroidScenario),
		subs:      make(map[int]func(Event)),
	}
}

// AddScenario adds a new scenario. It returns an error if the ID already
// exists.
func (kb *KnowledgeBase) AddScenario(s *model.AsteroidScenario) error {
	kb.mu.Lock()
	if _, exists := kb.scenarios[s.ID]; exists {
		kb.mu.Unlock()
		return fmt.Errorf("scenario with ID %q already exists", s.ID)
	}
	// store pointer so the clock loop can update trajectory in place
	kb.scenarios[s.ID] = s
	event := Event{Type: EventScenarioAdded, Scenario: *s}
	subs := kb.snapshotSubs()
	kb.mu.Unlock()

	kb.notify(subs, event)
	return nil
}

// GetScenario returns the scenario with the given ID, or nil if not found.
func (kb *KnowledgeBase) GetScenario(id string) *model.AsteroidScenario {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.scenarios[id]
}

// ListScenarios returns a snapshot slice of all scenarios.
func (kb *KnowledgeBase) ListScenarios() []*model.AsteroidScenario {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	res := make([]*model.AsteroidScenario, 0, len(kb.scenarios))
	for _, s := range kb.scenarios {
		res = append(res, s)
	}
	return res
}

// Len returns the number of stored scenarios.
func (kb *KnowledgeBase) Len() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.scenarios)
}

// UpdateTrajectory stores a freshly computed trajectory state and notifies
// subscribers.
func (kb *KnowledgeBase) UpdateTrajectory(id string, state model.TrajectoryState) error {
	kb.mu.Lock()
	s, ok := kb.scenarios[id]
	if !ok {
		kb.mu.Unlock()
		return fmt.Errorf("scenario with ID %q not found", id)
	}
	s.Trajectory = state
	event := Event{
		Type:     EventTrajectoryUpdated,
		Scenario: *s, // copy for safety
	}
	subs := kb.snapshotSubs()
	kb.mu.Unlock()

	kb.notify(subs, event)
	return nil
}

// SetImpactPoint moves the projected impact coordinates and notifies
// subscribers. The API layer uses the event to kick off a fresh casualty
// estimate, superseding any in-flight one.
func (kb *KnowledgeBase) SetImpactPoint(id string, latDeg, lonDeg float64, isWater bool) error {
	kb.mu.Lock()
	s, ok := kb.scenarios[id]
	if !ok {
		kb.mu.Unlock()
		return fmt.Errorf("scenario with ID %q not found", id)
	}
	s.Impact.LatitudeDeg = latDeg
	s.Impact.LongitudeDeg = lonDeg
	s.Impact.HasLocation = true
	s.Impact.IsWaterTarget = isWater
	event := Event{Type: EventImpactPointMoved, Scenario: *s}
	subs := kb.snapshotSubs()
	kb.mu.Unlock()

	kb.notify(subs, event)
	return nil
}

// SetMitigation attaches a mitigation plan to a scenario and notifies
// subscribers.
func (kb *KnowledgeBase) SetMitigation(id string, plan model.MitigationPlan) error {
	kb.mu.Lock()
	s, ok := kb.scenarios[id]
	if !ok {
		kb.mu.Unlock()
		return fmt.Errorf("scenario with ID %q not found", id)
	}
	s.Mitigation = &plan
	event := Event{Type: EventMitigationSet, Scenario: *s}
	subs := kb.snapshotSubs()
	kb.mu.Unlock()

	kb.notify(subs, event)
	return nil
}

// Subscribe registers a callback for KB events. It returns an unsubscribe
// function; each subscription holds its own token, so unsubscribing is
// safe in any order.
func (kb *KnowledgeBase) Subscribe(fn func(Event)) (unsubscribe func()) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	id := kb.nextSubID
	kb.nextSubID++
	kb.subs[id] = fn

	return func() {
		kb.mu.Lock()
		defer kb.mu.Unlock()
		delete(kb.subs, id)
	}
}

func (kb *KnowledgeBase) snapshotSubs() []func(Event) {
	out := make([]func(Event), 0, len(kb.subs))
	for _, fn := range kb.subs {
		out = append(out, fn)
	}
	return out
}

// notify runs outside the lock to avoid deadlocks with subscribers that
// call back into the KB.
func (kb *KnowledgeBase) notify(subs []func(Event), event Event) {
	for _, sub := range subs {
		sub(event)
	}
}
