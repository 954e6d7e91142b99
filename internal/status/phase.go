package status

import (
	"fmt"
	"log"
	"sync"
)

// Phase is the widget lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseValidated
	PhaseIdle
	PhaseFetching
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseValidated:
		return "validated"
	case PhaseIdle:
		return "idle"
	case PhaseFetching:
		return "fetching"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Machine tracks the lifecycle with named transitions:
// uninitialized -> validated -> idle <-> fetching, terminated
// absorbing. BeginFetch doubles as the overlap guard: a tick landing
// while a fetch is in flight fails the transition and gets skipped.
type Machine struct {
	phase Phase
	mu    sync.Mutex
}

func NewMachine() *Machine {
	return &Machine{phase: PhaseUninitialized}
}

func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Validate marks the configuration gate as passed.
func (m *Machine) Validate() error {
	return m.transition(PhaseUninitialized, PhaseValidated)
}

// Ready moves the validated widget into the render loop.
func (m *Machine) Ready() error {
	return m.transition(PhaseValidated, PhaseIdle)
}

// BeginFetch marks a fetch as in flight.
func (m *Machine) BeginFetch() error {
	return m.transition(PhaseIdle, PhaseFetching)
}

// EndFetch returns to idle once a fetch completes.
func (m *Machine) EndFetch() error {
	return m.transition(PhaseFetching, PhaseIdle)
}

// Terminate is allowed from any phase and is final.
func (m *Machine) Terminate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == PhaseTerminated {
		return
	}
	log.Printf("Phase %s -> %s", m.phase, PhaseTerminated)
	m.phase = PhaseTerminated
}

func (m *Machine) transition(from, to Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != from {
		return fmt.Errorf("cannot enter %s from %s", to, m.phase)
	}
	m.phase = to
	return nil
}
