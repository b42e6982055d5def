package header

import (
	"sync"
	"time"
)

const DefaultHoverGrace = 200 * time.Millisecond

// InteractionState is the open/closed state of the header menus.
type InteractionState struct {
	MobileMenuOpen bool
	// OpenDropdownID is the id of the open dropdown, empty when
	// every dropdown is closed.
	OpenDropdownID string
	// PendingClose is true while a hover close is scheduled.
	PendingClose bool
}

func (s InteractionState) IsOpen(id string) bool {
	return id != "" && s.OpenDropdownID == id
}

// Machine serializes the interaction events of a header instance.
type Machine struct {
	mu sync.Mutex

	state    InteractionState
	timer    Timer
	disposed bool

	// generation is bumped every time the pending close is released,
	// a firing timer holding an older generation does nothing.
	generation uint64

	grace     time.Duration
	scheduler Scheduler
	onChange  func(InteractionState)
}

type MachineOptions struct {
	HoverGrace time.Duration
	Scheduler  Scheduler
	OnChange   func(InteractionState)
}

type MachineOptionFunc func(opts *MachineOptions)

func WithHoverGrace(grace time.Duration) MachineOptionFunc {
	return func(opts *MachineOptions) {
		opts.HoverGrace = grace
	}
}

func WithScheduler(scheduler Scheduler) MachineOptionFunc {
	return func(opts *MachineOptions) {
		opts.Scheduler = scheduler
	}
}

// WithOnChange sets a function called, outside of the machine lock,
// after every state change.
func WithOnChange(fn func(InteractionState)) MachineOptionFunc {
	return func(opts *MachineOptions) {
		opts.OnChange = fn
	}
}

func NewMachineOptions(funcs ...MachineOptionFunc) *MachineOptions {
	opts := &MachineOptions{
		HoverGrace: DefaultHoverGrace,
		Scheduler:  DefaultScheduler,
		OnChange:   func(InteractionState) {},
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

func NewMachine(funcs ...MachineOptionFunc) *Machine {
	opts := NewMachineOptions(funcs...)

	return &Machine{
		grace:     opts.HoverGrace,
		scheduler: opts.Scheduler,
		onChange:  opts.OnChange,
	}
}

func (m *Machine) State() InteractionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshotLocked()
}

// Toggle closes the dropdown if it is open and opens it otherwise.
// A pending hover close is left untouched.
func (m *Machine) Toggle(id string) InteractionState {
	return m.update(func() {
		if m.state.OpenDropdownID == id {
			m.state.OpenDropdownID = ""
		} else {
			m.state.OpenDropdownID = id
		}
	})
}

// HoverEnter cancels the pending hover close, if any.
func (m *Machine) HoverEnter() InteractionState {
	return m.update(m.releaseLocked)
}

// HoverLeave schedules a close of the open dropdown after the hover
// grace delay, superseding a previously scheduled close.
func (m *Machine) HoverLeave() InteractionState {
	return m.update(func() {
		m.releaseLocked()

		generation := m.generation
		m.timer = m.scheduler.AfterFunc(m.grace, func() {
			m.expire(generation)
		})
	})
}

// LinkActivated closes every menu before navigation.
func (m *Machine) LinkActivated() InteractionState {
	return m.update(func() {
		m.releaseLocked()
		m.state.OpenDropdownID = ""
		m.state.MobileMenuOpen = false
	})
}

func (m *Machine) ToggleMobileMenu() InteractionState {
	return m.update(func() {
		m.state.MobileMenuOpen = !m.state.MobileMenuOpen
	})
}

// Dispose releases the pending close. Every later event is ignored.
func (m *Machine) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()
	m.disposed = true
}

func (m *Machine) expire(generation uint64) {
	m.mu.Lock()

	if m.disposed || m.timer == nil || generation != m.generation {
		m.mu.Unlock()
		return
	}

	m.timer = nil
	m.generation++
	m.state.OpenDropdownID = ""

	state := m.snapshotLocked()

	m.mu.Unlock()

	m.onChange(state)
}

func (m *Machine) update(fn func()) InteractionState {
	m.mu.Lock()

	if m.disposed {
		defer m.mu.Unlock()
		return m.snapshotLocked()
	}

	before := m.snapshotLocked()
	fn()
	after := m.snapshotLocked()

	m.mu.Unlock()

	if before != after {
		m.onChange(after)
	}

	return after
}

func (m *Machine) releaseLocked() {
	if m.timer == nil {
		return
	}

	m.timer.Stop()
	m.timer = nil
	m.generation++
}

func (m *Machine) snapshotLocked() InteractionState {
	state := m.state
	state.PendingClose = m.timer != nil
	return state
}
