package header

import (
	"testing"
	"time"
)

func newTestMachine() (*Machine, *manualScheduler, *int) {
	scheduler := &manualScheduler{}
	changes := 0

	m := NewMachine(
		WithScheduler(scheduler),
		WithHoverGrace(200*time.Millisecond),
		WithOnChange(func(InteractionState) {
			changes++
		}),
	)

	return m, scheduler, &changes
}

func TestMachineExclusivity(t *testing.T) {
	m, _, _ := newTestMachine()

	type step struct {
		Toggle   string
		Expected string
	}

	steps := []step{
		{Toggle: "about", Expected: "about"},
		{Toggle: "journals", Expected: "journals"},
		{Toggle: "journals", Expected: ""},
		{Toggle: "authors", Expected: "authors"},
		{Toggle: "about", Expected: "about"},
		{Toggle: "about", Expected: ""},
	}

	for i, s := range steps {
		state := m.Toggle(s.Toggle)
		if e, g := s.Expected, state.OpenDropdownID; e != g {
			t.Errorf("Case #%d: state.OpenDropdownID: expected '%v', got '%v'", i, e, g)
		}
	}
}

func TestMachineHoverIntent(t *testing.T) {
	t.Run("CloseAfterGrace", func(t *testing.T) {
		m, scheduler, _ := newTestMachine()

		m.Toggle("about")
		state := m.HoverLeave()

		if !state.PendingClose {
			t.Errorf("state.PendingClose: expected true, got false")
		}

		scheduler.Advance(199 * time.Millisecond)

		if e, g := "about", m.State().OpenDropdownID; e != g {
			t.Errorf("m.State().OpenDropdownID: expected '%v', got '%v'", e, g)
		}

		scheduler.Advance(time.Millisecond)

		state = m.State()

		if e, g := "", state.OpenDropdownID; e != g {
			t.Errorf("m.State().OpenDropdownID: expected '%v', got '%v'", e, g)
		}

		if state.PendingClose {
			t.Errorf("state.PendingClose: expected false, got true")
		}
	})

	t.Run("EnterCancelsClose", func(t *testing.T) {
		m, scheduler, _ := newTestMachine()

		m.Toggle("about")
		m.HoverLeave()
		scheduler.Advance(100 * time.Millisecond)
		m.HoverEnter()
		scheduler.Advance(time.Second)

		if e, g := "about", m.State().OpenDropdownID; e != g {
			t.Errorf("m.State().OpenDropdownID: expected '%v', got '%v'", e, g)
		}

		if e, g := 0, scheduler.Pending(); e != g {
			t.Errorf("scheduler.Pending(): expected '%v', got '%v'", e, g)
		}
	})

	t.Run("SecondLeaveSupersedes", func(t *testing.T) {
		m, scheduler, _ := newTestMachine()

		m.Toggle("about")
		m.HoverLeave()
		scheduler.Advance(150 * time.Millisecond)
		m.HoverLeave()
		scheduler.Advance(150 * time.Millisecond)

		if e, g := "about", m.State().OpenDropdownID; e != g {
			t.Errorf("m.State().OpenDropdownID: expected '%v', got '%v'", e, g)
		}

		scheduler.Advance(50 * time.Millisecond)

		if e, g := "", m.State().OpenDropdownID; e != g {
			t.Errorf("m.State().OpenDropdownID: expected '%v', got '%v'", e, g)
		}
	})

	t.Run("StaleTimerIsNoop", func(t *testing.T) {
		m, scheduler, _ := newTestMachine()

		m.Toggle("about")
		m.HoverLeave()
		m.HoverEnter()

		if e, g := 1, scheduler.FireStale(); e != g {
			t.Fatalf("scheduler.FireStale(): expected '%v', got '%v'", e, g)
		}

		if e, g := "about", m.State().OpenDropdownID; e != g {
			t.Errorf("m.State().OpenDropdownID: expected '%v', got '%v'", e, g)
		}
	})

	t.Run("ToggleKeepsPendingClose", func(t *testing.T) {
		m, scheduler, _ := newTestMachine()

		m.Toggle("about")
		m.HoverLeave()
		m.Toggle("journals")
		scheduler.Advance(200 * time.Millisecond)

		if e, g := "", m.State().OpenDropdownID; e != g {
			t.Errorf("m.State().OpenDropdownID: expected '%v', got '%v'", e, g)
		}
	})
}

func TestMachineLinkActivated(t *testing.T) {
	m, scheduler, _ := newTestMachine()

	m.ToggleMobileMenu()
	m.Toggle("authors")
	m.HoverLeave()

	state := m.LinkActivated()

	if e, g := (InteractionState{}), state; e != g {
		t.Errorf("state: expected '%+v', got '%+v'", e, g)
	}

	if e, g := 0, scheduler.Pending(); e != g {
		t.Errorf("scheduler.Pending(): expected '%v', got '%v'", e, g)
	}
}

func TestMachineMobileMenu(t *testing.T) {
	m, _, _ := newTestMachine()

	m.Toggle("about")

	state := m.ToggleMobileMenu()
	if !state.MobileMenuOpen {
		t.Errorf("state.MobileMenuOpen: expected true, got false")
	}

	if e, g := "about", state.OpenDropdownID; e != g {
		t.Errorf("state.OpenDropdownID: expected '%v', got '%v'", e, g)
	}

	state = m.ToggleMobileMenu()
	if state.MobileMenuOpen {
		t.Errorf("state.MobileMenuOpen: expected false, got true")
	}
}

func TestMachineDispose(t *testing.T) {
	m, scheduler, changes := newTestMachine()

	m.Toggle("about")
	m.HoverLeave()

	before := *changes

	m.Dispose()

	scheduler.Advance(time.Second)
	scheduler.FireStale()

	m.Toggle("journals")
	m.ToggleMobileMenu()

	if e, g := before, *changes; e != g {
		t.Errorf("changes: expected '%v', got '%v'", e, g)
	}

	if e, g := "about", m.State().OpenDropdownID; e != g {
		t.Errorf("m.State().OpenDropdownID: expected '%v', got '%v'", e, g)
	}
}

func TestMachineOnChange(t *testing.T) {
	m, scheduler, changes := newTestMachine()

	m.HoverEnter()

	if e, g := 0, *changes; e != g {
		t.Errorf("changes: expected '%v', got '%v'", e, g)
	}

	m.Toggle("about")
	m.HoverLeave()
	scheduler.Advance(200 * time.Millisecond)

	// toggle, pending close, close
	if e, g := 3, *changes; e != g {
		t.Errorf("changes: expected '%v', got '%v'", e, g)
	}
}
