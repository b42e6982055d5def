package menu

import (
	"testing"

	"github.com/pkg/errors"
)

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]Entry{
		{ID: "home", Label: "HOME", Kind: KindLink, Target: "/"},
		{ID: "home", Label: "HOME", Kind: KindLink, Target: "/home"},
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("err: expected '%v', got '%v'", ErrDuplicateID, err)
	}
}

func TestNewRejectsInvalidIDs(t *testing.T) {
	for _, id := range []string{"about us", "a'b", "x/y"} {
		_, err := New([]Entry{
			{ID: id, Label: "ABOUT", Kind: KindLink, Target: "/about"},
		})
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("err for '%s': expected '%v', got '%v'", id, ErrInvalidID, err)
		}
	}
}

func TestNewRejectsMismatchedPayloads(t *testing.T) {
	_, err := New([]Entry{
		{ID: "about", Label: "ABOUT", Kind: KindDropdown},
	})
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("err: expected '%v', got '%v'", ErrLayoutMismatch, err)
	}

	_, err = New([]Entry{
		{ID: "home", Label: "HOME", Kind: KindLink, Target: "/", Payload: SimplePayload{}},
	})
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("err: expected '%v', got '%v'", ErrLayoutMismatch, err)
	}
}

func TestDefaultMenu(t *testing.T) {
	m := Default()

	if e, g := 6, len(m.Entries()); e != g {
		t.Errorf("len(m.Entries()): expected '%v', got '%v'", e, g)
	}

	desktop := m.Desktop()

	if e, g := 5, len(desktop); e != g {
		t.Errorf("len(m.Desktop()): expected '%v', got '%v'", e, g)
	}

	for _, e := range desktop {
		if e.MobileOnly {
			t.Errorf("entry '%s' should not be displayed on desktop", e.ID)
		}
	}

	journals, err := m.Entry(JournalsEntryID)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if e, g := LayoutJournals, journals.Layout(); e != g {
		t.Errorf("journals.Layout(): expected '%v', got '%v'", e, g)
	}

	if e, g := 0, len(journals.Payload.(JournalsPayload)); e != g {
		t.Errorf("len(journals.Payload): expected '%v', got '%v'", e, g)
	}

	if _, err := m.Entry("unknown"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err: expected '%v', got '%v'", ErrNotFound, err)
	}
}

func TestWithJournals(t *testing.T) {
	m := Default()

	cards := []JournalCard{
		{CategoryTitle: "Engineering", ISSN: "1234-5678", ImpactFactor: "N/A", Target: "/journals/applied-mech-review"},
	}

	populated := m.WithJournals(cards)

	journals, err := populated.Entry(JournalsEntryID)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if e, g := 1, len(journals.Payload.(JournalsPayload)); e != g {
		t.Errorf("len(journals.Payload): expected '%v', got '%v'", e, g)
	}

	original, err := m.Entry(JournalsEntryID)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if e, g := 0, len(original.Payload.(JournalsPayload)); e != g {
		t.Errorf("original menu should not be mutated: expected '%v' cards, got '%v'", e, g)
	}

	about, err := populated.Entry("about")
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if e, g := LayoutAbout, about.Layout(); e != g {
		t.Errorf("about.Layout(): expected '%v', got '%v'", e, g)
	}
}
