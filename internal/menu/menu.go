package menu

import (
	"regexp"
	"slices"

	"github.com/pkg/errors"
)

var (
	ErrDuplicateID    = errors.New("duplicate entry id")
	ErrEmptyID        = errors.New("empty entry id")
	ErrInvalidID      = errors.New("invalid entry id")
	ErrLayoutMismatch = errors.New("entry kind and payload mismatch")
	ErrNotFound       = errors.New("entry not found")
)

// Entry ids are used in URL paths and markup.
var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Menu is an immutable ordered set of entries.
type Menu struct {
	entries []Entry
	actions []Action
}

func New(entries []Entry, actions ...Action) (*Menu, error) {
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if e.ID == "" {
			return nil, errors.Wrapf(ErrEmptyID, "entry '%s'", e.Label)
		}

		if !validID.MatchString(e.ID) {
			return nil, errors.Wrapf(ErrInvalidID, "entry '%s'", e.ID)
		}

		if _, exists := seen[e.ID]; exists {
			return nil, errors.Wrapf(ErrDuplicateID, "entry '%s'", e.ID)
		}

		seen[e.ID] = struct{}{}

		switch e.Kind {
		case KindLink:
			if e.Payload != nil {
				return nil, errors.Wrapf(ErrLayoutMismatch, "link entry '%s' has a '%s' payload", e.ID, e.Payload.Layout())
			}
		case KindDropdown:
			if e.Payload == nil {
				return nil, errors.Wrapf(ErrLayoutMismatch, "dropdown entry '%s' has no payload", e.ID)
			}
		default:
			return nil, errors.Errorf("entry '%s' has unknown kind '%s'", e.ID, e.Kind)
		}
	}

	return &Menu{
		entries: slices.Clone(entries),
		actions: slices.Clone(actions),
	}, nil
}

func (m *Menu) Entries() []Entry {
	return slices.Clone(m.entries)
}

// Desktop returns the entries displayed on the desktop bar.
func (m *Menu) Desktop() []Entry {
	return slices.DeleteFunc(m.Entries(), func(e Entry) bool {
		return e.MobileOnly
	})
}

func (m *Menu) Actions() []Action {
	return slices.Clone(m.actions)
}

func (m *Menu) Entry(id string) (Entry, error) {
	idx := slices.IndexFunc(m.entries, func(e Entry) bool {
		return e.ID == id
	})
	if idx == -1 {
		return Entry{}, errors.Wrapf(ErrNotFound, "entry '%s'", id)
	}

	return m.entries[idx], nil
}

// WithJournals returns a copy of the menu where every journals
// dropdown carries the given cards.
func (m *Menu) WithJournals(cards []JournalCard) *Menu {
	entries := m.Entries()

	for i, e := range entries {
		if e.Layout() != LayoutJournals {
			continue
		}

		entries[i].Payload = JournalsPayload(slices.Clone(cards))
	}

	return &Menu{
		entries: entries,
		actions: m.actions,
	}
}
