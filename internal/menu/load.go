package menu

import (
	"io"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

type rawMenu struct {
	Entries []rawEntry `mapstructure:"entries"`
	Actions []Action   `mapstructure:"actions"`
}

type rawEntry struct {
	ID         string `mapstructure:"id"`
	Label      string `mapstructure:"label"`
	Kind       Kind   `mapstructure:"kind"`
	Target     string `mapstructure:"to"`
	Layout     Layout `mapstructure:"layout"`
	Data       any    `mapstructure:"data"`
	MobileOnly bool   `mapstructure:"mobileOnly"`
	When       string `mapstructure:"when"`
}

func LoadFile(path string) (*Menu, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	defer file.Close()

	m, err := Load(file)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load menu file '%s'", path)
	}

	return m, nil
}

// Load reads a YAML menu inventory. Dropdown entries declare their
// layout and a data section shaped after that layout.
func Load(r io.Reader) (*Menu, error) {
	var data map[string]any

	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.WithStack(err)
	}

	var raw rawMenu

	if err := mapstructure.Decode(data, &raw); err != nil {
		return nil, errors.WithStack(err)
	}

	entries := make([]Entry, 0, len(raw.Entries))

	for _, re := range raw.Entries {
		entry := Entry{
			ID:         re.ID,
			Label:      re.Label,
			Kind:       re.Kind,
			Target:     re.Target,
			MobileOnly: re.MobileOnly,
			When:       re.When,
		}

		if re.Kind == KindDropdown {
			payload, err := decodePayload(re.Layout, re.Data)
			if err != nil {
				return nil, errors.Wrapf(err, "could not decode entry '%s'", re.ID)
			}

			entry.Payload = payload
		}

		entries = append(entries, entry)
	}

	return New(entries, raw.Actions...)
}

func decodePayload(layout Layout, data any) (Payload, error) {
	switch layout {
	case LayoutAbout:
		var payload AboutPayload
		if err := mapstructure.Decode(data, &payload); err != nil {
			return nil, errors.WithStack(err)
		}

		return payload, nil

	case LayoutSimple:
		var payload SimplePayload
		if err := mapstructure.Decode(data, &payload); err != nil {
			return nil, errors.WithStack(err)
		}

		return payload, nil

	case LayoutConference:
		var payload ConferencePayload
		if err := mapstructure.Decode(data, &payload); err != nil {
			return nil, errors.WithStack(err)
		}

		return payload, nil

	case LayoutJournals:
		// Journal cards are never declared, they are fetched at runtime
		return JournalsPayload{}, nil

	default:
		return nil, errors.Wrapf(ErrLayoutMismatch, "unknown layout '%s'", layout)
	}
}
