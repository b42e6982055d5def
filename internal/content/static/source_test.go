package static

import (
	"testing"

	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/content/testsuite"
	"github.com/pkg/errors"
)

func TestSource(t *testing.T) {
	testsuite.TestSource(t, NewSource(testsuite.Listing()...))
}

func TestCreateSourceFromOptions(t *testing.T) {
	source, err := content.New(Type, map[string]any{
		"categories": []any{
			map[string]any{
				"title": "Engineering",
				"journals": []any{
					map[string]any{"title": "Applied Mech Review", "print_issn": "1234-5678"},
					map[string]any{"title": "Structural Dynamics", "e_issn": "2345-6789"},
				},
			},
			map[string]any{
				"title": "Physics",
				"route": "physics",
				"journals": []any{
					map[string]any{"title": "Thermal Letters", "print_issn": "3456-7890", "e_issn": "0987-6543"},
				},
			},
			map[string]any{
				"title":    "Economics",
				"journals": []any{},
			},
		},
	})
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	testsuite.TestSource(t, source)
}
