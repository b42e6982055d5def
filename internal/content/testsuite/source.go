package testsuite

import (
	"context"
	"testing"

	"github.com/bornholm/masthead/internal/content"
	"github.com/pkg/errors"
)

// Listing returns the reference listing sources are seeded with.
func Listing() []content.Category {
	return []content.Category{
		{
			Title: "Engineering",
			Journals: []content.Journal{
				{Title: "Applied Mech Review", PrintISSN: "1234-5678"},
				{Title: "Structural Dynamics", EISSN: "2345-6789"},
			},
		},
		{
			Title: "Physics",
			Route: "physics",
			Journals: []content.Journal{
				{Title: "Thermal Letters", PrintISSN: "3456-7890", EISSN: "0987-6543"},
			},
		},
		{
			Title:    "Economics",
			Journals: []content.Journal{},
		},
	}
}

// TestSource checks a source seeded with Listing returns it unchanged.
func TestSource(t *testing.T, source content.Source) {
	t.Helper()

	categories, err := source.CategoriesWithJournals(context.Background())
	if err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	expected := Listing()

	if e, g := len(expected), len(categories); e != g {
		t.Fatalf("len(categories): expected '%v', got '%v'", e, g)
	}

	for i, category := range expected {
		got := categories[i]

		if e, g := category.Title, got.Title; e != g {
			t.Errorf("categories[%d].Title: expected '%v', got '%v'", i, e, g)
		}

		if e, g := category.Route, got.Route; e != g {
			t.Errorf("categories[%d].Route: expected '%v', got '%v'", i, e, g)
		}

		if e, g := len(category.Journals), len(got.Journals); e != g {
			t.Errorf("len(categories[%d].Journals): expected '%v', got '%v'", i, e, g)
			continue
		}

		for j, journal := range category.Journals {
			if e, g := journal, got.Journals[j]; e != g {
				t.Errorf("categories[%d].Journals[%d]: expected '%+v', got '%+v'", i, j, e, g)
			}
		}
	}
}
