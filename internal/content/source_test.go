package content

import (
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	categories, err := Decode(strings.NewReader(`[
		{"title": "Engineering", "route": null, "journals": [{"title": "Applied Mech Review", "print_issn": "1234-5678"}]},
		{"title": "Physics", "route": "physics", "journals": [{"title": "Thermal Letters", "e_issn": "8765-4321"}]}
	]`))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if e, g := 2, len(categories); e != g {
		t.Fatalf("len(categories): expected '%v', got '%v'", e, g)
	}

	if e, g := "", categories[0].Route; e != g {
		t.Errorf("categories[0].Route: expected '%v', got '%v'", e, g)
	}

	if e, g := "8765-4321", categories[1].Journals[0].EISSN; e != g {
		t.Errorf("categories[1].Journals[0].EISSN: expected '%v', got '%v'", e, g)
	}
}

func TestDecodeRejectsUnexpectedShapes(t *testing.T) {
	for _, body := range []string{
		`{"data": []}`,
		`null`,
		`"categories"`,
		`[{"title": 12}]`,
		`[{"title": "A", "journals": [{"title": 12}]}]`,
		`not json`,
	} {
		if _, err := Decode(strings.NewReader(body)); err == nil {
			t.Errorf("Decode(%s): expected error, got nil", body)
		}
	}
}

func TestDecodeSkipsMalformedJournalLists(t *testing.T) {
	categories, err := Decode(strings.NewReader(`[
		{"title": "A", "journals": "oops"},
		{"title": "B", "journals": [{"title": "Quantum Notes"}]},
		{"title": "C"}
	]`))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	if e, g := 3, len(categories); e != g {
		t.Fatalf("len(categories): expected '%v', got '%v'", e, g)
	}

	if categories[0].Journals != nil {
		t.Errorf("categories[0].Journals: expected nil, got '%+v'", categories[0].Journals)
	}

	if e, g := 1, len(categories[1].Journals); e != g {
		t.Errorf("len(categories[1].Journals): expected '%v', got '%v'", e, g)
	}

	if categories[2].Journals != nil {
		t.Errorf("categories[2].Journals: expected nil, got '%+v'", categories[2].Journals)
	}
}
