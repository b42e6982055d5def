package header

import (
	"context"
	"regexp"
	"strings"

	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/menu"
	"github.com/pkg/errors"
)

const (
	unavailable = "N/A"
	journalIcon = "book"
)

// ErrUntitledJournal is returned when a journal can not be addressed,
// it has no title and its category has no route.
var ErrUntitledJournal = errors.New("untitled journal without category route")

var nonSlugChars = regexp.MustCompile(`[^\w-]+`)

// Slug lowercases the title, replaces spaces by hyphens and strips
// everything but word characters and hyphens.
func Slug(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	return nonSlugChars.ReplaceAllString(slug, "")
}

// Normalize flattens the listing into journal cards, preserving the
// listing order. Categories without journal list are skipped. A
// journal that can not be addressed rejects the whole listing.
func Normalize(categories []content.Category) ([]menu.JournalCard, error) {
	cards := make([]menu.JournalCard, 0)

	for _, c := range categories {
		if c.Journals == nil {
			continue
		}

		for _, j := range c.Journals {
			route := c.Route
			if route == "" {
				if j.Title == "" {
					return nil, errors.Wrapf(ErrUntitledJournal, "category '%s'", c.Title)
				}

				route = Slug(j.Title)
			}

			issn := j.PrintISSN
			if issn == "" {
				issn = j.EISSN
			}
			if issn == "" {
				issn = unavailable
			}

			cards = append(cards, menu.JournalCard{
				CategoryTitle: c.Title,
				ISSN:          issn,
				ImpactFactor:  unavailable,
				Target:        "/journals/" + route,
				Icon:          journalIcon,
			})
		}
	}

	return cards, nil
}

type FetchState int

const (
	FetchPending FetchState = iota
	FetchLoaded
	FetchFailed
)

func (s FetchState) String() string {
	switch s {
	case FetchLoaded:
		return "loaded"
	case FetchFailed:
		return "failed"
	default:
		return "pending"
	}
}

// FetchStatus is the outcome of the journal listing fetch.
type FetchStatus struct {
	State FetchState
	Err   error
}

// JournalLoader fetches and normalizes the journal listing.
type JournalLoader struct {
	source content.Source
}

func (l *JournalLoader) Load(ctx context.Context) ([]menu.JournalCard, error) {
	categories, err := l.source.CategoriesWithJournals(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cards, err := Normalize(categories)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return cards, nil
}

func NewJournalLoader(source content.Source) *JournalLoader {
	return &JournalLoader{source: source}
}
