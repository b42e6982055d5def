package menu

const JournalsEntryID = "journals"

// DefaultEntries returns the navigation inventory of the site.
// The journals dropdown starts empty, it is populated at runtime.
func DefaultEntries() []Entry {
	return []Entry{
		{
			ID:     "home",
			Label:  "HOME",
			Kind:   KindLink,
			Target: "/",
		},
		{
			ID:    "about",
			Label: "ABOUT ELK",
			Kind:  KindDropdown,
			Payload: AboutPayload{
				Main: []Section{
					{
						Title: "PUBLISHING POLICIES",
						Links: []Link{
							{Label: "Open Access & Licencing", Target: "/open-access-and-licencing"},
							{Label: "Ethical Guidelines", Target: "/ethical-guidelines"},
						},
					},
					{
						Title: "IMPACT FACTOR SCORE",
						Links: []Link{
							{Label: "Impact Factor", Target: "/impact-factor"},
							{Label: "Journal Indexing", Target: "/journal-indexing"},
						},
					},
				},
				Side: []Link{
					{Label: "MEET OUR TEAM", Target: "/meet-our-team"},
					{Label: "WHY PUBLISH WITH US?", Target: "/why-publish-with-us"},
				},
			},
		},
		{
			ID:      JournalsEntryID,
			Label:   "JOURNALS WE PUBLISH",
			Kind:    KindDropdown,
			Payload: JournalsPayload{},
		},
		{
			ID:    "authors",
			Label: "AUTHORS AREA",
			Kind:  KindDropdown,
			Payload: SimplePayload{
				{Label: "Browse Journals", Target: "/browse-journals"},
				{Label: "Author's Guidelines", Target: "/authors-guidelines"},
				{Label: "Resources", Target: "/resources"},
				{Label: "View Call for Papers", Target: "/view-call-for-papers"},
				{Label: "Article Processing Charges", Target: "/article-processing-charges"},
			},
		},
		{
			ID:     "conference",
			Label:  "CONFERENCE SOLUTIONS",
			Kind:   KindLink,
			Target: "/conferences",
		},
		{
			ID:         "editor",
			Label:      "Become An Editor",
			Kind:       KindLink,
			Target:     "/become-an-editor",
			MobileOnly: true,
		},
	}
}

// DefaultActions returns the calls to action of the account bar.
func DefaultActions() []Action {
	return []Action{
		{
			Label:  "Become An Editor",
			Target: "/become-an-editor",
			When:   "!loggedIn",
		},
	}
}

func Default() *Menu {
	m, err := New(DefaultEntries(), DefaultActions()...)
	if err != nil {
		panic(err)
	}

	return m
}
