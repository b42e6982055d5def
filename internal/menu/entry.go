package menu

type Kind string

const (
	KindLink     Kind = "link"
	KindDropdown Kind = "dropdown"
)

type Layout string

const (
	LayoutAbout      Layout = "about"
	LayoutJournals   Layout = "journals"
	LayoutSimple     Layout = "simple"
	LayoutConference Layout = "conference"
)

// Link is a navigable label.
type Link struct {
	Label  string `mapstructure:"label" yaml:"label"`
	Target string `mapstructure:"to" yaml:"to"`
}

// Section is a titled group of links of the about layout.
type Section struct {
	Title string `mapstructure:"title" yaml:"title"`
	Links []Link `mapstructure:"links" yaml:"links"`
}

// Payload is the data of a dropdown entry. Each layout has its own
// payload type, see AboutPayload, JournalsPayload, SimplePayload
// and ConferencePayload.
type Payload interface {
	Layout() Layout
	payload()
}

type AboutPayload struct {
	Main []Section `mapstructure:"main"`
	Side []Link    `mapstructure:"side"`
}

func (AboutPayload) Layout() Layout { return LayoutAbout }
func (AboutPayload) payload()       {}

// JournalCard is a normalized journal of the journals layout.
type JournalCard struct {
	CategoryTitle string
	ISSN          string
	ImpactFactor  string
	Target        string
	Icon          string
}

type JournalsPayload []JournalCard

func (JournalsPayload) Layout() Layout { return LayoutJournals }
func (JournalsPayload) payload()       {}

type SimplePayload []Link

func (SimplePayload) Layout() Layout { return LayoutSimple }
func (SimplePayload) payload()       {}

type ConferencePayload struct {
	Links []Link `mapstructure:"links"`
	CTA   Link   `mapstructure:"cta"`
}

func (ConferencePayload) Layout() Layout { return LayoutConference }
func (ConferencePayload) payload()       {}

var (
	_ Payload = AboutPayload{}
	_ Payload = JournalsPayload{}
	_ Payload = SimplePayload{}
	_ Payload = ConferencePayload{}
)

// Entry is an item of the navigation bar.
type Entry struct {
	ID    string
	Label string
	Kind  Kind

	// Target is the destination of a link entry
	Target string

	// Payload is the data of a dropdown entry
	Payload Payload

	// MobileOnly hides the entry from the desktop bar
	MobileOnly bool

	// When is an optional visibility rule, see package expr
	When string
}

func (e Entry) IsDropdown() bool {
	return e.Kind == KindDropdown
}

// Layout returns the layout of a dropdown entry or an empty string.
func (e Entry) Layout() Layout {
	if e.Payload == nil {
		return ""
	}

	return e.Payload.Layout()
}

// Action is a call to action of the account bar.
type Action struct {
	Label  string `mapstructure:"label"`
	Target string `mapstructure:"to"`
	When   string `mapstructure:"when"`
}
