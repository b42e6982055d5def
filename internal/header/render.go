package header

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/bornholm/masthead/internal/menu"
	"github.com/bornholm/masthead/internal/menu/expr"
	"github.com/bornholm/masthead/internal/ui"
	"github.com/bornholm/masthead/pkg/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

//go:embed templates/**
var templateFs embed.FS

const (
	DefaultBreakpoint = 1024

	// Selector is the CSS selector of the rendered header root.
	Selector = "#masthead"

	loginTarget     = "/login"
	dashboardTarget = "/dashboard"
)

// Renderer turns a header snapshot into HTML.
type Renderer struct {
	mu   sync.RWMutex
	tmpl *template.Template

	breakpoint int
	dir        string
	rules      expr.Rules
}

type RendererOptions struct {
	Breakpoint int
	// Dir is an optional directory of templates overriding the
	// embedded ones. It mirrors the templates/views layout.
	Dir string
}

type RendererOptionFunc func(opts *RendererOptions)

func WithBreakpoint(width int) RendererOptionFunc {
	return func(opts *RendererOptions) {
		opts.Breakpoint = width
	}
}

func WithTemplateDir(dir string) RendererOptionFunc {
	return func(opts *RendererOptions) {
		opts.Dir = dir
	}
}

func NewRenderer(funcs ...RendererOptionFunc) (*Renderer, error) {
	opts := &RendererOptions{
		Breakpoint: DefaultBreakpoint,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	r := &Renderer{
		breakpoint: opts.Breakpoint,
		dir:        opts.Dir,
	}

	if err := r.reload(); err != nil {
		return nil, errors.WithStack(err)
	}

	return r, nil
}

// Render writes the header. A zero viewport width means unknown, both
// the desktop and the mobile variants are then written.
func (r *Renderer) Render(ctx context.Context, w io.Writer, snapshot Snapshot, viewportWidth int) error {
	data := r.newMastheadView(ctx, snapshot, viewportWidth)

	r.mu.RLock()
	tmpl := r.tmpl
	r.mu.RUnlock()

	if err := tmpl.ExecuteTemplate(w, "masthead", data); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (r *Renderer) RenderHTML(ctx context.Context, snapshot Snapshot, viewportWidth int) (template.HTML, error) {
	var buf bytes.Buffer

	if err := r.Render(ctx, &buf, snapshot, viewportWidth); err != nil {
		return "", errors.WithStack(err)
	}

	return template.HTML(buf.String()), nil
}

// Watch reloads the override templates on change until ctx is done.
func (r *Renderer) Watch(ctx context.Context) error {
	if r.dir == "" {
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WithStack(err)
	}

	defer watcher.Close()

	viewsDir := filepath.Join(r.dir, "templates", "views")

	if err := watcher.Add(viewsDir); err != nil {
		return errors.Wrapf(err, "could not watch '%s'", viewsDir)
	}

	slog.InfoContext(ctx, "watching header templates", slog.String("dir", viewsDir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			if err := r.reload(); err != nil {
				slog.ErrorContext(ctx, "could not reload header templates, keeping previous ones", log.Error(errors.WithStack(err)))
				continue
			}

			slog.InfoContext(ctx, "header templates reloaded", slog.String("file", event.Name))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.ErrorContext(ctx, "template watcher error", log.Error(errors.WithStack(err)))
		}
	}
}

func (r *Renderer) reload() error {
	filesystems := []fs.FS{}
	if r.dir != "" {
		filesystems = append(filesystems, os.DirFS(r.dir))
	}

	filesystems = append(filesystems, templateFs)

	tmpl, err := ui.Templates(nil, filesystems...)
	if err != nil {
		return errors.WithStack(err)
	}

	r.mu.Lock()
	r.tmpl = tmpl
	r.mu.Unlock()

	return nil
}

type LinkView struct {
	Label string
	Href  string
}

type SectionView struct {
	Title string
	Links []LinkView
}

type JournalView struct {
	Title        string
	ISSN         string
	ImpactFactor string
	Icon         string
	Href         string
}

type EntryView struct {
	ID     string
	Label  string
	Layout menu.Layout
	Open   bool

	// Href is set for link entries
	Href string

	// ToggleAction is set for dropdown entries
	ToggleAction template.JS

	Sections []SectionView
	Side     []LinkView
	Journals []JournalView
	Links    []LinkView
	CTA      LinkView

	// Pending and Unavailable report the journal listing fetch
	Pending     bool
	Unavailable bool
}

func (e EntryView) IsDropdown() bool {
	return e.Layout != ""
}

type AccountView struct {
	LoggedIn bool
	Actions  []LinkView
	Link     LinkView
}

type MastheadView struct {
	ID string

	ShowDesktop bool
	ShowMobile  bool

	Desktop []EntryView
	Mobile  []EntryView

	MobileMenuOpen bool
	Account        AccountView
	HomeHref       string

	HoverEnterAction template.JS
	HoverLeaveAction template.JS
	MobileMenuAction template.JS
}

func (r *Renderer) newMastheadView(ctx context.Context, s Snapshot, viewportWidth int) MastheadView {
	env := expr.Env{
		LoggedIn:    s.Session.LoggedIn,
		DisplayName: s.Session.DisplayName,
		Path:        s.Path,
	}

	view := MastheadView{
		ID:               s.ID,
		ShowDesktop:      viewportWidth <= 0 || viewportWidth >= r.breakpoint,
		ShowMobile:       viewportWidth <= 0 || viewportWidth < r.breakpoint,
		MobileMenuOpen:   s.Interaction.MobileMenuOpen,
		HomeHref:         ActivateURL(s.ID, "/"),
		HoverEnterAction: post(HoverEnterURL(s.ID)),
		HoverLeaveAction: post(HoverLeaveURL(s.ID)),
		MobileMenuAction: post(MobileMenuURL(s.ID)),
	}

	if view.ShowDesktop {
		for _, e := range s.Menu.Desktop() {
			if !r.visible(ctx, e.When, env) {
				continue
			}

			view.Desktop = append(view.Desktop, newEntryView(s, e))
		}
	}

	if view.ShowMobile {
		for _, e := range s.Menu.Entries() {
			if !r.visible(ctx, e.When, env) {
				continue
			}

			view.Mobile = append(view.Mobile, newEntryView(s, e))
		}
	}

	view.Account = AccountView{LoggedIn: s.Session.LoggedIn}

	if s.Session.LoggedIn {
		label := "Dashboard"
		if s.Session.DisplayName != "" {
			label = fmt.Sprintf("Welcome %s", s.Session.DisplayName)
		}

		view.Account.Link = LinkView{Label: label, Href: ActivateURL(s.ID, dashboardTarget)}
	} else {
		view.Account.Link = LinkView{Label: "LOGIN", Href: ActivateURL(s.ID, loginTarget)}
	}

	for _, a := range s.Menu.Actions() {
		if !r.visible(ctx, a.When, env) {
			continue
		}

		view.Account.Actions = append(view.Account.Actions, LinkView{
			Label: a.Label,
			Href:  ActivateURL(s.ID, a.Target),
		})
	}

	return view
}

func (r *Renderer) visible(ctx context.Context, rule string, env expr.Env) bool {
	visible, err := r.rules.Visible(rule, env)
	if err != nil {
		slog.WarnContext(ctx, "could not evaluate visibility rule", slog.String("rule", rule), log.Error(errors.WithStack(err)))
		return false
	}

	return visible
}

func newEntryView(s Snapshot, e menu.Entry) EntryView {
	view := EntryView{
		ID:    e.ID,
		Label: e.Label,
	}

	if !e.IsDropdown() {
		view.Href = ActivateURL(s.ID, e.Target)
		return view
	}

	view.Layout = e.Layout()
	view.Open = s.Interaction.IsOpen(e.ID)
	view.ToggleAction = post(ToggleURL(s.ID, e.ID))

	links := func(links []menu.Link) []LinkView {
		views := make([]LinkView, 0, len(links))
		for _, l := range links {
			views = append(views, LinkView{Label: l.Label, Href: ActivateURL(s.ID, l.Target)})
		}
		return views
	}

	switch p := e.Payload.(type) {
	case menu.AboutPayload:
		for _, section := range p.Main {
			view.Sections = append(view.Sections, SectionView{
				Title: section.Title,
				Links: links(section.Links),
			})
		}
		view.Side = links(p.Side)

	case menu.JournalsPayload:
		for _, j := range p {
			view.Journals = append(view.Journals, JournalView{
				Title:        j.CategoryTitle,
				ISSN:         j.ISSN,
				ImpactFactor: j.ImpactFactor,
				Icon:         j.Icon,
				Href:         ActivateURL(s.ID, j.Target),
			})
		}
		view.Pending = s.Fetch.State == FetchPending
		view.Unavailable = s.Fetch.State == FetchFailed

	case menu.SimplePayload:
		view.Links = links(p)

	case menu.ConferencePayload:
		view.Links = links(p.Links)
		view.CTA = LinkView{Label: p.CTA.Label, Href: ActivateURL(s.ID, p.CTA.Target)}
	}

	return view
}

// post returns a datastar action expression. Endpoints are built by
// this package and never contain quotes.
func post(endpoint string) template.JS {
	return template.JS(fmt.Sprintf("@post('%s')", endpoint))
}

func headerURL(id string, parts ...string) string {
	u := &url.URL{Path: path.Join(append([]string{"/header", id}, parts...)...)}
	return u.String()
}

func StreamURL(id string) string {
	return headerURL(id, "stream")
}

func ToggleURL(id string, entryID string) string {
	return headerURL(id, "toggle", entryID)
}

func HoverEnterURL(id string) string {
	return headerURL(id, "hover", "enter")
}

func HoverLeaveURL(id string) string {
	return headerURL(id, "hover", "leave")
}

func MobileMenuURL(id string) string {
	return headerURL(id, "mobile")
}

// ActivateURL returns the activation endpoint navigating to target.
func ActivateURL(id string, target string) string {
	return headerURL(id, "go") + "?" + url.Values{"to": []string{target}}.Encode()
}
