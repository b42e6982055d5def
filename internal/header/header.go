package header

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/menu"
	"github.com/bornholm/masthead/internal/metrics"
	"github.com/bornholm/masthead/internal/syncx"
	"github.com/bornholm/masthead/pkg/log"
	"github.com/pkg/errors"
)

var (
	ErrUnknownEntry   = errors.New("unknown entry")
	ErrNotDropdown    = errors.New("entry is not a dropdown")
	ErrUnmounted      = errors.New("header is unmounted")
	ErrAlreadyMounted = errors.New("header is already mounted")
)

// Snapshot is a consistent copy of the state of a header instance.
type Snapshot struct {
	ID          string
	Path        string
	Menu        *menu.Menu
	Interaction InteractionState
	Session     SessionState
	Fetch       FetchStatus
}

// Header is a mounted navigation header. Its events are expected to
// come from a single browser tab.
type Header struct {
	id       string
	menu     *menu.Menu
	loader   *JournalLoader
	session  SessionSource
	notifier SessionNotifier
	machine  *Machine
	metrics  *metrics.Collectors

	mu           sync.Mutex
	mounted      bool
	unmounted    bool
	path         string
	sessionState SessionState
	journals     []menu.JournalCard
	fetch        FetchStatus
	cancel       context.CancelFunc
	unsubscribe  func()
	fetching     sync.WaitGroup
	done         chan struct{}

	listeners syncx.Map[chan struct{}, struct{}]
}

type Options struct {
	Menu      *menu.Menu
	Machine   []MachineOptionFunc
	Notifier  SessionNotifier
	Collector *metrics.Collectors
}

type OptionFunc func(opts *Options)

func WithMenu(m *menu.Menu) OptionFunc {
	return func(opts *Options) {
		opts.Menu = m
	}
}

func WithMachineOptions(funcs ...MachineOptionFunc) OptionFunc {
	return func(opts *Options) {
		opts.Machine = append(opts.Machine, funcs...)
	}
}

// WithNotifier enables the session change subscription.
func WithNotifier(notifier SessionNotifier) OptionFunc {
	return func(opts *Options) {
		opts.Notifier = notifier
	}
}

func WithMetrics(collectors *metrics.Collectors) OptionFunc {
	return func(opts *Options) {
		opts.Collector = collectors
	}
}

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Menu: menu.Default(),
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return opts
}

func New(id string, source content.Source, session SessionSource, funcs ...OptionFunc) *Header {
	opts := NewOptions(funcs...)

	h := &Header{
		id:       id,
		menu:     opts.Menu,
		loader:   NewJournalLoader(source),
		session:  session,
		notifier: opts.Notifier,
		metrics:  opts.Collector,
		fetch:    FetchStatus{State: FetchPending},
		done:     make(chan struct{}),
	}

	machineOpts := append(slices.Clone(opts.Machine), WithOnChange(func(InteractionState) {
		h.notify()
	}))

	h.machine = NewMachine(machineOpts...)

	return h
}

func (h *Header) ID() string {
	return h.id
}

// Mount derives the session state, subscribes to the session changes
// and starts the journal listing fetch. The instance outlives ctx,
// only its values are kept.
func (h *Header) Mount(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unmounted {
		return errors.WithStack(ErrUnmounted)
	}

	if h.mounted {
		return errors.WithStack(ErrAlreadyMounted)
	}

	ctx = log.WithAttrs(context.WithoutCancel(ctx), slog.String("header", h.id))
	ctx, cancel := context.WithCancel(ctx)

	h.sessionState = DeriveSession(ctx, h.session)

	if h.notifier != nil {
		unsubscribe, err := h.notifier.Subscribe(ctx, func() {
			h.refreshSession(ctx)
		})
		if err != nil {
			cancel()
			return errors.Wrap(err, "could not subscribe to session changes")
		}

		h.unsubscribe = unsubscribe
	}

	h.cancel = cancel
	h.mounted = true

	h.fetching.Add(1)
	go h.fetchJournals(ctx)

	return nil
}

// Unmount releases the pending timer, the session subscription and
// the in-flight fetch. It is safe to call more than once.
func (h *Header) Unmount() {
	h.mu.Lock()

	if h.unmounted {
		h.mu.Unlock()
		return
	}

	h.unmounted = true

	cancel := h.cancel
	unsubscribe := h.unsubscribe

	h.mu.Unlock()

	h.machine.Dispose()

	if cancel != nil {
		cancel()
	}

	// The subscription waits for its callback, which takes the lock
	if unsubscribe != nil {
		unsubscribe()
	}

	h.fetching.Wait()

	close(h.done)
}

// Done is closed once the header is unmounted.
func (h *Header) Done() <-chan struct{} {
	return h.done
}

func (h *Header) Toggle(id string) error {
	if err := h.checkMounted(); err != nil {
		return errors.WithStack(err)
	}

	entry, err := h.menu.Entry(id)
	if err != nil {
		return errors.Wrapf(ErrUnknownEntry, "entry '%s'", id)
	}

	if !entry.IsDropdown() {
		return errors.Wrapf(ErrNotDropdown, "entry '%s'", id)
	}

	h.metrics.Event("toggle")
	h.machine.Toggle(id)

	return nil
}

func (h *Header) HoverEnter() error {
	if err := h.checkMounted(); err != nil {
		return errors.WithStack(err)
	}

	h.metrics.Event("hover_enter")
	h.machine.HoverEnter()

	return nil
}

func (h *Header) HoverLeave() error {
	if err := h.checkMounted(); err != nil {
		return errors.WithStack(err)
	}

	h.metrics.Event("hover_leave")
	h.machine.HoverLeave()

	return nil
}

// Activate closes every menu, it must run before the navigation
// to the activated link.
func (h *Header) Activate() error {
	if err := h.checkMounted(); err != nil {
		return errors.WithStack(err)
	}

	h.metrics.Event("link_activated")
	h.machine.LinkActivated()

	return nil
}

func (h *Header) ToggleMobileMenu() error {
	if err := h.checkMounted(); err != nil {
		return errors.WithStack(err)
	}

	h.metrics.Event("mobile_toggle")
	h.machine.ToggleMobileMenu()

	return nil
}

// Navigated records the current path and derives the session state
// again.
func (h *Header) Navigated(ctx context.Context, path string) error {
	if err := h.checkMounted(); err != nil {
		return errors.WithStack(err)
	}

	state := DeriveSession(ctx, h.session)

	h.mu.Lock()
	if h.unmounted {
		h.mu.Unlock()
		return errors.WithStack(ErrUnmounted)
	}

	changed := h.path != path || h.sessionState != state
	h.path = path
	h.sessionState = state
	h.mu.Unlock()

	if changed {
		h.notify()
	}

	return nil
}

func (h *Header) Snapshot() Snapshot {
	interaction := h.machine.State()

	h.mu.Lock()
	defer h.mu.Unlock()

	m := h.menu
	if h.journals != nil {
		m = m.WithJournals(h.journals)
	}

	return Snapshot{
		ID:          h.id,
		Path:        h.path,
		Menu:        m,
		Interaction: interaction,
		Session:     h.sessionState,
		Fetch:       h.fetch,
	}
}

// Changes returns a channel receiving a value after state changes
// until ctx is done. Bursts of changes are coalesced.
func (h *Header) Changes(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)

	h.listeners.Store(ch, struct{}{})

	go func() {
		select {
		case <-ctx.Done():
		case <-h.done:
		}

		h.listeners.Delete(ch)
	}()

	return ch
}

func (h *Header) notify() {
	h.listeners.Range(func(ch chan struct{}, _ struct{}) bool {
		select {
		case ch <- struct{}{}:
		default:
		}

		return true
	})
}

func (h *Header) checkMounted() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unmounted || !h.mounted {
		return errors.WithStack(ErrUnmounted)
	}

	return nil
}

func (h *Header) refreshSession(ctx context.Context) {
	state := DeriveSession(ctx, h.session)

	h.mu.Lock()
	if h.unmounted {
		h.mu.Unlock()
		return
	}

	changed := h.sessionState != state
	h.sessionState = state
	h.mu.Unlock()

	if changed {
		slog.DebugContext(ctx, "session state changed", slog.Bool("loggedIn", state.LoggedIn))
		h.notify()
	}
}

func (h *Header) fetchJournals(ctx context.Context) {
	defer h.fetching.Done()

	cards, err := h.loader.Load(ctx)

	h.mu.Lock()

	if h.unmounted {
		h.mu.Unlock()
		return
	}

	if err != nil {
		slog.ErrorContext(ctx, "could not fetch journals", log.Error(errors.WithStack(err)))
		h.fetch = FetchStatus{State: FetchFailed, Err: err}
		h.mu.Unlock()
		h.metrics.Fetch(FetchFailed.String())
		h.notify()
		return
	}

	h.journals = cards
	h.fetch = FetchStatus{State: FetchLoaded}
	h.mu.Unlock()

	h.metrics.Fetch(FetchLoaded.String())
	h.notify()
}
