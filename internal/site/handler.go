package site

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bornholm/masthead/internal/header"
	"github.com/bornholm/masthead/internal/metrics"
	"github.com/bornholm/masthead/internal/ratelimit"
	"github.com/bornholm/masthead/internal/ui"
	"github.com/bornholm/masthead/pkg/log"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

const (
	headerParam      = "header"
	viewportHeader   = "Sec-CH-Viewport-Width"
	defaultPageTitle = "ELK Education"

	// Widths above are treated as unknown
	maxViewportWidth = 100000
)

// Handler serves the site pages and the header endpoints.
type Handler struct {
	mux *http.ServeMux

	registry    *header.Registry
	renderer    *header.Renderer
	limiter     *ratelimit.RateLimiter
	metrics     *metrics.Collectors
	datastarURL string
	keepAlive   time.Duration
	attachWait  time.Duration
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type Options struct {
	SessionStore sessions.Store
	SessionName  string
	NewSessionID func() string
	RateLimiter  *ratelimit.RateLimiter
	Metrics      *metrics.Collectors
	DatastarURL  string
	KeepAlive    time.Duration
	AttachWait   time.Duration
}

type OptionFunc func(opts *Options)

func WithSessionStore(store sessions.Store, name string) OptionFunc {
	return func(opts *Options) {
		opts.SessionStore = store
		opts.SessionName = name
	}
}

func WithSessionIDGenerator(fn func() string) OptionFunc {
	return func(opts *Options) {
		opts.NewSessionID = fn
	}
}

func WithRateLimiter(limiter *ratelimit.RateLimiter) OptionFunc {
	return func(opts *Options) {
		opts.RateLimiter = limiter
	}
}

func WithMetrics(collectors *metrics.Collectors) OptionFunc {
	return func(opts *Options) {
		opts.Metrics = collectors
	}
}

func WithDatastarURL(url string) OptionFunc {
	return func(opts *Options) {
		opts.DatastarURL = url
	}
}

func WithKeepAlive(interval time.Duration) OptionFunc {
	return func(opts *Options) {
		opts.KeepAlive = interval
	}
}

// WithAttachWait sets how long a stream waits for another stream of the
// same header to end before a new header is mounted for it.
func WithAttachWait(wait time.Duration) OptionFunc {
	return func(opts *Options) {
		opts.AttachWait = wait
	}
}

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		SessionName: "masthead_session",
		NewSessionID: func() string {
			return xid.New().String()
		},
		RateLimiter: ratelimit.New(10, 20),
		KeepAlive:   25 * time.Second,
		AttachWait:  2 * time.Second,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	if opts.SessionStore == nil {
		opts.SessionStore = sessions.NewCookieStore([]byte(xid.New().String()))
	}

	return opts
}

func NewHandler(registry *header.Registry, renderer *header.Renderer, funcs ...OptionFunc) *Handler {
	opts := NewOptions(funcs...)

	h := &Handler{
		mux:         &http.ServeMux{},
		registry:    registry,
		renderer:    renderer,
		limiter:     opts.RateLimiter,
		metrics:     opts.Metrics,
		datastarURL: opts.DatastarURL,
		keepAlive:   opts.KeepAlive,
		attachWait:  opts.AttachWait,
	}

	withSession := SessionMiddleware(opts.SessionStore, opts.SessionName, opts.NewSessionID)

	limited := h.limiter.Middleware(func(r *http.Request) (string, error) {
		sessionID, err := ContextSessionID(r.Context())
		if err != nil {
			return "", errors.WithStack(err)
		}

		return sessionID, nil
	})

	event := func(fn func(hdr *header.Header, r *http.Request) error) http.Handler {
		return withSession(limited(h.handleEvent(fn)))
	}

	h.mux.Handle("GET /header/{id}/stream", withSession(http.HandlerFunc(h.serveStream)))
	h.mux.Handle("GET /header/{id}/go", withSession(http.HandlerFunc(h.handleActivate)))
	h.mux.Handle("DELETE /header/{id}", withSession(http.HandlerFunc(h.handleUnmount)))

	h.mux.Handle("POST /header/{id}/toggle/{entry}", event(func(hdr *header.Header, r *http.Request) error {
		return hdr.Toggle(r.PathValue("entry"))
	}))
	h.mux.Handle("POST /header/{id}/hover/enter", event(func(hdr *header.Header, r *http.Request) error {
		return hdr.HoverEnter()
	}))
	h.mux.Handle("POST /header/{id}/hover/leave", event(func(hdr *header.Header, r *http.Request) error {
		return hdr.HoverLeave()
	}))
	h.mux.Handle("POST /header/{id}/mobile", event(func(hdr *header.Header, r *http.Request) error {
		return hdr.ToggleMobileMenu()
	}))

	h.mux.Handle("GET /{path...}", withSession(http.HandlerFunc(h.servePage)))

	return h
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := ContextSessionID(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not retrieve session id", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	hdr, err := h.registry.Resolve(ctx, r.URL.Query().Get(headerParam), sessionID)
	if err != nil {
		slog.ErrorContext(ctx, "could not mount header", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := hdr.Navigated(ctx, r.URL.Path); err != nil {
		slog.ErrorContext(ctx, "could not signal navigation", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	markup, err := h.renderer.RenderHTML(ctx, hdr.Snapshot(), viewportWidth(r))
	if err != nil {
		slog.ErrorContext(ctx, "could not render header", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	data := ui.PageTemplateData{
		HeadTemplateData: ui.HeadTemplateData{
			PageTitle:   pageTitle(r.URL.Path),
			DatastarURL: h.datastarURL,
			RenderedAt:  time.Now(),
		},
		Header:    markup,
		StreamURL: header.StreamURL(hdr.ID()),
		Path:      r.URL.Path,
	}

	w.Header().Set("Accept-CH", viewportHeader)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := ui.RenderPage(w, data); err != nil {
		slog.ErrorContext(ctx, "could not execute template", log.Error(errors.WithStack(err)))
		return
	}
}

func (h *Handler) handleEvent(fn func(hdr *header.Header, r *http.Request) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		hdr, ok := h.lookupHeader(w, r)
		if !ok {
			return
		}

		if err := fn(hdr, r); err != nil {
			switch {
			case errors.Is(err, header.ErrUnknownEntry), errors.Is(err, header.ErrNotDropdown):
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			case errors.Is(err, header.ErrUnmounted):
				http.Error(w, http.StatusText(http.StatusGone), http.StatusGone)
			default:
				slog.ErrorContext(ctx, "could not handle header event", log.Error(errors.WithStack(err)))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}

			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// handleActivate closes the header menus then redirects to the
// activated link. A missing header does not prevent the navigation.
func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := parseTarget(r.URL.Query().Get("to"))
	if err != nil {
		slog.WarnContext(ctx, "invalid navigation target", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	sessionID, err := ContextSessionID(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not retrieve session id", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")

	hdr, err := h.registry.Get(id, sessionID)
	switch {
	case err == nil:
		if err := hdr.Activate(); err != nil && !errors.Is(err, header.ErrUnmounted) {
			slog.ErrorContext(ctx, "could not activate link", log.Error(errors.WithStack(err)))
		}

		query := target.Query()
		query.Set(headerParam, id)
		target.RawQuery = query.Encode()

	case errors.Is(err, header.ErrNotFound):
		slog.DebugContext(ctx, "activated link of an unknown header", slog.String("header", id))

	default:
		slog.ErrorContext(ctx, "could not retrieve header", log.Error(errors.WithStack(err)))
	}

	http.Redirect(w, r, target.String(), http.StatusSeeOther)
}

func (h *Handler) handleUnmount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := ContextSessionID(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not retrieve session id", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.registry.Unmount(r.PathValue("id"), sessionID); err != nil {
		if errors.Is(err, header.ErrNotFound) {
			http.NotFound(w, r)
			return
		}

		slog.ErrorContext(ctx, "could not unmount header", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lookupHeader(w http.ResponseWriter, r *http.Request) (*header.Header, bool) {
	ctx := r.Context()

	sessionID, err := ContextSessionID(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not retrieve session id", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}

	hdr, err := h.registry.Get(r.PathValue("id"), sessionID)
	if err != nil {
		if errors.Is(err, header.ErrNotFound) {
			http.NotFound(w, r)
			return nil, false
		}

		slog.ErrorContext(ctx, "could not retrieve header", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}

	return hdr, true
}

// parseTarget accepts site-local paths only.
func parseTarget(raw string) (*url.URL, error) {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return nil, errors.Errorf("target '%s' is not a local path", raw)
	}

	target, err := url.Parse(raw)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if target.Scheme != "" || target.Host != "" {
		return nil, errors.Errorf("target '%s' is not a local path", raw)
	}

	return target, nil
}

func viewportWidth(r *http.Request) int {
	raw := r.Header.Get(viewportHeader)
	if raw == "" {
		return 0
	}

	width, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(width > 0 && width <= maxViewportWidth) {
		return 0
	}

	return int(width)
}

func pageTitle(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return defaultPageTitle
	}

	return defaultPageTitle + " | " + path
}

var _ http.Handler = &Handler{}
