package site

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bornholm/masthead/internal/header"
	"github.com/bornholm/masthead/pkg/log"
	"github.com/pkg/errors"
	"github.com/starfederation/datastar-go/datastar"
)

// serveStream patches the header element after every change of its
// state until the client goes away or the header is unmounted.
func (h *Handler) serveStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, err := ContextSessionID(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not retrieve session id", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// The first patch replaces the whole element, a replacement header
	// takes over the actions of the page
	hdr, release, err := h.registry.Attach(ctx, r.PathValue("id"), sessionID, h.attachWait)
	if err != nil {
		if errors.Is(err, header.ErrNotFound) {
			http.NotFound(w, r)
			return
		}

		if ctx.Err() != nil {
			return
		}

		slog.ErrorContext(ctx, "could not attach header", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	defer release()

	ctx = log.WithAttrs(ctx, slog.String("header", hdr.ID()))

	changes := hdr.Changes(ctx)
	width := viewportWidth(r)

	closeStream := h.metrics.StreamOpened()
	defer closeStream()

	sse := datastar.NewSSE(w, r)

	patch := func() error {
		markup, err := h.renderer.RenderHTML(ctx, hdr.Snapshot(), width)
		if err != nil {
			return errors.WithStack(err)
		}

		if err := sse.PatchElements(string(markup), datastar.WithSelector(header.Selector), datastar.WithMode(datastar.ElementPatchModeOuter)); err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	// The page may have been rendered before the journals were loaded
	if err := patch(); err != nil {
		slog.ErrorContext(ctx, "could not patch header", log.Error(errors.WithStack(err)))
		return
	}

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return

		case <-hdr.Done():
			return

		case <-keepAlive.C:
			// An open stream keeps its header from being reaped
			if _, err := h.registry.Get(hdr.ID(), sessionID); err != nil {
				return
			}

			if err := sse.PatchSignals([]byte(`{}`)); err != nil {
				slog.DebugContext(ctx, "could not send keep-alive", log.Error(errors.WithStack(err)))
				return
			}

		case <-changes:
			if err := patch(); err != nil {
				slog.DebugContext(ctx, "could not patch header", log.Error(errors.WithStack(err)))
				return
			}
		}
	}
}
