package content

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bornholm/masthead/pkg/log"
	"github.com/pkg/errors"
)

// Handler exposes a source as the content service
// consumed by the header.
type Handler struct {
	source Source
	mux    *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveCategoriesWithJournals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.source.CategoriesWithJournals(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "could not retrieve categories", log.Error(errors.WithStack(err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if categories == nil {
		categories = []Category{}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(categories); err != nil {
		slog.ErrorContext(ctx, "could not encode categories", log.Error(errors.WithStack(err)))
	}
}

const CategoriesWithJournalsPath = "/api/journal-categories/with-journals"

func NewHandler(source Source) *Handler {
	h := &Handler{
		source: source,
		mux:    &http.ServeMux{},
	}

	h.mux.HandleFunc("GET "+CategoriesWithJournalsPath, h.serveCategoriesWithJournals)

	return h
}

var _ http.Handler = &Handler{}
