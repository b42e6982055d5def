package site

import (
	"log/slog"
	"net/http"

	"github.com/bornholm/masthead/pkg/log"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const sessionIDKey = "sid"

// SessionMiddleware assigns a session id to every visitor and stores
// it in a signed cookie.
func SessionMiddleware(store sessions.Store, name string, newSessionID func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess, err := store.Get(r, name)
			if err != nil {
				// An invalid cookie, for example signed with a previous key,
				// is replaced by a new session
				slog.WarnContext(ctx, "could not decode session cookie", log.Error(errors.WithStack(err)))
			}

			sessionID, _ := sess.Values[sessionIDKey].(string)
			if sessionID == "" {
				sessionID = newSessionID()
				sess.Values[sessionIDKey] = sessionID

				if err := sess.Save(r, w); err != nil {
					slog.ErrorContext(ctx, "could not save session", log.Error(errors.WithStack(err)))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}

			ctx = setContextSessionID(ctx, sessionID)
			ctx = log.WithAttrs(ctx, slog.String("session", sessionID))

			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}
