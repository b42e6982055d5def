package header

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bornholm/masthead/pkg/log"
	"github.com/pkg/errors"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

// SessionState is the display state derived from the session store.
// It is never used for access control.
type SessionState struct {
	LoggedIn    bool
	DisplayName string
}

type SessionSource interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
}

type SessionNotifier interface {
	// Subscribe calls fn on every change made by another context
	// until the returned function is called.
	Subscribe(ctx context.Context, fn func()) (func(), error)
}

type profile struct {
	FirstName string `json:"firstName"`
}

// DeriveSession reads the token and cached profile of the session.
// Read errors degrade to a logged out state, an unreadable profile
// to a logged in state without display name.
func DeriveSession(ctx context.Context, source SessionSource) SessionState {
	_, hasToken, err := source.Lookup(ctx, KeyToken)
	if err != nil {
		slog.ErrorContext(ctx, "could not read session token", log.Error(errors.WithStack(err)))
		return SessionState{}
	}

	if !hasToken {
		return SessionState{}
	}

	state := SessionState{LoggedIn: true}

	raw, hasUser, err := source.Lookup(ctx, KeyUser)
	if err != nil {
		slog.ErrorContext(ctx, "could not read session user", log.Error(errors.WithStack(err)))
		return state
	}

	if !hasUser {
		return state
	}

	var p profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		slog.WarnContext(ctx, "could not parse session user", log.Error(errors.WithStack(err)))
		return state
	}

	state.DisplayName = p.FirstName

	return state
}
