package site

import (
	"context"

	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/header"
	"github.com/bornholm/masthead/internal/session"
)

// NewHeaderFactory creates headers reading the session store. The header
// id is the origin of the session view, the header is notified of
// the changes written by every other origin.
func NewHeaderFactory(store session.Store, source content.Source, funcs ...header.OptionFunc) header.Factory {
	return func(ctx context.Context, id string, sessionID string) (*header.Header, error) {
		view := session.NewView(store, sessionID, id)

		opts := append([]header.OptionFunc{header.WithNotifier(view)}, funcs...)

		return header.New(id, source, view, opts...), nil
	}
}
