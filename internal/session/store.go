package session

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

var ErrClosed = errors.New("store closed")

type Key string

const (
	// KeyToken holds the login token indicator
	KeyToken Key = "token"
	// KeyUser holds the cached JSON user profile
	KeyUser Key = "user"
)

// Change notifies a mutation of a session value.
type Change struct {
	SessionID string
	Key       Key
	Origin    string
}

// Store is a key-value store scoped by session id.
// Every mutation is tagged with the origin that performed it,
// watchers are never notified of their own origin's mutations.
type Store interface {
	io.Closer

	Get(ctx context.Context, sessionID string, key Key) (string, bool, error)
	Set(ctx context.Context, sessionID string, key Key, value string, origin string) error
	Delete(ctx context.Context, sessionID string, key Key, origin string) error

	// Watch returns a channel of changes of the given session performed
	// by other origins. The channel is closed when ctx is done.
	Watch(ctx context.Context, sessionID string, origin string) (<-chan Change, error)
}
