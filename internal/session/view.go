package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// View is a read-only window on a single session, as seen
// by a given origin.
type View struct {
	store     Store
	sessionID string
	origin    string
}

func NewView(store Store, sessionID string, origin string) *View {
	return &View{
		store:     store,
		sessionID: sessionID,
		origin:    origin,
	}
}

func (v *View) SessionID() string {
	return v.sessionID
}

func (v *View) Lookup(ctx context.Context, key string) (string, bool, error) {
	value, exists, err := v.store.Get(ctx, v.sessionID, Key(key))
	if err != nil {
		return "", false, errors.WithStack(err)
	}

	return value, exists, nil
}

// Subscribe calls fn for every change performed by another origin
// until the returned function is called or ctx is done.
func (v *View) Subscribe(ctx context.Context, fn func()) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	changes, err := v.store.Watch(ctx, v.sessionID, v.origin)
	if err != nil {
		cancel()
		return nil, errors.WithStack(err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}

				fn()
			}
		}
	}()

	var once sync.Once

	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}, nil
}
