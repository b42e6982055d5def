package testsuite

import (
	"context"
	"testing"
	"time"

	"github.com/bornholm/masthead/internal/session"
	"github.com/pkg/errors"
)

type storeTestCase struct {
	Name string
	Run  func(ctx context.Context, store session.Store) error
}

var storeTestCases = []storeTestCase{
	{
		Name: "SetAndGet",
		Run:  SetAndGet,
	},
	{
		Name: "Delete",
		Run:  Delete,
	},
	{
		Name: "SessionIsolation",
		Run:  SessionIsolation,
	},
	{
		Name: "WatchOtherOrigin",
		Run:  WatchOtherOrigin,
	},
	{
		Name: "WatchIgnoresOwnOrigin",
		Run:  WatchIgnoresOwnOrigin,
	},
	{
		Name: "WatchClosedOnCancel",
		Run:  WatchClosedOnCancel,
	},
}

// notificationDelay bounds the time a store may take to notify
// its watchers of an external change.
const notificationDelay = 2 * time.Second

func TestStore(t *testing.T, storeType session.Type, opts any) {
	t.Logf("Using session store '%s'", storeType)

	for _, tc := range storeTestCases {
		t.Run(tc.Name, func(t *testing.T) {
			store, err := session.New(storeType, opts)
			if err != nil {
				t.Fatalf("%+v", errors.WithStack(err))
			}

			defer store.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := tc.Run(ctx, store); err != nil {
				t.Errorf("%+v", errors.WithStack(err))
			}
		})
	}
}

func SetAndGet(ctx context.Context, store session.Store) error {
	sessionID := newSessionID("set-and-get")

	if _, exists, err := store.Get(ctx, sessionID, session.KeyToken); err != nil {
		return errors.WithStack(err)
	} else if exists {
		return errors.New("token should not exist yet")
	}

	if err := store.Set(ctx, sessionID, session.KeyToken, "secret", "test"); err != nil {
		return errors.WithStack(err)
	}

	value, exists, err := store.Get(ctx, sessionID, session.KeyToken)
	if err != nil {
		return errors.WithStack(err)
	}

	if !exists {
		return errors.New("token should exist")
	}

	if e, g := "secret", value; e != g {
		return errors.Errorf("value: expected '%v', got '%v'", e, g)
	}

	if err := store.Set(ctx, sessionID, session.KeyToken, "other", "test"); err != nil {
		return errors.WithStack(err)
	}

	value, _, err = store.Get(ctx, sessionID, session.KeyToken)
	if err != nil {
		return errors.WithStack(err)
	}

	if e, g := "other", value; e != g {
		return errors.Errorf("value: expected '%v', got '%v'", e, g)
	}

	return nil
}

func Delete(ctx context.Context, store session.Store) error {
	sessionID := newSessionID("delete")

	if err := store.Set(ctx, sessionID, session.KeyUser, `{"firstName":"Ana"}`, "test"); err != nil {
		return errors.WithStack(err)
	}

	if err := store.Delete(ctx, sessionID, session.KeyUser, "test"); err != nil {
		return errors.WithStack(err)
	}

	if _, exists, err := store.Get(ctx, sessionID, session.KeyUser); err != nil {
		return errors.WithStack(err)
	} else if exists {
		return errors.New("user should have been deleted")
	}

	if err := store.Delete(ctx, sessionID, session.KeyUser, "test"); err != nil {
		return errors.Wrap(err, "deleting a missing key should not fail")
	}

	return nil
}

func SessionIsolation(ctx context.Context, store session.Store) error {
	first := newSessionID("isolation-first")
	second := newSessionID("isolation-second")

	if err := store.Set(ctx, first, session.KeyToken, "first", "test"); err != nil {
		return errors.WithStack(err)
	}

	if _, exists, err := store.Get(ctx, second, session.KeyToken); err != nil {
		return errors.WithStack(err)
	} else if exists {
		return errors.New("token should not leak to another session")
	}

	return nil
}

func WatchOtherOrigin(ctx context.Context, store session.Store) error {
	sessionID := newSessionID("watch-other")

	changes, err := store.Watch(ctx, sessionID, "tab-1")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := store.Set(ctx, sessionID, session.KeyToken, "secret", "tab-2"); err != nil {
		return errors.WithStack(err)
	}

	select {
	case change := <-changes:
		if e, g := session.KeyToken, change.Key; e != g {
			return errors.Errorf("change.Key: expected '%v', got '%v'", e, g)
		}

		if e, g := "tab-2", change.Origin; e != g {
			return errors.Errorf("change.Origin: expected '%v', got '%v'", e, g)
		}
	case <-time.After(notificationDelay):
		return errors.New("watcher was not notified")
	}

	if err := store.Delete(ctx, sessionID, session.KeyToken, "tab-2"); err != nil {
		return errors.WithStack(err)
	}

	select {
	case <-changes:
	case <-time.After(notificationDelay):
		return errors.New("watcher was not notified of the deletion")
	}

	return nil
}

func WatchIgnoresOwnOrigin(ctx context.Context, store session.Store) error {
	sessionID := newSessionID("watch-own")

	changes, err := store.Watch(ctx, sessionID, "tab-1")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := store.Set(ctx, sessionID, session.KeyToken, "secret", "tab-1"); err != nil {
		return errors.WithStack(err)
	}

	select {
	case change := <-changes:
		return errors.Errorf("unexpected change notification from own origin: %+v", change)
	case <-time.After(notificationDelay / 4):
	}

	return nil
}

func WatchClosedOnCancel(ctx context.Context, store session.Store) error {
	sessionID := newSessionID("watch-cancel")

	watchCtx, cancel := context.WithCancel(ctx)

	changes, err := store.Watch(watchCtx, sessionID, "tab-1")
	if err != nil {
		cancel()
		return errors.WithStack(err)
	}

	cancel()

	timeout := time.After(notificationDelay)

	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return nil
			}
		case <-timeout:
			return errors.New("watch channel was not closed")
		}
	}
}

func newSessionID(prefix string) string {
	return prefix + "-" + time.Now().Format("150405.000000000")
}
