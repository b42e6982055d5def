package header

import (
	"context"
	"testing"
	"time"

	"github.com/bornholm/masthead/internal/content"
	"github.com/bornholm/masthead/internal/menu"
	"github.com/pkg/errors"
)

func listing() []content.Category {
	return []content.Category{
		{
			Title: "Engineering",
			Journals: []content.Journal{
				{Title: "Applied Mech Review", PrintISSN: "1234-5678"},
			},
		},
	}
}

func staticSource(categories []content.Category) content.Source {
	return content.SourceFunc(func(ctx context.Context) ([]content.Category, error) {
		return categories, nil
	})
}

func waitChange(t *testing.T, changes <-chan struct{}) {
	t.Helper()

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for header change")
	}
}

func journalCards(s Snapshot) menu.JournalsPayload {
	entry, err := s.Menu.Entry(menu.JournalsEntryID)
	if err != nil {
		return nil
	}

	cards, _ := entry.Payload.(menu.JournalsPayload)

	return cards
}

func TestHeaderMountLoadsJournals(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test", staticSource(listing()), &fakeSession{})

	changes := h.Changes(ctx)

	if e, g := FetchPending, h.Snapshot().Fetch.State; e != g {
		t.Errorf("h.Snapshot().Fetch.State: expected '%v', got '%v'", e, g)
	}

	if err := h.Mount(ctx); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer h.Unmount()

	waitChange(t, changes)

	snapshot := h.Snapshot()

	if e, g := FetchLoaded, snapshot.Fetch.State; e != g {
		t.Errorf("snapshot.Fetch.State: expected '%v', got '%v'", e, g)
	}

	cards := journalCards(snapshot)

	if e, g := 1, len(cards); e != g {
		t.Fatalf("len(cards): expected '%v', got '%v'", e, g)
	}

	if e, g := "/journals/applied-mech-review", cards[0].Target; e != g {
		t.Errorf("cards[0].Target: expected '%v', got '%v'", e, g)
	}

	if err := h.Mount(ctx); !errors.Is(err, ErrAlreadyMounted) {
		t.Errorf("err: expected '%v', got '%v'", ErrAlreadyMounted, err)
	}
}

func TestHeaderFetchFailureIsolation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failing := content.SourceFunc(func(ctx context.Context) ([]content.Category, error) {
		return nil, errors.New("content service unavailable")
	})

	h := New("test", failing, &fakeSession{values: map[string]string{KeyToken: "t"}})

	changes := h.Changes(ctx)

	if err := h.Mount(ctx); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer h.Unmount()

	waitChange(t, changes)

	snapshot := h.Snapshot()

	if e, g := FetchFailed, snapshot.Fetch.State; e != g {
		t.Errorf("snapshot.Fetch.State: expected '%v', got '%v'", e, g)
	}

	if snapshot.Fetch.Err == nil {
		t.Errorf("snapshot.Fetch.Err: expected error, got nil")
	}

	if e, g := 0, len(journalCards(snapshot)); e != g {
		t.Errorf("len(cards): expected '%v', got '%v'", e, g)
	}

	if !snapshot.Session.LoggedIn {
		t.Errorf("snapshot.Session.LoggedIn: expected true, got false")
	}

	if err := h.Toggle(menu.JournalsEntryID); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := menu.JournalsEntryID, h.Snapshot().Interaction.OpenDropdownID; e != g {
		t.Errorf("OpenDropdownID: expected '%v', got '%v'", e, g)
	}
}

func TestHeaderNoMutationAfterUnmount(t *testing.T) {
	ctx := context.Background()

	started := make(chan struct{})

	blocking := content.SourceFunc(func(ctx context.Context) ([]content.Category, error) {
		close(started)
		<-ctx.Done()
		return listing(), nil
	})

	session := &fakeSession{}
	scheduler := &manualScheduler{}

	h := New("test", blocking, session, WithNotifier(session), WithMachineOptions(WithScheduler(scheduler)))

	if err := h.Mount(ctx); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	<-started

	if err := h.Toggle("about"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := h.HoverLeave(); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	h.Unmount()
	h.Unmount()

	select {
	case <-h.Done():
	default:
		t.Errorf("h.Done(): expected closed channel")
	}

	session.Set(KeyToken, "t")
	scheduler.Advance(time.Second)
	scheduler.FireStale()

	snapshot := h.Snapshot()

	if e, g := FetchPending, snapshot.Fetch.State; e != g {
		t.Errorf("snapshot.Fetch.State: expected '%v', got '%v'", e, g)
	}

	if e, g := 0, len(journalCards(snapshot)); e != g {
		t.Errorf("len(cards): expected '%v', got '%v'", e, g)
	}

	if snapshot.Session.LoggedIn {
		t.Errorf("snapshot.Session.LoggedIn: expected false, got true")
	}

	if e, g := "about", snapshot.Interaction.OpenDropdownID; e != g {
		t.Errorf("OpenDropdownID: expected '%v', got '%v'", e, g)
	}

	if e, g := 0, session.Subscribers(); e != g {
		t.Errorf("session.Subscribers(): expected '%v', got '%v'", e, g)
	}

	if err := h.Toggle("about"); !errors.Is(err, ErrUnmounted) {
		t.Errorf("err: expected '%v', got '%v'", ErrUnmounted, err)
	}

	if err := h.Navigated(ctx, "/"); !errors.Is(err, ErrUnmounted) {
		t.Errorf("err: expected '%v', got '%v'", ErrUnmounted, err)
	}
}

func TestHeaderSessionSync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := &fakeSession{}

	h := New("test", staticSource(nil), session, WithNotifier(session))

	if err := h.Mount(ctx); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer h.Unmount()

	if h.Snapshot().Session.LoggedIn {
		t.Errorf("Session.LoggedIn: expected false, got true")
	}

	// Another tab logs in
	session.Set(KeyToken, "t")
	session.Set(KeyUser, `{"firstName":"Ana"}`)

	if e, g := (SessionState{LoggedIn: true, DisplayName: "Ana"}), h.Snapshot().Session; e != g {
		t.Errorf("Session: expected '%+v', got '%+v'", e, g)
	}

	// Another tab logs out
	session.Delete(KeyToken)

	if e, g := (SessionState{}), h.Snapshot().Session; e != g {
		t.Errorf("Session: expected '%+v', got '%+v'", e, g)
	}
}

func TestHeaderNavigated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// No notifier, the session is only read on navigation
	session := &fakeSession{}

	h := New("test", staticSource(nil), session)

	if err := h.Mount(ctx); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer h.Unmount()

	session.Set(KeyToken, "t")

	if h.Snapshot().Session.LoggedIn {
		t.Errorf("Session.LoggedIn: expected false before navigation, got true")
	}

	if err := h.ToggleMobileMenu(); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := h.Toggle("authors"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := h.Activate(); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if err := h.Navigated(ctx, "/resources"); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	snapshot := h.Snapshot()

	if !snapshot.Session.LoggedIn {
		t.Errorf("Session.LoggedIn: expected true after navigation, got false")
	}

	if e, g := "/resources", snapshot.Path; e != g {
		t.Errorf("snapshot.Path: expected '%v', got '%v'", e, g)
	}

	if e, g := (InteractionState{}), snapshot.Interaction; e != g {
		t.Errorf("snapshot.Interaction: expected '%+v', got '%+v'", e, g)
	}
}

func TestHeaderToggleErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test", staticSource(nil), &fakeSession{})

	if err := h.Toggle("about"); !errors.Is(err, ErrUnmounted) {
		t.Errorf("err: expected '%v', got '%v'", ErrUnmounted, err)
	}

	if err := h.Mount(ctx); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	defer h.Unmount()

	if err := h.Toggle("unknown"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("err: expected '%v', got '%v'", ErrUnknownEntry, err)
	}

	if err := h.Toggle("home"); !errors.Is(err, ErrNotDropdown) {
		t.Errorf("err: expected '%v', got '%v'", ErrNotDropdown, err)
	}
}
