package header

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bornholm/masthead/internal/metrics"
	"github.com/bornholm/masthead/internal/syncx"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

const DefaultIdleTimeout = 5 * time.Minute

var ErrNotFound = errors.New("header not found")

// Factory creates an unmounted header for the given session.
type Factory func(ctx context.Context, id string, sessionID string) (*Header, error)

type instance struct {
	header    *Header
	sessionID string
	lastSeen  atomic.Int64

	// lease is held by the event stream rendering the header
	lease chan struct{}
}

func (i *instance) touch(now time.Time) {
	i.lastSeen.Store(now.UnixNano())
}

// Registry tracks the mounted headers of every browser tab.
type Registry struct {
	factory     Factory
	idleTimeout time.Duration
	now         func() time.Time
	metrics     *metrics.Collectors

	instances syncx.Map[string, *instance]
}

type RegistryOptions struct {
	IdleTimeout time.Duration
	Now         func() time.Time
	Metrics     *metrics.Collectors
}

type RegistryOptionFunc func(opts *RegistryOptions)

func WithIdleTimeout(timeout time.Duration) RegistryOptionFunc {
	return func(opts *RegistryOptions) {
		opts.IdleTimeout = timeout
	}
}

func WithClock(now func() time.Time) RegistryOptionFunc {
	return func(opts *RegistryOptions) {
		opts.Now = now
	}
}

func WithRegistryMetrics(collectors *metrics.Collectors) RegistryOptionFunc {
	return func(opts *RegistryOptions) {
		opts.Metrics = collectors
	}
}

func NewRegistry(factory Factory, funcs ...RegistryOptionFunc) *Registry {
	opts := &RegistryOptions{
		IdleTimeout: DefaultIdleTimeout,
		Now:         time.Now,
	}

	for _, fn := range funcs {
		fn(opts)
	}

	return &Registry{
		factory:     factory,
		idleTimeout: opts.IdleTimeout,
		now:         opts.Now,
		metrics:     opts.Metrics,
	}
}

// Mount creates and mounts a new header owned by the session.
func (r *Registry) Mount(ctx context.Context, sessionID string) (*Header, error) {
	id := xid.New().String()

	h, err := r.factory(ctx, id, sessionID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := h.Mount(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	inst := &instance{
		header:    h,
		sessionID: sessionID,
		lease:     make(chan struct{}, 1),
	}
	inst.touch(r.now())

	r.instances.Store(id, inst)
	r.metrics.Mounted()

	slog.DebugContext(ctx, "header mounted", slog.String("header", id))

	return h, nil
}

// Get returns the header with the given id if it is owned by the session
// and marks it as active.
func (r *Registry) Get(id string, sessionID string) (*Header, error) {
	inst, exists := r.instances.Load(id)
	if !exists || inst.sessionID != sessionID {
		return nil, errors.Wrapf(ErrNotFound, "header '%s'", id)
	}

	inst.touch(r.now())

	return inst.header, nil
}

// Resolve returns the header of the session with the given id or mounts
// a new one.
func (r *Registry) Resolve(ctx context.Context, id string, sessionID string) (*Header, error) {
	if id != "" {
		h, err := r.Get(id, sessionID)
		if err == nil {
			return h, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, errors.WithStack(err)
		}
	}

	h, err := r.Mount(ctx, sessionID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return h, nil
}

// Attach gives the caller the exclusive rendering of the header with the
// given id. When another caller still holds it after wait (a duplicated
// browser tab carries the same header id), a new header is mounted for
// the session and attached instead. The returned func releases the
// header.
func (r *Registry) Attach(ctx context.Context, id string, sessionID string, wait time.Duration) (*Header, func(), error) {
	inst, exists := r.instances.Load(id)
	if !exists || inst.sessionID != sessionID {
		return nil, nil, errors.Wrapf(ErrNotFound, "header '%s'", id)
	}

	inst.touch(r.now())

	if acquire(ctx, inst.lease, wait) {
		return inst.header, releaser(inst.lease), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	h, err := r.Mount(ctx, sessionID)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	slog.DebugContext(ctx, "header already attached, mounted a new one", slog.String("header", id), slog.String("replacement", h.ID()))

	fresh, exists := r.instances.Load(h.ID())
	if !exists {
		return nil, nil, errors.Wrapf(ErrNotFound, "header '%s'", h.ID())
	}

	fresh.lease <- struct{}{}

	return h, releaser(fresh.lease), nil
}

func acquire(ctx context.Context, lease chan struct{}, wait time.Duration) bool {
	select {
	case lease <- struct{}{}:
		return true
	default:
	}

	if wait <= 0 {
		return false
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case lease <- struct{}{}:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

func releaser(lease chan struct{}) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-lease
		})
	}
}

func (r *Registry) Unmount(id string, sessionID string) error {
	inst, exists := r.instances.Load(id)
	if !exists || inst.sessionID != sessionID {
		return errors.Wrapf(ErrNotFound, "header '%s'", id)
	}

	r.unmount(id)

	return nil
}

// Reap unmounts the headers idle since longer than the idle timeout.
func (r *Registry) Reap(ctx context.Context) int {
	deadline := r.now().Add(-r.idleTimeout).UnixNano()

	reaped := 0
	r.instances.Range(func(id string, inst *instance) bool {
		if inst.lastSeen.Load() >= deadline {
			return true
		}

		if r.unmount(id) {
			reaped++
			r.metrics.Reaped()
			slog.DebugContext(ctx, "idle header unmounted", slog.String("header", id))
		}

		return true
	})

	return reaped
}

// Run reaps idle headers until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	interval := r.idleTimeout / 2
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if reaped := r.Reap(ctx); reaped > 0 {
				slog.InfoContext(ctx, "reaped idle headers", slog.Int("count", reaped))
			}
		}
	}
}

func (r *Registry) Len() int {
	count := 0
	r.instances.Range(func(_ string, _ *instance) bool {
		count++
		return true
	})

	return count
}

// Close unmounts every header.
func (r *Registry) Close() error {
	r.instances.Range(func(id string, _ *instance) bool {
		r.unmount(id)
		return true
	})

	return nil
}

func (r *Registry) unmount(id string) bool {
	inst, loaded := r.instances.LoadAndDelete(id)
	if !loaded {
		return false
	}

	inst.header.Unmount()
	r.metrics.Unmounted()

	return true
}
