package memory

import (
	"context"
	"sync"

	"github.com/bornholm/masthead/internal/session"
	"github.com/pkg/errors"
)

const Type session.Type = "memory"

func init() {
	session.Register(Type, func(options any) (session.Store, error) {
		return NewStore(), nil
	})
}

// Store keeps sessions in process memory.
type Store struct {
	mu     sync.RWMutex
	values map[string]map[session.Key]string
	broker *session.Broker
}

// Get implements session.Store.
func (s *Store) Get(ctx context.Context, sessionID string, key session.Key) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.values[sessionID][key]

	return value, exists, nil
}

// Set implements session.Store.
func (s *Store) Set(ctx context.Context, sessionID string, key session.Key, value string, origin string) error {
	s.mu.Lock()
	values, exists := s.values[sessionID]
	if !exists {
		values = map[session.Key]string{}
		s.values[sessionID] = values
	}
	values[key] = value
	s.mu.Unlock()

	s.broker.Publish(session.Change{SessionID: sessionID, Key: key, Origin: origin})

	return nil
}

// Delete implements session.Store.
func (s *Store) Delete(ctx context.Context, sessionID string, key session.Key, origin string) error {
	s.mu.Lock()
	values, exists := s.values[sessionID]
	if exists {
		delete(values, key)
		if len(values) == 0 {
			delete(s.values, sessionID)
		}
	}
	s.mu.Unlock()

	if exists {
		s.broker.Publish(session.Change{SessionID: sessionID, Key: key, Origin: origin})
	}

	return nil
}

// Watch implements session.Store.
func (s *Store) Watch(ctx context.Context, sessionID string, origin string) (<-chan session.Change, error) {
	changes, err := s.broker.Subscribe(ctx, sessionID, origin)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return changes, nil
}

// Close implements session.Store.
func (s *Store) Close() error {
	s.broker.Close()
	return nil
}

func NewStore() *Store {
	return &Store{
		values: map[string]map[session.Key]string{},
		broker: session.NewBroker(),
	}
}

var _ session.Store = &Store{}
