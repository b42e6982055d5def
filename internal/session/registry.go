package session

import (
	"slices"
	"sync"

	"github.com/pkg/errors"
)

var ErrNotRegistered = errors.New("session store type not registered")

type Type string

type Factory func(options any) (Store, error)

var (
	registryMutex sync.RWMutex
	registry      = map[Type]Factory{}
)

func Register(storeType Type, factory Factory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	registry[storeType] = factory
}

func New(storeType Type, options any) (Store, error) {
	registryMutex.RLock()
	factory, exists := registry[storeType]
	registryMutex.RUnlock()

	if !exists {
		return nil, errors.Wrapf(ErrNotRegistered, "type '%s'", storeType)
	}

	store, err := factory(options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return store, nil
}

func Registered() []Type {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	types := make([]Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}
