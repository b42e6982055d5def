package content

import (
	"slices"
	"sync"

	"github.com/pkg/errors"
)

var ErrNotRegistered = errors.New("content source type not registered")

type Type string

type Factory func(options any) (Source, error)

var (
	registryMutex sync.RWMutex
	registry      = map[Type]Factory{}
)

func Register(sourceType Type, factory Factory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	registry[sourceType] = factory
}

func New(sourceType Type, options any) (Source, error) {
	registryMutex.RLock()
	factory, exists := registry[sourceType]
	registryMutex.RUnlock()

	if !exists {
		return nil, errors.Wrapf(ErrNotRegistered, "type '%s'", sourceType)
	}

	source, err := factory(options)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return source, nil
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
