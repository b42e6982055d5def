package sqlite

import (
	"context"
	"time"

	"github.com/bornholm/masthead/internal/session"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const (
	Type                session.Type  = "sqlite"
	DefaultPollInterval time.Duration = time.Second
)

func init() {
	session.Register(Type, CreateStoreFromOptions)
}

type Options struct {
	Path         string        `mapstructure:"path" yaml:"path"`
	PollInterval time.Duration `mapstructure:"pollInterval" yaml:"pollInterval"`
}

func CreateStoreFromOptions(options any) (session.Store, error) {
	opts := Options{
		PollInterval: DefaultPollInterval,
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:   nil,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()),
		Result:     &opts,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not create '%s' session store options decoder", Type)
	}

	if err := decoder.Decode(options); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' session store options", Type)
	}

	if opts.Path == "" {
		return nil, errors.Errorf("'%s' session store requires a path", Type)
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	store, err := NewStore(context.Background(), opts.Path, opts.PollInterval)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return store, nil
}
