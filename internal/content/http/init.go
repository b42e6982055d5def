package http

import (
	"net/http"
	"time"

	"github.com/bornholm/masthead/internal/content"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const Type content.Type = "http"

func init() {
	content.Register(Type, CreateSourceFromOptions)
}

type Options struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit caps the outbound requests per second, zero disables it
	RateLimit float64 `mapstructure:"rateLimit"`
	Burst     int     `mapstructure:"burst"`
}

func CreateSourceFromOptions(options any) (content.Source, error) {
	opts := Options{
		Timeout: 10 * time.Second,
		Burst:   1,
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         nil,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()),
		Result:           &opts,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not create '%s' content source options decoder", Type)
	}

	if err := decoder.Decode(options); err != nil {
		return nil, errors.Wrapf(err, "could not parse '%s' content source options", Type)
	}

	if opts.URL == "" {
		return nil, errors.Errorf("'%s' content source requires an url", Type)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}

		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	client := &http.Client{
		Timeout: opts.Timeout,
	}

	return NewSource(opts.URL, client, limiter), nil
}
