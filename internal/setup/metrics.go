package setup

import (
	"context"

	"github.com/bornholm/masthead/internal/config"
	"github.com/bornholm/masthead/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry   *prometheus.Registry
	Collectors *metrics.Collectors
}

var NewMetricsFromConfig = createFromConfigOnce(func(ctx context.Context, conf *config.Config) (*Metrics, error) {
	if !conf.HTTP.Metrics {
		return &Metrics{}, nil
	}

	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		Registry:   reg,
		Collectors: metrics.New(reg),
	}, nil
})
