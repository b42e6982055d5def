package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type IncrementalCounter interface {
	Increment(val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

type Gauge struct {
	Name string
	Help string

	gauge prometheus.Gauge
}

func (g *Gauge) Inc() {
	g.gauge.Inc()
}

func (g *Gauge) Dec() {
	g.gauge.Dec()
}

func NewGaugeWithRegistry(reg prometheus.Registerer, name, help string) *Gauge {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})

	reg.MustRegister(gauge)

	return &Gauge{
		Name:  name,
		Help:  help,
		gauge: gauge,
	}
}

// Collectors groups the instruments of the header service.
// A nil *Collectors records nothing.
type Collectors struct {
	events  *Counter
	fetches *Counter
	reaped  *Counter
	mounted *Gauge
	streams *Gauge
}

// Event counts a header interaction (toggle, hover_enter...).
func (c *Collectors) Event(name string) {
	if c == nil {
		return
	}

	c.events.Increment(name)
}

// Fetch counts a journal listing fetch by result.
func (c *Collectors) Fetch(result string) {
	if c == nil {
		return
	}

	c.fetches.Increment(result)
}

func (c *Collectors) Reaped() {
	if c == nil {
		return
	}

	c.reaped.Increment()
}

func (c *Collectors) Mounted() {
	if c == nil {
		return
	}

	c.mounted.Inc()
}

func (c *Collectors) Unmounted() {
	if c == nil {
		return
	}

	c.mounted.Dec()
}

// StreamOpened returns a function to call when the stream ends.
func (c *Collectors) StreamOpened() func() {
	if c == nil {
		return func() {}
	}

	c.streams.Inc()

	return c.streams.Dec
}

func New(reg prometheus.Registerer) *Collectors {
	return &Collectors{
		events:  NewCounterWithRegistry(reg, "masthead_header_events_total", "Number of header interaction events", "event"),
		fetches: NewCounterWithRegistry(reg, "masthead_journal_fetches_total", "Number of journal listing fetches", "result"),
		reaped:  NewCounterWithRegistry(reg, "masthead_headers_reaped_total", "Number of idle header instances unmounted"),
		mounted: NewGaugeWithRegistry(reg, "masthead_headers_mounted", "Number of mounted header instances"),
		streams: NewGaugeWithRegistry(reg, "masthead_header_streams", "Number of open header event streams"),
	}
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
