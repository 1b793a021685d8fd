package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricNameRe = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	labelNameRe  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Opts names a metric. The full name is the non-empty parts of
// Namespace/Subsystem/Name joined with underscores, e.g.
// "productcache_cache_hits_total". Buckets apply to histograms only.
type Opts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
	Labels    []string
	Buckets   []float64
}

func (o Opts) fullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{o.Namespace, o.Subsystem, o.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_")
}

// validate enforces Prometheus naming rules so a bad metric fails at
// registration instead of silently exporting garbage.
func (o Opts) validate() error {
	if !IsInitialized() {
		return fmt.Errorf("metrics not initialized, call Init() first")
	}
	if name := o.fullName(); !metricNameRe.MatchString(name) {
		return fmt.Errorf("invalid metric name %q", name)
	}
	for _, label := range o.Labels {
		if strings.HasPrefix(label, "__") {
			return fmt.Errorf("label name %q is reserved", label)
		}
		if !labelNameRe.MatchString(label) {
			return fmt.Errorf("invalid label name %q", label)
		}
	}
	return nil
}

// Counter is a monotonically increasing metric, optionally partitioned by
// labels (the invalidation counter splits on "result").
type Counter struct {
	vec *prometheus.CounterVec
}

// NewCounter registers a counter with the global registry.
func NewCounter(opts Opts) (*Counter, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      opts.Name,
		Help:      opts.Help,
	}, opts.Labels)

	if err := registry.Register(vec); err != nil {
		return nil, fmt.Errorf("register counter %s: %w", opts.fullName(), err)
	}
	return &Counter{vec: vec}, nil
}

// Inc increments the counter series for the given label values.
func (c *Counter) Inc(labelValues ...string) {
	c.vec.WithLabelValues(labelValues...).Inc()
}

// Gauge is a single-series settable metric. The only gauge here is the
// invalidation queue depth, so labels are not supported.
type Gauge struct {
	g prometheus.Gauge
}

// NewGauge registers a gauge with the global registry. Opts.Labels must be
// empty.
func NewGauge(opts Opts) (*Gauge, error) {
	if len(opts.Labels) > 0 {
		return nil, fmt.Errorf("gauge %s: labels are not supported", opts.fullName())
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      opts.Name,
		Help:      opts.Help,
	})

	if err := registry.Register(g); err != nil {
		return nil, fmt.Errorf("register gauge %s: %w", opts.fullName(), err)
	}
	return &Gauge{g: g}, nil
}

// Set sets the gauge to value.
func (g *Gauge) Set(value float64) {
	g.g.Set(value)
}

// Histogram samples observations into buckets, partitioned by labels.
type Histogram struct {
	vec *prometheus.HistogramVec
}

// NewHistogram registers a histogram with the global registry. Nil Buckets
// fall back to the Prometheus defaults.
func NewHistogram(opts Opts) (*Histogram, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	buckets := opts.Buckets
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      opts.Name,
		Help:      opts.Help,
		Buckets:   buckets,
	}, opts.Labels)

	if err := registry.Register(vec); err != nil {
		return nil, fmt.Errorf("register histogram %s: %w", opts.fullName(), err)
	}
	return &Histogram{vec: vec}, nil
}

// Observe records value in the histogram series for the given label values.
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.vec.WithLabelValues(labelValues...).Observe(value)
}
