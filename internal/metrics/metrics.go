// Package metrics collects and exposes Prometheus metrics for Ground
// Control. These are observational only: the supervisor and process
// packages write to them as they drive the state machine, but nothing in
// the engine ever reads them back to make a decision.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Ground Control Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	ProcessState      *prometheus.GaugeVec
	ProcessStartTotal *prometheus.CounterVec
	ProcessExitTotal  *prometheus.CounterVec

	StartupDuration     prometheus.Histogram
	SupervisorProcesses *prometheus.GaugeVec
	BuildInfo           *prometheus.GaugeVec
}

// New creates and registers all Ground Control metrics.
func New() *Collector {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &Collector{
		registry: reg,

		ProcessState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "groundcontrol_process_state",
				Help: "Current lifecycle state of a managed process (numeric state code).",
			},
			[]string{"name"},
		),

		ProcessStartTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groundcontrol_process_start_total",
				Help: "Total number of times a process has been started.",
			},
			[]string{"name"},
		),

		ProcessExitTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "groundcontrol_process_exit_total",
				Help: "Total number of daemon exits, partitioned by whether the exit was expected (code 0).",
			},
			[]string{"name", "expected"},
		),

		StartupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "groundcontrol_startup_duration_seconds",
				Help:    "Time taken to start every declared process, in declaration order.",
				Buckets: prometheus.DefBuckets,
			},
		),

		SupervisorProcesses: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "groundcontrol_supervisor_processes",
				Help: "Number of processes per lifecycle state.",
			},
			[]string{"state"},
		),

		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "groundcontrol_info",
				Help: "Build information about Ground Control.",
			},
			[]string{"version", "go_version"},
		),
	}

	reg.MustRegister(
		c.ProcessState,
		c.ProcessStartTotal,
		c.ProcessExitTotal,
		c.StartupDuration,
		c.SupervisorProcesses,
		c.BuildInfo,
	)

	return c
}

// Handler returns an http.Handler that serves the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// SetBuildInfo sets the constant build info gauge.
func (c *Collector) SetBuildInfo(version, goVersion string) {
	c.BuildInfo.WithLabelValues(version, goVersion).Set(1)
}

// SetProcessState updates the state gauge for a process.
func (c *Collector) SetProcessState(name string, stateCode int) {
	c.ProcessState.WithLabelValues(name).Set(float64(stateCode))
}

// IncProcessStart increments the start counter for a process.
func (c *Collector) IncProcessStart(name string) {
	c.ProcessStartTotal.WithLabelValues(name).Inc()
}

// IncProcessExit increments the exit counter for a process.
func (c *Collector) IncProcessExit(name string, expected bool) {
	label := "false"
	if expected {
		label = "true"
	}
	c.ProcessExitTotal.WithLabelValues(name, label).Inc()
}

// ObserveStartupDuration records how long the startup phase took.
func (c *Collector) ObserveStartupDuration(seconds float64) {
	c.StartupDuration.Observe(seconds)
}

// SetProcessCount sets the count of processes in a given state.
func (c *Collector) SetProcessCount(state string, count int) {
	c.SupervisorProcesses.WithLabelValues(state).Set(float64(count))
}
