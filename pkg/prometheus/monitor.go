package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Monitor represents a Prometheus monitor
// It contains Prometheus registry and all available metrics
type Monitor struct {
	Registry *prometheus.Registry

	ProviderRequests *prometheus.CounterVec
	StepUpChallenges *prometheus.CounterVec
	StatementRows    *prometheus.GaugeVec
}

// New creates a new Monitor
func New() *Monitor {
	reg := prometheus.NewRegistry()
	monitor := &Monitor{
		Registry: reg,

		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wise_provider_requests_total",
			Help: "Requests issued against the Wise API",
		}, []string{"endpoint", "status"}),

		StepUpChallenges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wise_stepup_challenges_total",
			Help: "Step-up challenges signed with the private key",
		}, []string{}),

		StatementRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wise_statement_rows",
			Help: "Number of rows in the last downloaded statement",
		}, []string{}),
	}

	reg.MustRegister(
		monitor.ProviderRequests,
		monitor.StepUpChallenges,
		monitor.StatementRows,
	)

	return monitor
}
