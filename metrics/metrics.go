// Package metrics provides Prometheus observability metrics for staffing runs.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// ServersRequired tracks the solved server count for each hour of the last run.
var ServersRequired = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "staffing",
	Name:      "servers_required",
	Help:      "Servers required per hour to meet the target delay probability",
}, []string{"hour"})

// DelayProbability tracks the achieved Erlang C delay probability per hour.
var DelayProbability = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "staffing",
	Name:      "delay_probability",
	Help:      "Probability that a call waits, at the solved server count",
}, []string{"hour"})

// ServerHoursTotal tracks total server-hours across the last plan.
var ServerHoursTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "staffing",
	Name:      "server_hours_total",
	Help:      "Sum of servers required across all hours of the plan",
})

// CeilingExceededTotal counts searches that hit the server ceiling.
var CeilingExceededTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "ceiling_exceeded_total",
	Help:      "Count of hourly searches that reached the max server ceiling",
})

// AgentsUnmetTotal tracks total unmet agent demand across all hours.
// High values indicate capacity planning issues.
var AgentsUnmetTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_unmet_total",
	Help:      "Total number of agents that could not be allocated due to capacity constraints",
})

// AgentsDemandedTotal tracks total agent demand across all hours.
var AgentsDemandedTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_demanded_total",
	Help:      "Total number of agents demanded across all customers and hours",
})

// AgentsAllocatedTotal tracks total agents successfully allocated.
var AgentsAllocatedTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "agents_allocated_total",
	Help:      "Total number of agents successfully allocated",
})

// HoursWithUnmetDemand tracks number of hours where capacity was exceeded.
var HoursWithUnmetDemand = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "hours_with_unmet_demand",
	Help:      "Number of hours in the schedule where demand exceeded capacity",
})

// UnmetDemandByPriority tracks unmet agents by priority level.
var UnmetDemandByPriority = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "unmet_demand_by_priority",
	Help:      "Unmet agent demand broken down by priority level",
}, []string{"priority"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// SolverIterationsTotal counts Erlang C evaluations made by the search.
var SolverIterationsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffing",
	Name:      "solver_iterations_total",
	Help:      "Total Erlang C evaluations performed by the staffing search",
})

// SolverDurationSeconds tracks time to solve a staffing plan.
var SolverDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "staffing",
	Name:      "solver_duration_seconds",
	Help:      "Time taken to solve a staffing plan",
	Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
})

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total records successfully parsed by input kind",
}, []string{"input"})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse an input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
}, []string{"input"})

// SchedulerDurationSeconds tracks time to generate schedule.
var SchedulerDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "duration_seconds",
	Help:      "Time taken to generate the schedule",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// SchedulerCustomersProcessed tracks number of customers per scheduling run.
var SchedulerCustomersProcessed = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "scheduler",
	Name:      "customers_processed",
	Help:      "Number of customers processed per scheduling run",
	Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetSchedulerGauges resets all scheduler gauges before a new scheduling run.
// Call this at the start of GenerateSchedule.
func ResetSchedulerGauges() {
	AgentsUnmetTotal.Set(0)
	AgentsDemandedTotal.Set(0)
	AgentsAllocatedTotal.Set(0)
	HoursWithUnmetDemand.Set(0)
	UnmetDemandByPriority.Reset()
}

// ResetStaffingGauges clears per-hour gauges before a new plan is recorded.
func ResetStaffingGauges() {
	ServersRequired.Reset()
	DelayProbability.Reset()
	ServerHoursTotal.Set(0)
}

// HourLabel formats an hour bucket as a label value.
func HourLabel(hour int) string {
	return strconv.Itoa(hour)
}
