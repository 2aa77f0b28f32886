package scheduler

import (
	"context"
	"fmt"
	"math"
	"time"

	"agent-staffing/erlang"
	customerrors "agent-staffing/errors"
	"agent-staffing/logging"
	"agent-staffing/metrics"
	"agent-staffing/models"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxServers bounds the per-hour search when no ceiling is given.
const DefaultMaxServers = 500

// Solve returns the smallest server count per hour whose Erlang C delay
// probability is at or below targetProbability. hourlyLoad holds arrivals per
// hour; a bucket with no load needs no servers. maxServers caps each search
// (0 selects DefaultMaxServers).
func Solve(ctx context.Context, hourlyLoad []float64, serviceRatePerServer, targetProbability float64, maxServers int) ([]int, error) {
	plan, err := Plan(ctx, hourlyLoad, serviceRatePerServer, targetProbability, maxServers)
	if err != nil {
		return nil, err
	}
	return plan.Servers(), nil
}

// Plan is Solve with the per-hour detail kept. Either every hour is solved or
// an error is returned.
func Plan(ctx context.Context, hourlyLoad []float64, serviceRatePerServer, targetProbability float64, maxServers int) (*models.StaffingPlan, error) {
	if err := validateSolveInput(hourlyLoad, serviceRatePerServer, targetProbability, maxServers); err != nil {
		return nil, err
	}
	if maxServers == 0 {
		maxServers = DefaultMaxServers
	}

	start := time.Now()
	logger := logging.FromContext(ctx)

	hours := make([]models.HourlyStaffing, len(hourlyLoad))
	g, gctx := errgroup.WithContext(ctx)
	for h, load := range hourlyLoad {
		h, load := h, load
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := erlang.OfferedLoad(load, serviceRatePerServer)
			servers, probability, iterations, err := staffHour(r, targetProbability, maxServers)
			if err != nil {
				metrics.CeilingExceededTotal.Inc()
				return &customerrors.SolveError{Hour: h, Load: load, Err: err}
			}
			hours[h] = models.HourlyStaffing{
				Hour:             h,
				ArrivalRate:      load,
				OfferedLoad:      r,
				Servers:          servers,
				DelayProbability: probability,
				Iterations:       iterations,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.ErrorContext(ctx, "staffing search failed", "error", err)
		return nil, err
	}

	plan := &models.StaffingPlan{
		RunID:             logging.RunID(ctx),
		ServiceRate:       serviceRatePerServer,
		TargetProbability: targetProbability,
		Hours:             hours,
	}
	RecordPlan(plan)
	metrics.SolverDurationSeconds.Observe(time.Since(start).Seconds())

	logger.InfoContext(ctx, "staffing plan solved",
		"hours", len(hours),
		"server_hours", plan.TotalServerHours(),
		"target_probability", targetProbability,
		"service_rate", serviceRatePerServer,
	)
	return plan, nil
}

// ServersFor runs the search for a single offered load r.
func ServersFor(r, targetProbability float64, maxServers int) (int, float64, error) {
	if maxServers == 0 {
		maxServers = DefaultMaxServers
	}
	servers, probability, _, err := staffHour(r, targetProbability, maxServers)
	return servers, probability, err
}

// staffHour increments the server count until the target is met.
func staffHour(r, targetProbability float64, maxServers int) (servers int, probability float64, iterations int, err error) {
	if r <= 0 {
		return 0, 0, 0, nil
	}
	probability = 1
	for probability > targetProbability {
		if servers >= maxServers {
			return servers, probability, iterations, fmt.Errorf("%w (max %d, probability %.4f)",
				customerrors.ErrServerCeilingExceeded, maxServers, probability)
		}
		servers++
		iterations++
		probability = erlang.C(servers, r)
	}
	metrics.SolverIterationsTotal.Add(float64(iterations))
	return servers, probability, iterations, nil
}

// RecordPlan publishes a plan to the staffing gauges. It is called again after
// closed hours are applied so the gauges follow the final plan.
func RecordPlan(plan *models.StaffingPlan) {
	metrics.ResetStaffingGauges()
	for _, h := range plan.Hours {
		metrics.ServersRequired.WithLabelValues(metrics.HourLabel(h.Hour)).Set(float64(h.Servers))
		metrics.DelayProbability.WithLabelValues(metrics.HourLabel(h.Hour)).Set(h.DelayProbability)
	}
	metrics.ServerHoursTotal.Set(float64(plan.TotalServerHours()))
}

func validateSolveInput(hourlyLoad []float64, serviceRate, targetProbability float64, maxServers int) error {
	if len(hourlyLoad) == 0 {
		return customerrors.ErrEmptyLoad
	}
	for h, load := range hourlyLoad {
		if load < 0 || math.IsNaN(load) || math.IsInf(load, 0) {
			return fmt.Errorf("%w: hour %d has %v", customerrors.ErrInvalidLoad, h, load)
		}
	}
	if serviceRate <= 0 || math.IsNaN(serviceRate) || math.IsInf(serviceRate, 0) {
		return fmt.Errorf("%w: got %v", customerrors.ErrInvalidServiceRate, serviceRate)
	}
	if !(targetProbability > 0 && targetProbability < 1) {
		return fmt.Errorf("%w: got %v", customerrors.ErrInvalidTargetProbability, targetProbability)
	}
	if maxServers < 0 {
		return fmt.Errorf("%w: got %d", customerrors.ErrInvalidMaxServers, maxServers)
	}
	return nil
}
