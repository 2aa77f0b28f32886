package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	customerrors "agent-staffing/errors"
	"agent-staffing/metrics"
	"agent-staffing/models"
)

// Options controls how customer call windows are staffed.
type Options struct {
	// TargetProbability is the highest acceptable chance that a call waits.
	TargetProbability float64
	// MaxServers caps the search per customer-hour (0 = DefaultMaxServers).
	MaxServers int
	// Capacity is the maximum agents available per hour (0 = unlimited).
	Capacity int
}

// GenerateSchedule calculates the number of agents needed per hour for each
// customer. Each customer-hour is treated as its own Erlang C queue, sized for
// the customer's own target probability when it has one.
func GenerateSchedule(data []models.CallData, opts Options) (*models.Schedule, error) {
	if !(opts.TargetProbability > 0 && opts.TargetProbability < 1) {
		return nil, fmt.Errorf("%w: got %v", customerrors.ErrInvalidTargetProbability, opts.TargetProbability)
	}
	if opts.MaxServers < 0 {
		return nil, fmt.Errorf("%w: got %d", customerrors.ErrInvalidMaxServers, opts.MaxServers)
	}
	maxServers := opts.MaxServers
	if maxServers == 0 {
		maxServers = DefaultMaxServers
	}

	began := time.Now()
	metrics.ResetSchedulerGauges()
	metrics.SchedulerCustomersProcessed.Observe(float64(len(data)))

	hourlyRequests := make([][]models.CustomerRequirement, 24)
	for h := 0; h < 24; h++ {
		hourlyRequests[h] = make([]models.CustomerRequirement, 0)
	}

	for _, cd := range data {
		start := cd.StartTime
		end := cd.EndTime

		// Handle overnight shifts (e.g., 9PM to 5AM)
		if end.Before(start) {
			end = end.Add(24 * time.Hour)
		}

		// Find the elapsed duration in hours and not use wall clock to
		// account for DST.
		durationHours := end.Sub(start).Hours()
		if durationHours <= 0 {
			continue
		}

		callsPerHour := float64(cd.NumberOfCalls) / durationHours

		target := opts.TargetProbability
		if !(cd.TargetProbability >= 0 && cd.TargetProbability < 1) {
			return nil, fmt.Errorf("customer %q: %w: got %v", cd.CustomerName,
				customerrors.ErrInvalidTargetProbability, cd.TargetProbability)
		}
		if cd.TargetProbability > 0 {
			target = cd.TargetProbability
		}

		// Determine the hour boundaries to schedule
		// Round start down to hour boundary, round end up to hour boundary
		startHourBoundary := time.Date(start.Year(), start.Month(), start.Day(),
			start.Hour(), 0, 0, 0, start.Location())
		endHourBoundary := time.Date(end.Year(), end.Month(), end.Day(),
			end.Hour(), 0, 0, 0, end.Location())

		// If end time has minutes/seconds, we need to include that hour too
		if end.After(endHourBoundary) {
			endHourBoundary = endHourBoundary.Add(time.Hour)
		}

		// Iterate hour by hour at hourly boundaries
		for t := startHourBoundary; t.Before(endHourBoundary); t = t.Add(time.Hour) {
			// Calculate the fraction of this hour that's actually being used
			hourStart := t
			hourEnd := t.Add(time.Hour)

			// Clamp to actual work window
			actualStart := hourStart
			if start.After(hourStart) {
				actualStart = start
			}
			actualEnd := hourEnd
			if end.Before(hourEnd) {
				actualEnd = end
			}

			// Calculate fraction of hour being used
			hoursUsedInThisSlot := actualEnd.Sub(actualStart).Hours()
			if hoursUsedInThisSlot <= 0 {
				continue
			}

			// Calls in this specific hour slot based on fraction
			callsThisHour := callsPerHour * hoursUsedInThisSlot

			// Offered load in Erlangs = calls_this_hour * avg_duration / 3600
			offeredLoad := callsThisHour * float64(cd.AverageCallDurationSeconds) / 3600.0

			localTime := t
			if cd.Location != nil {
				localTime = t.In(cd.Location)
			}
			h := localTime.Hour()

			agentsNeeded, probability, err := ServersFor(offeredLoad, target, maxServers)
			if err != nil {
				metrics.CeilingExceededTotal.Inc()
				return nil, fmt.Errorf("customer %q: %w", cd.CustomerName,
					&customerrors.SolveError{Hour: h, Load: offeredLoad, Err: err})
			}
			hourlyRequests[h] = append(
				hourlyRequests[h], models.CustomerRequirement{
					Name:             cd.CustomerName,
					AgentsNeeded:     agentsNeeded,
					Location:         cd.Location,
					Priority:         cd.Priority,
					OfferedLoad:      offeredLoad,
					DelayProbability: probability,
				},
			)
		}
	}

	schedule := models.Schedule{
		HourlyRequirements: hourlyRequests,
		UnmetDemands:       make([]models.UnmetDemand, 0),
	}
	demanded := 0
	for h := 0; h < 24; h++ {
		for _, req := range hourlyRequests[h] {
			demanded += req.AgentsNeeded
		}
	}
	metrics.AgentsDemandedTotal.Set(float64(demanded))

	// Apply capacity constraints if opts.Capacity > 0
	if opts.Capacity > 0 {
		for h := 0; h < 24; h++ {
			allocated, unmet := allocateWithConstraints(hourlyRequests[h], opts.Capacity)
			schedule.HourlyRequirements[h] = allocated
			if unmet != nil {
				unmet.Hour = h
				schedule.UnmetDemands = append(schedule.UnmetDemands, *unmet)
			}
		}
	}
	recordScheduleMetrics(&schedule, demanded)
	metrics.SchedulerDurationSeconds.Observe(time.Since(began).Seconds())

	return &schedule, nil
}

func recordScheduleMetrics(schedule *models.Schedule, demanded int) {
	unmetTotal := 0
	for _, unmet := range schedule.UnmetDemands {
		unmetTotal += unmet.UnmetAgents
		for _, client := range unmet.ImpactedClients {
			metrics.UnmetDemandByPriority.WithLabelValues(strconv.Itoa(client.Priority)).Add(float64(client.UnmetAgents))
		}
	}
	metrics.AgentsUnmetTotal.Set(float64(unmetTotal))
	metrics.AgentsAllocatedTotal.Set(float64(demanded - unmetTotal))
	metrics.HoursWithUnmetDemand.Set(float64(len(schedule.UnmetDemands)))
}

// allocateWithConstraints performs priority-based allocation.
// Time: O(n log n) for sort + O(n) for allocation = O(n log n)
// Space: O(n) for output slices (no extra map overhead)
func allocateWithConstraints(requests []models.CustomerRequirement, capacity int) ([]models.CustomerRequirement, *models.UnmetDemand) {
	if len(requests) == 0 {
		return nil, nil
	}

	// Calculate total demand: O(n)
	totalDemand := 0
	for _, req := range requests {
		totalDemand += req.AgentsNeeded
	}

	// Fast path: if capacity exceeds demand, no allocation logic needed
	if capacity >= totalDemand {
		return requests, nil
	}

	// Sort by priority (1 = highest): O(n log n)
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Priority < requests[j].Priority
	})

	// Pre-allocate with capacity hints to reduce reallocations
	allocated := make([]models.CustomerRequirement, 0, len(requests))
	impactedClients := make([]models.ImpactedClient, 0)
	remaining := capacity

	// Single pass allocation: O(n)
	for _, req := range requests {
		if remaining <= 0 {
			// No capacity left - fully unmet
			impactedClients = append(impactedClients, models.ImpactedClient{
				Name:            req.Name,
				RequestedAgents: req.AgentsNeeded,
				AllocatedAgents: 0,
				UnmetAgents:     req.AgentsNeeded,
				Priority:        req.Priority,
			})
			continue
		}

		if remaining >= req.AgentsNeeded {
			// Full allocation
			allocated = append(allocated, req)
			remaining -= req.AgentsNeeded
		} else {
			// Partial allocation - give what's left
			partial := req
			partial.AgentsNeeded = remaining
			allocated = append(allocated, partial)
			impactedClients = append(impactedClients, models.ImpactedClient{
				Name:            req.Name,
				RequestedAgents: req.AgentsNeeded,
				AllocatedAgents: remaining,
				UnmetAgents:     req.AgentsNeeded - remaining,
				Priority:        req.Priority,
			})
			remaining = 0
		}
	}

	// Only create UnmetDemand if there are impacted clients
	if len(impactedClients) > 0 {
		return allocated, &models.UnmetDemand{
			TotalDemand:     totalDemand,
			AllocatedAgents: capacity,
			UnmetAgents:     totalDemand - capacity,
			ImpactedClients: impactedClients,
		}
	}
	return allocated, nil
}
