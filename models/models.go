package models

import (
	"fmt"
	"time"

	customerrors "agent-staffing/errors"
)

// CallData represents the parsed input data for a customer call batch.
// It is shared across packages to schedule calls.
type CallData struct {
	CustomerName               string
	AverageCallDurationSeconds int
	StartTime                  time.Time
	EndTime                    time.Time
	Location                   *time.Location
	NumberOfCalls              int
	Priority                   int
	// TargetProbability overrides the schedule-wide target when positive.
	TargetProbability float64
}

// CallRecord is a single call from a call-center log.
type CallRecord struct {
	Date      time.Time
	Entry     time.Duration // time of day the call entered the VRU
	VRUTime   int           // seconds
	QueueTime int           // seconds
	SerTime   int           // seconds
	Outcome   string
	Server    string
}

// EntryHour returns the hour of day (0-23) the call entered the system.
func (c CallRecord) EntryHour() int {
	return int(c.Entry/time.Hour) % 24
}

// WaitTime is the time spent in the VRU plus the time spent queueing.
func (c CallRecord) WaitTime() int {
	return c.VRUTime + c.QueueTime
}

// Schedule represents the agent requirements per hour.
type Schedule struct {
	// HourlyRequirements maps hour (0-23) to a list of customer requirements
	HourlyRequirements [][]CustomerRequirement
	// UnmetDemands tracks hours where capacity was exceeded
	UnmetDemands []UnmetDemand
}

// CustomerRequirement holds the number of agents needed for a specific customer.
type CustomerRequirement struct {
	Name             string
	AgentsNeeded     int
	Location         *time.Location
	Priority         int
	OfferedLoad      float64
	DelayProbability float64
}

// UnmetDemand tracks when demand cannot be met due to capacity constraints
type UnmetDemand struct {
	Hour            int
	TotalDemand     int
	AllocatedAgents int
	UnmetAgents     int
	ImpactedClients []ImpactedClient
}

// ImpactedClient represents a customer whose demand was not fully met
type ImpactedClient struct {
	Name            string
	RequestedAgents int
	AllocatedAgents int
	UnmetAgents     int
	Priority        int
}

// HourlyStaffing is the solved requirement for one time bucket.
type HourlyStaffing struct {
	Hour             int     `json:"hour"`
	ArrivalRate      float64 `json:"arrival_rate"`
	OfferedLoad      float64 `json:"offered_load"`
	Servers          int     `json:"servers"`
	DelayProbability float64 `json:"delay_probability"`
	Iterations       int     `json:"iterations"`
	Closed           bool    `json:"closed,omitempty"`
}

// StaffingPlan is the output of one staffing run.
type StaffingPlan struct {
	RunID             string           `json:"run_id,omitempty"`
	ServiceRate       float64          `json:"service_rate"`
	TargetProbability float64          `json:"target_probability"`
	Hours             []HourlyStaffing `json:"hours"`
}

// Servers returns the server count per bucket, in bucket order.
func (p *StaffingPlan) Servers() []int {
	out := make([]int, len(p.Hours))
	for i, h := range p.Hours {
		out[i] = h.Servers
	}
	return out
}

// TotalServerHours sums the servers over all buckets.
func (p *StaffingPlan) TotalServerHours() int {
	total := 0
	for _, h := range p.Hours {
		total += h.Servers
	}
	return total
}

// CloseHours forces the listed buckets to zero servers.
func (p *StaffingPlan) CloseHours(hours ...int) error {
	for _, h := range hours {
		if h < 0 || h >= len(p.Hours) {
			return fmt.Errorf("%w: %d", customerrors.ErrInvalidHour, h)
		}
	}
	for _, h := range hours {
		p.Hours[h].Servers = 0
		p.Hours[h].DelayProbability = 0
		p.Hours[h].Closed = true
	}
	return nil
}
