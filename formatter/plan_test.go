package formatter_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"agent-staffing/formatter"
	"agent-staffing/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *models.StaffingPlan {
	return &models.StaffingPlan{
		RunID:             "run-7",
		ServiceRate:       15,
		TargetProbability: 0.5,
		Hours: []models.HourlyStaffing{
			{Hour: 0, ArrivalRate: 6.75, OfferedLoad: 0.45, Closed: true},
			{Hour: 1, ArrivalRate: 0},
			{Hour: 2, ArrivalRate: 97.25, OfferedLoad: 6.483333, Servers: 8, DelayProbability: 0.480416, Iterations: 8},
		},
	}
}

func TestFormatPlanText(t *testing.T) {
	output := formatter.FormatPlanText(samplePlan())

	for _, s := range []string{
		"service_rate=15.000 target=0.50 server_hours=8",
		"00:00 : arrivals=6.75 load=0.450 servers=0 p_wait=0.0000 (closed)",
		"01:00 : arrivals=0.00 load=0.000 servers=0 p_wait=0.0000\n",
		"02:00 : arrivals=97.25 load=6.483 servers=8 p_wait=0.4804",
	} {
		assert.Contains(t, output, s)
	}
}

func TestFormatPlanJSON(t *testing.T) {
	output := formatter.FormatPlanJSON(samplePlan())

	var decoded struct {
		RunID            string `json:"run_id"`
		Servers          []int  `json:"servers"`
		TotalServerHours int    `json:"total_server_hours"`
		Hours            []struct {
			Hour    int  `json:"hour"`
			Servers int  `json:"servers"`
			Closed  bool `json:"closed"`
		} `json:"hours"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))

	assert.Equal(t, "run-7", decoded.RunID)
	assert.Equal(t, []int{0, 0, 8}, decoded.Servers)
	assert.Equal(t, 8, decoded.TotalServerHours)
	require.Len(t, decoded.Hours, 3)
	assert.True(t, decoded.Hours[0].Closed)
	assert.Equal(t, 8, decoded.Hours[2].Servers)
}

func TestFormatPlanCSV(t *testing.T) {
	output := formatter.FormatPlanCSV(samplePlan())
	lines := strings.Split(strings.TrimSpace(output), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "Hour,Arrivals,Offered Load,Servers,Delay Probability,Iterations,Closed", lines[0])
	assert.Equal(t, "00:00,6.75,0.450,0,0.0000,0,Yes", lines[1])
	assert.Equal(t, "01:00,0.00,0.000,0,0.0000,0,No", lines[2])
	assert.Equal(t, "02:00,97.25,6.483,8,0.4804,8,No", lines[3])
}

func TestFormatText_RepeatedHourIsSummed(t *testing.T) {
	reqs := make([][]models.CustomerRequirement, 24)
	reqs[1] = []models.CustomerRequirement{
		{Name: "FallBack", AgentsNeeded: 5, Location: time.UTC, OfferedLoad: 3},
		{Name: "FallBack", AgentsNeeded: 5, Location: time.UTC, OfferedLoad: 3},
	}

	output := formatter.FormatText(&models.Schedule{HourlyRequirements: reqs})
	assert.Contains(t, output, "01:00 : total=10 load=6.00 ; [UTC: total=10, FallBack=10]")
}
