package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"agent-staffing/models"
)

// FormatPlanText returns the text representation of a staffing plan
func FormatPlanText(plan *models.StaffingPlan) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "service_rate=%.3f target=%.2f server_hours=%d\n",
		plan.ServiceRate, plan.TargetProbability, plan.TotalServerHours())

	for _, h := range plan.Hours {
		fmt.Fprintf(&sb, "%02d:00 : arrivals=%.2f load=%.3f servers=%d p_wait=%.4f",
			h.Hour, h.ArrivalRate, h.OfferedLoad, h.Servers, h.DelayProbability)
		if h.Closed {
			sb.WriteString(" (closed)")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatPlanJSON returns the JSON representation of a staffing plan
func FormatPlanJSON(plan *models.StaffingPlan) string {
	out := struct {
		*models.StaffingPlan
		Servers          []int `json:"servers"`
		TotalServerHours int   `json:"total_server_hours"`
	}{
		StaffingPlan:     plan,
		Servers:          plan.Servers(),
		TotalServerHours: plan.TotalServerHours(),
	}
	jsonBytes, _ := json.MarshalIndent(out, "", "  ")
	return string(jsonBytes)
}

// FormatPlanCSV returns the CSV representation of a staffing plan
func FormatPlanCSV(plan *models.StaffingPlan) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{
		"Hour", "Arrivals", "Offered Load", "Servers", "Delay Probability", "Iterations", "Closed",
	})

	for _, h := range plan.Hours {
		closed := "No"
		if h.Closed {
			closed = "Yes"
		}
		writer.Write([]string{
			fmt.Sprintf("%02d:00", h.Hour),
			strconv.FormatFloat(h.ArrivalRate, 'f', 2, 64),
			strconv.FormatFloat(h.OfferedLoad, 'f', 3, 64),
			strconv.Itoa(h.Servers),
			strconv.FormatFloat(h.DelayProbability, 'f', 4, 64),
			strconv.Itoa(h.Iterations),
			closed,
		})
	}

	writer.Flush()
	return sb.String()
}
