package main

import (
	"fmt"

	"agent-staffing/formatter"
	"agent-staffing/models"

	"github.com/spf13/cobra"
)

func writePlan(cmd *cobra.Command, plan *models.StaffingPlan) error {
	var out string
	switch format {
	case "json":
		out = formatter.FormatPlanJSON(plan)
	case "csv":
		out = formatter.FormatPlanCSV(plan)
	default: // "text"
		out = formatter.FormatPlanText(plan)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func writeSchedule(cmd *cobra.Command, schedule *models.Schedule) error {
	var out string
	switch format {
	case "json":
		out = formatter.FormatJSON(schedule)
	case "csv":
		out = formatter.FormatCSV(schedule)
	default: // "text"
		out = formatter.FormatText(schedule)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
