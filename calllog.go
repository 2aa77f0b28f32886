package main

import (
	"fmt"
	"os"
	"time"

	"agent-staffing/demand"
	"agent-staffing/parser"
	"agent-staffing/scheduler"

	"github.com/spf13/cobra"
)

var (
	callLogInput       string
	callLogWeekday     string
	callLogWrapUp      time.Duration
	callLogServiceRate float64
	callLogTarget      float64
	callLogMaxServers  int
	callLogClosedHours string
	callLogEstimate    bool
	callLogDays        int
)

var callLogCmd = &cobra.Command{
	Use:   "calllog",
	Short: "Estimate hourly demand from a call log and solve staffing",
	Long: "calllog reads a tab-separated call log, averages arrivals per hour over every\n" +
		"occurrence of the selected weekday in the log's date range and solves staffing\n" +
		"for those arrivals.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if callLogInput == "" {
			return fmt.Errorf("--input is required")
		}
		if cmd.Flags().Changed("weekday") {
			cfg.Weekday = callLogWeekday
		}
		if cmd.Flags().Changed("wrap-up") {
			cfg.WrapUpSeconds = callLogWrapUp.Seconds()
		}
		weekday, err := demand.ParseWeekday(cfg.Weekday)
		if err != nil {
			return err
		}
		applyStaffingFlags(cmd, &callLogServiceRate, &callLogTarget, &callLogMaxServers)
		closed, err := closedHours(cmd, callLogClosedHours, hoursPerDay)
		if err != nil {
			return err
		}

		file, err := os.Open(callLogInput)
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer file.Close()

		records, err := parser.ParseCallLog(file)
		if err != nil {
			return fmt.Errorf("error parsing file: %w", err)
		}
		records = demand.Clean(records)

		days := callLogDays
		if days <= 0 {
			days = demand.CalendarDays(records, weekday)
		}
		arrivals := demand.HourlyArrivalRatesOver(records, weekday, days)
		logger.InfoContext(runCtx, "hourly arrivals estimated",
			"weekday", weekday.String(),
			"days", days,
			"days_with_calls", demand.Days(records, weekday),
			"records", len(records),
			"mean_wait_seconds", demand.MeanWaitTime(records, weekday),
		)

		if callLogEstimate {
			rate, err := demand.ServiceRate(records, weekday, cfg.WrapUp())
			if err != nil {
				return err
			}
			logger.InfoContext(runCtx, "service rate estimated", "calls_per_hour", rate, "wrap_up", cfg.WrapUp())
			if !cmd.Flags().Changed("service-rate") {
				cfg.ServiceRate = rate
			}
		}

		plan, err := scheduler.Plan(runCtx, arrivals, cfg.ServiceRate, cfg.TargetProbability, cfg.MaxServers)
		if err != nil {
			return err
		}
		if err := closeHours(plan, closed); err != nil {
			return err
		}
		return writePlan(cmd, plan)
	},
}

func init() {
	callLogCmd.Flags().StringVar(&callLogInput, "input", "", "Tab-separated call log file (required)")
	callLogCmd.Flags().StringVar(&callLogWeekday, "weekday", "", "Weekday to analyse (overrides config, default Wednesday)")
	callLogCmd.Flags().DurationVar(&callLogWrapUp, "wrap-up", demand.DefaultWrapUp, "Agent wrap-up time after each call (overrides config)")
	callLogCmd.Flags().IntVar(&callLogDays, "days", 0, "Number of weekdays to average over (0 = every such weekday in the log's date range)")
	callLogCmd.Flags().BoolVar(&callLogEstimate, "estimate-service-rate", false, "Use the service rate measured in the log instead of the configured one")
	addStaffingFlags(callLogCmd, &callLogServiceRate, &callLogTarget, &callLogMaxServers, &callLogClosedHours)
}
