package main

import (
	"fmt"
	"os"

	"agent-staffing/parser"
	"agent-staffing/scheduler"

	"github.com/spf13/cobra"
)

var (
	scheduleInput      string
	scheduleTarget     float64
	scheduleCapacity   int
	scheduleMaxServers int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Staff customer call windows from a CSV file",
	Long: "schedule reads customer call windows (name, duration, start, end, calls, priority\n" +
		"and an optional target probability) and staffs every customer-hour with Erlang C,\n" +
		"honouring an optional hourly capacity.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scheduleInput == "" {
			return fmt.Errorf("--input is required")
		}
		if cmd.Flags().Changed("target") {
			cfg.TargetProbability = scheduleTarget
		}
		if cmd.Flags().Changed("capacity") {
			cfg.Capacity = scheduleCapacity
		}
		if cmd.Flags().Changed("max-servers") {
			cfg.MaxServers = scheduleMaxServers
		}

		file, err := os.Open(scheduleInput)
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer file.Close()

		data, err := parser.Parse(file)
		if err != nil {
			return fmt.Errorf("error parsing file: %w", err)
		}

		schedule, err := scheduler.GenerateSchedule(data, scheduler.Options{
			TargetProbability: cfg.TargetProbability,
			MaxServers:        cfg.MaxServers,
			Capacity:          cfg.Capacity,
		})
		if err != nil {
			return err
		}
		logger.InfoContext(runCtx, "schedule generated",
			"customers", len(data),
			"hours_with_unmet_demand", len(schedule.UnmetDemands),
		)
		return writeSchedule(cmd, schedule)
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleInput, "input", "", "Input CSV file (required)")
	scheduleCmd.Flags().Float64Var(&scheduleTarget, "target", 0, "Target probability of waiting, within (0, 1) (overrides config)")
	scheduleCmd.Flags().IntVar(&scheduleCapacity, "capacity", 0, "Maximum agent capacity per hour (0 = unlimited)")
	scheduleCmd.Flags().IntVar(&scheduleMaxServers, "max-servers", 0, "Maximum agents tried per customer-hour (overrides config)")
}
