package main

import (
	"errors"

	"agent-staffing/config"
	"agent-staffing/models"
	"agent-staffing/scheduler"

	"github.com/spf13/cobra"
)

const hoursPerDay = 24

var (
	solveLoad        string
	solveServiceRate float64
	solveTarget      float64
	solveMaxServers  int
	solveClosedHours string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve staffing for a list of hourly arrivals",
	Long: "solve finds the agents needed per hour for the hourly arrivals given with --load\n" +
		"or hourly_load in the config file, then applies closed hours.",
	RunE: func(cmd *cobra.Command, args []string) error {
		loads := cfg.HourlyLoad
		if cmd.Flags().Changed("load") {
			var err error
			if loads, err = config.ParseLoads(solveLoad); err != nil {
				return err
			}
		}
		if len(loads) == 0 {
			return errors.New("no hourly load given: use --load or hourly_load in --config")
		}
		applyStaffingFlags(cmd, &solveServiceRate, &solveTarget, &solveMaxServers)
		closed, err := closedHours(cmd, solveClosedHours, len(loads))
		if err != nil {
			return err
		}

		plan, err := scheduler.Plan(runCtx, loads, cfg.ServiceRate, cfg.TargetProbability, cfg.MaxServers)
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
	solveCmd.Flags().StringVar(&solveLoad, "load", "", "Comma separated arrivals per hour (e.g. 6.75,1.75,...)")
	addStaffingFlags(solveCmd, &solveServiceRate, &solveTarget, &solveMaxServers, &solveClosedHours)
}

// addStaffingFlags registers the flags shared by solve and calllog.
func addStaffingFlags(cmd *cobra.Command, serviceRate, target *float64, maxServers *int, closed *string) {
	cmd.Flags().Float64Var(serviceRate, "service-rate", 0, "Calls per hour one agent handles (overrides config)")
	cmd.Flags().Float64Var(target, "target", 0, "Target probability of waiting, within (0, 1) (overrides config)")
	cmd.Flags().IntVar(maxServers, "max-servers", 0, "Maximum agents tried per hour (overrides config)")
	cmd.Flags().StringVar(closed, "closed-hours", "", "Comma separated closed hours, or none (overrides config, which only applies to 24-hour loads)")
}

// applyStaffingFlags copies explicitly set flags over the loaded config.
func applyStaffingFlags(cmd *cobra.Command, serviceRate, target *float64, maxServers *int) {
	if cmd.Flags().Changed("service-rate") {
		cfg.ServiceRate = *serviceRate
	}
	if cmd.Flags().Changed("target") {
		cfg.TargetProbability = *target
	}
	if cmd.Flags().Changed("max-servers") {
		cfg.MaxServers = *maxServers
	}
}

// closedHours returns the hours to close. Hours given on the command line are
// always applied; configured ones only when the plan covers a whole day.
func closedHours(cmd *cobra.Command, flagValue string, buckets int) ([]int, error) {
	if cmd.Flags().Changed("closed-hours") {
		return config.ParseHours(flagValue)
	}
	if buckets != hoursPerDay {
		if len(cfg.ClosedHours) > 0 {
			logger.DebugContext(runCtx, "configured closed hours skipped",
				"hours", cfg.ClosedHours, "buckets", buckets)
		}
		return nil, nil
	}
	return cfg.ClosedHours, nil
}

func closeHours(plan *models.StaffingPlan, hours []int) error {
	if len(hours) == 0 {
		return nil
	}
	if err := plan.CloseHours(hours...); err != nil {
		return err
	}
	scheduler.RecordPlan(plan)
	logger.InfoContext(runCtx, "closed hours applied", "hours", hours, "server_hours", plan.TotalServerHours())
	return nil
}
