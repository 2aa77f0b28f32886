package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agent-staffing/config"
	"agent-staffing/logging"
	"agent-staffing/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	format      string
	logLevel    string
	metricsAddr string
	pushGateway string
	wait        bool

	cfg    *config.Config
	logger *slog.Logger
	runCtx context.Context
)

var validFormats = map[string]bool{"text": true, "json": true, "csv": true}

var rootCmd = &cobra.Command{
	Use:   "agent-staffing",
	Short: "Call-center staffing with Erlang C",
	Long: "agent-staffing sizes call-center staffing per hour: for each hour it finds the\n" +
		"smallest number of agents whose Erlang C probability of waiting meets a target.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !validFormats[format] {
			return fmt.Errorf("format must be one of: text, json, csv (got: %s)", format)
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}

		logCfg := logging.DefaultConfig()
		logCfg.Level = cfg.Log.Level
		logCfg.Format = cfg.Log.Format
		logger = logging.NewLogger(logCfg)

		runCtx = logging.WithRunID(cmd.Context(), logging.NewRunID())
		runCtx = logging.NewContext(runCtx, logger)

		if metricsAddr != "" {
			startMetricsServer(metricsAddr)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		finishMetrics()
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to staffing configuration YAML")
	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "Output format: text|json|csv")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	rootCmd.PersistentFlags().StringVar(&pushGateway, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	rootCmd.PersistentFlags().BoolVar(&wait, "wait", false, "Keep process running after completion to allow for metric scraping")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(callLogCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func startMetricsServer(addr string) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
		logger.Info("metrics server listening", "addr", addr, "path", "/metrics")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server error", "error", err)
		}
	}()
}

// finishMetrics pushes metrics or keeps the process alive for scraping.
func finishMetrics() {
	if pushGateway != "" {
		jobName := "agent_staffing"
		if err := push.New(pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			logger.Error("error pushing to Pushgateway", "url", pushGateway, "error", err)
		} else {
			logger.Info("metrics pushed to Pushgateway", "url", pushGateway)
		}
	}

	if wait && metricsAddr != "" {
		logger.Info("process kept alive for metric scraping, press Ctrl+C to exit")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logger.Info("exiting")
	} else if metricsAddr != "" && pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		time.Sleep(100 * time.Millisecond)
	}
}
