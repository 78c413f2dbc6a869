package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/malyn/groundcontrol/internal/config"
	"github.com/malyn/groundcontrol/internal/logging"
	"github.com/malyn/groundcontrol/internal/metrics"
	"github.com/malyn/groundcontrol/internal/runner"
	"github.com/malyn/groundcontrol/internal/supervisor"
	"github.com/malyn/groundcontrol/internal/version"
	"github.com/spf13/cobra"
)

var (
	checkFlag       bool
	logLevelFlag    string
	logFormatFlag   string
	logFileFlag     string
	metricsAddrFlag string
)

var runCmd = &cobra.Command{
	Use:   "run <config-file>",
	Short: "Start the supervised process set",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&checkFlag, "check", false, "parse the config and exit, without starting any process")
	runCmd.Flags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warn, error")
	runCmd.Flags().StringVar(&logFormatFlag, "log-format", "json", "log format: json, text")
	runCmd.Flags().StringVar(&logFileFlag, "log-file", "", "tee logs to this file in addition to stdout")
	runCmd.Flags().StringVar(&metricsAddrFlag, "metrics-listen", "", "address to serve Prometheus metrics on, e.g. :9090 (empty disables)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfgPath := args[0]

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", cfgPath, err)
	}

	if checkFlag {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d processes)\n", cfgPath, len(cfg.Processes))
		return nil
	}

	if err := logging.ValidateLevel(logLevelFlag); err != nil {
		return err
	}

	logger, cleanup, err := logging.DaemonLogger(logLevelFlag, logFormatFlag, logFileFlag)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	var collector *metrics.Collector
	if metricsAddrFlag != "" {
		collector = metrics.New()
		collector.SetBuildInfo(version.Version, goVersionOrRuntime())
		srv := &http.Server{Addr: metricsAddrFlag, Handler: collector.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
	}

	result, err := supervisor.Run(supervisor.Options{
		Config:  cfg,
		Spawner: runner.ExecSpawner{},
		Env:     environMap(),
		Logger:  logger,
		Metrics: collector,
	})
	if err != nil {
		return err
	}
	if result != supervisor.ResultOK {
		return fmt.Errorf("supervisor exited with result %s", result)
	}
	return nil
}

// environMap converts the process environment into the map[string]string
// form the supervisor and command runner expect.
func environMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}
