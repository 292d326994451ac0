// Package cmd provides the command-line interface of manycore.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/manycore/attributes"
	"github.com/sarchlab/manycore/config"
	"github.com/sarchlab/manycore/ingest"
	"github.com/sarchlab/manycore/routing"
	"github.com/sarchlab/manycore/topology"
)

// LogLevelEnv names the environment variable that sets the default log level.
const LogLevelEnv = "MANYCORE_LOG_LEVEL"

var (
	logLevel string
	logJSON  bool
	workers  int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "manycore",
	Short: "Route task graphs on manycore meshes and inspect the loads.",
	Long: `manycore reads a mesh configuration (XML, YAML or HCL), validates it, ` +
		`routes the task graph with a deterministic algorithm and reports the ` +
		`resulting channel loads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd.ErrOrStderr())
	},
}

func init() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	defaultLevel := os.Getenv(LogLevelEnv)
	if defaultLevel == "" {
		defaultLevel = "warn"
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLevel,
		"log level: trace, debug, info, warn or error (env "+LogLevelEnv+")")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"write logs as JSON")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0,
		"number of goroutines validating cores, 0 for one per CPU")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return routing.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func setupLogging(w io.Writer) error {
	level, err := parseLevel(logLevel)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if logJSON {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

// loadValidated reads and validates a configuration file.
func loadValidated(
	path string,
) (*topology.System, *attributes.Configurable, error) {
	sys, err := config.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	configurable, err := ingest.MakeBuilder().
		WithWorkers(workers).
		Build().
		Validate(sys)
	if err != nil {
		return nil, nil, err
	}

	return sys, configurable, nil
}

// pickAlgorithm parses the algorithm flag. An empty flag falls back to the
// algorithm the configuration was observed with, then to RowFirst.
func pickAlgorithm(flag string, sys *topology.System) (routing.Algorithm, error) {
	if flag == "" {
		flag = sys.ObservedAlgorithm
	}

	if flag == "" {
		return routing.RowFirst, nil
	}

	return routing.ParseAlgorithm(flag)
}
