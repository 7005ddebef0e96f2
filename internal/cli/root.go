package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eventgen/internal/config"
)

// flagValues mirrors the run/config flags before they are merged into a Config.
type flagValues struct {
	configPath     string
	cfg            config.Config
	gracePeriod    time.Duration
	statusInterval time.Duration
}

// Execute runs the eventgen command tree with os.Args.
func Execute() error { return NewRootCmd().Execute() }

// NewRootCmd constructs the Cobra command tree.
func NewRootCmd() *cobra.Command {
	fv := &flagValues{cfg: config.Default()}

	root := &cobra.Command{
		Use:           "eventgen",
		Short:         "Periodic multi-severity log event generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags -> Config
	pf := root.PersistentFlags()
	pf.StringVar(&fv.configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	pf.StringVar(&fv.cfg.Addr, "addr", fv.cfg.Addr, "HTTP listen address, e.g. :8080 (env EVENTGEN_ADDR)")
	pf.BoolVar(&fv.cfg.DisableHTTP, "no-http", false, "Do not serve the status API")
	pf.StringVar(&fv.cfg.LogLevel, "log-level", fv.cfg.LogLevel, "Sink log level: debug|info|warn|error")
	pf.StringVar(&fv.cfg.LogFormat, "log-format", fv.cfg.LogFormat, "Sink log format: console|json")
	pf.StringVar(&fv.cfg.AccessLogLevel, "access-log-level", fv.cfg.AccessLogLevel, "HTTP access log level: off|error|info|debug")
	pf.StringVar(&fv.cfg.LogFile, "log-file", "", "Write sink records to this file instead of stdout")
	pf.StringVar(&fv.cfg.OTelEndpoint, "otel-endpoint", "", "OTLP/HTTP endpoint for the telemetry sink (disabled when empty)")
	pf.StringVar(&fv.cfg.ServiceName, "service-name", fv.cfg.ServiceName, "Service name reported to the telemetry backend")
	pf.DurationVar(&fv.gracePeriod, "grace-period", fv.cfg.GracePeriod.Std(), "Wait after flushing before exit")
	pf.DurationVar(&fv.statusInterval, "status-interval", fv.cfg.StatusInterval.Std(), "Console status line interval (0 disables)")
	pf.BoolVar(&fv.cfg.CORSEnabled, "cors-enabled", false, "Enable CORS on the status API")
	pf.StringSliceVar(&fv.cfg.CORSOrigins, "cors-origins", nil, "Allowed CORS origins (comma separated)")

	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Start the generator and serve counters until interrupted",
		Example: "  eventgen run\n  eventgen run --config eventgen.yaml --log-format json\n  eventgen run --no-http --status-interval 1s",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, fv)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return fnRun(ctx, cfg, cmd.ErrOrStderr())
		},
	}
	root.AddCommand(runCmd)

	configCmd := &cobra.Command{Use: "config", Short: "Inspect configuration", RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("config requires a subcommand: print")
	}}
	configPrint := &cobra.Command{Use: "print", Short: "Print the effective configuration as YAML", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, fv)
		if err != nil {
			return err
		}
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}}
	configCmd.AddCommand(configPrint)
	root.AddCommand(configCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout()) }})
	root.AddCommand(completionCmd)

	return root
}

// resolveConfig layers defaults, the config file, EVENTGEN_* variables and
// explicitly set flags, in that order, then validates the result.
func resolveConfig(cmd *cobra.Command, fv *flagValues) (config.Config, error) {
	cfg := config.Default()
	if fv.configPath != "" {
		loaded, err := config.Load(fv.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("addr", func() { cfg.Addr = fv.cfg.Addr })
	set("no-http", func() { cfg.DisableHTTP = fv.cfg.DisableHTTP })
	set("log-level", func() { cfg.LogLevel = fv.cfg.LogLevel })
	set("log-format", func() { cfg.LogFormat = fv.cfg.LogFormat })
	set("access-log-level", func() { cfg.AccessLogLevel = fv.cfg.AccessLogLevel })
	set("log-file", func() { cfg.LogFile = fv.cfg.LogFile })
	set("otel-endpoint", func() { cfg.OTelEndpoint = fv.cfg.OTelEndpoint })
	set("service-name", func() { cfg.ServiceName = fv.cfg.ServiceName })
	set("grace-period", func() { cfg.GracePeriod = config.Duration(fv.gracePeriod) })
	set("status-interval", func() { cfg.StatusInterval = config.Duration(fv.statusInterval) })
	set("cors-enabled", func() { cfg.CORSEnabled = fv.cfg.CORSEnabled })
	set("cors-origins", func() { cfg.CORSOrigins = fv.cfg.CORSOrigins })
	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
