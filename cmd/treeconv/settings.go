package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"treeconv/internal/config"
	"treeconv/internal/convert"
	"treeconv/internal/driver"
	"treeconv/internal/trace"
)

// settings is treeconv.toml with command-line overrides applied.
type settings struct {
	driver  driver.Options
	trace   config.TraceConfig
	cache   bool
	color   bool
	quiet   bool
	timings bool
	format  string // diagnostics format: pretty or json
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	flags := cmd.Root().PersistentFlags()

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.LoadNearest(".")
	}
	if err != nil {
		return settings{}, err
	}

	if flags.Changed("jobs") {
		if cfg.Convert.Jobs, err = flags.GetInt("jobs"); err != nil {
			return settings{}, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("max-diagnostics") {
		if cfg.Convert.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return settings{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if flags.Changed("case-sensitive") {
		sensitive, err := flags.GetBool("case-sensitive")
		if err != nil {
			return settings{}, fmt.Errorf("failed to get case-sensitive flag: %w", err)
		}
		cfg.Convert.CaseInsensitiveNames = !sensitive
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if err := applyTraceFlags(cmd, &cfg.Trace); err != nil {
		return settings{}, err
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}

	s := settings{
		driver: driver.Options{
			Jobs:           cfg.Convert.Jobs,
			MaxDiagnostics: cfg.Convert.MaxDiagnostics,
			Convert:        convert.Options{CaseInsensitiveNames: cfg.Convert.CaseInsensitiveNames},
		},
		trace: cfg.Trace,
		cache: cfg.Cache.Enabled && !noCache,
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		s.color = true
	case "off":
	case "auto", "":
		s.color = isTerminal(os.Stderr)
	default:
		return settings{}, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return settings{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return settings{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	// Timings are per run; a cached result has none.
	if s.timings {
		s.driver.Timings = true
		s.cache = false
	}
	s.format = "pretty"
	if f := cmd.Flags().Lookup("format"); f != nil {
		s.format = strings.ToLower(f.Value.String())
	}
	switch s.format {
	case "pretty", "json":
	default:
		return settings{}, fmt.Errorf("unsupported format %q (must be pretty or json)", s.format)
	}
	return s, nil
}

// applyTraceFlags overrides [trace] with the flags the user set.
func applyTraceFlags(cmd *cobra.Command, tc *config.TraceConfig) error {
	flags := cmd.Root().PersistentFlags()
	for name, dst := range map[string]*string{
		"trace":       &tc.Output,
		"trace-level": &tc.Level,
		"trace-mode":  &tc.Mode,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if flags.Changed("trace-heartbeat") {
		d, err := flags.GetDuration("trace-heartbeat")
		if err != nil {
			return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
		}
		tc.Heartbeat = d.String()
	}
	// Output without a level means the user wants a trace.
	if tc.Output != "" && (tc.Level == "" || strings.EqualFold(tc.Level, trace.LevelOff.String())) && !flags.Changed("trace-level") {
		tc.Level = trace.LevelPhase.String()
	}
	return nil
}
