// jitasm encodes Intel syntax x86-64 through the JIT assembler.
package main

import (
	"fmt"
	"os"

	"github.com/colorfulnotion/x86jit/config"
	"github.com/colorfulnotion/x86jit/cpu"
	log "github.com/colorfulnotion/x86jit/log"
	"github.com/colorfulnotion/x86jit/x86"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// settings are the persistent flags shared by every subcommand.
type settings struct {
	configPath string
	vendor     string
	useAVX     int
	production bool
	logLevel   string
	debug      string
	features   []string
}

// resolve layers defaults, the config file, X86JIT_* variables and finally
// explicitly set flags.
func (s *settings) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	var err error
	if s.configPath != "" {
		if cfg, err = config.Load(s.configPath); err != nil {
			return cfg, err
		}
	}
	if cfg, err = config.FromEnv(cfg); err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("vendor") {
		cfg.Vendor = s.vendor
	}
	if flags.Changed("use-avx") {
		cfg.UseAVX = s.useAVX
	}
	if flags.Changed("production") {
		cfg.Production = s.production
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = s.logLevel
	}
	if flags.Changed("debug") {
		cfg.DebugModules = s.debug
	}
	if flags.Changed("features") {
		cfg.Features = s.features
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, cfg.ApplyLogging()
}

// session is what every command needs to build an assembler.
type session struct {
	cfg      config.Config
	features cpu.Query
	opts     x86.Options
}

func (s *settings) session(cmd *cobra.Command) (*session, error) {
	cfg, err := s.resolve(cmd)
	if err != nil {
		return nil, err
	}
	q, err := cfg.Query()
	if err != nil {
		return nil, err
	}
	log.Debug(log.CLIMonitoring, "session", "vendor", q.Vendor(), "use_avx", cfg.UseAVX, "production", cfg.Production)
	return &session{cfg: cfg, features: q, opts: x86.OptionsFromConfig(cfg)}, nil
}

func newRootCmd() *cobra.Command {
	s := &settings{}
	rootCmd := &cobra.Command{
		Use:           "jitasm",
		Short:         "x86-64 JIT encoder front end",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&s.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&s.vendor, "vendor", "", "CPU vendor for padding (intel, amd, hygon, zhaoxin)")
	pf.IntVar(&s.useAVX, "use-avx", 3, "Highest AVX generation to emit (0-3)")
	pf.BoolVar(&s.production, "production", false, "Use vendor tuned multi-byte NOPs")
	pf.StringVar(&s.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&s.debug, "debug", "", "Comma separated debug modules")
	pf.StringSliceVar(&s.features, "features", nil, "Explicit feature list instead of host detection ('all' for every feature)")

	rootCmd.AddCommand(newEncodeCmd(s), newPadCmd(s), newReplCmd(s), newFeaturesCmd(s))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jitasm: %v\n", err)
		os.Exit(1)
	}
}
