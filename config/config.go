package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/colorfulnotion/x86jit/log"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvUseAVX     = "X86JIT_USE_AVX"
	EnvProduction = "X86JIT_PRODUCTION"
	EnvVendor     = "X86JIT_VENDOR"
	EnvPanic      = "X86JIT_PANIC"
	EnvLogLevel   = "X86JIT_LOG_LEVEL"
	EnvDebug      = "X86JIT_DEBUG"
	EnvFeatures   = "X86JIT_FEATURES"
	EnvCapacity   = "X86JIT_CAPACITY"
)

// Config drives assembler construction.
type Config struct {
	// UseAVX is the highest AVX generation the encoder may use (0 = legacy SSE only, 3 = AVX-512).
	UseAVX int `yaml:"use_avx"`
	// Production selects vendor tuned multi-byte NOPs instead of 0x90 runs.
	Production bool `yaml:"production"`
	// Vendor overrides the vendor reported by the feature query.
	Vendor       string `yaml:"vendor"`
	PanicOnError bool   `yaml:"panic_on_error"`
	LogLevel     string `yaml:"log_level"`
	DebugModules string `yaml:"debug"`
	// Features replaces host detection when non-empty; "all" enables everything.
	Features []string `yaml:"features"`
	// Capacity limits the code buffer in bytes; 0 means unbounded.
	Capacity int `yaml:"capacity"`
}

func Default() Config {
	return Config{
		UseAVX:   3,
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	log.Debug(log.ConfigMonitoring, "config loaded", "path", path, "use_avx", cfg.UseAVX, "vendor", cfg.Vendor)
	return cfg, cfg.Validate()
}

// FromEnv applies X86JIT_* overrides to base.
func FromEnv(base Config) (Config, error) {
	cfg := base
	if env.Has(EnvUseAVX) {
		cfg.UseAVX = env.Int(EnvUseAVX, cfg.UseAVX)
	}
	if env.Has(EnvProduction) {
		cfg.Production = env.Bool(EnvProduction)
	}
	if env.Has(EnvPanic) {
		cfg.PanicOnError = env.Bool(EnvPanic)
	}
	cfg.Vendor = env.Str(EnvVendor, cfg.Vendor)
	cfg.LogLevel = env.Str(EnvLogLevel, cfg.LogLevel)
	cfg.DebugModules = env.Str(EnvDebug, cfg.DebugModules)
	if env.Has(EnvFeatures) {
		cfg.Features = splitList(env.Str(EnvFeatures))
	}
	if env.Has(EnvCapacity) {
		cfg.Capacity = env.Int(EnvCapacity, cfg.Capacity)
	}
	return cfg, cfg.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks ranges and names without touching the host.
func (c Config) Validate() error {
	if c.UseAVX < 0 || c.UseAVX > 3 {
		return fmt.Errorf("config: use_avx must be 0..3, got %d", c.UseAVX)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("config: capacity must be >= 0, got %d", c.Capacity)
	}
	if _, err := cpu.ParseVendor(c.Vendor); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	for _, name := range c.Features {
		if name == "all" || name == "host" {
			continue
		}
		if _, err := cpu.ParseFeature(name); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// Query builds the feature query: the host processor unless Features
// names an explicit set. "host" in the list adds the host features.
func (c Config) Query() (cpu.Query, error) {
	vendor, err := cpu.ParseVendor(c.Vendor)
	if err != nil {
		return nil, err
	}
	if len(c.Features) == 0 {
		return cpu.Host(vendor), nil
	}
	set := cpu.NewSet(vendor)
	for _, name := range c.Features {
		switch name {
		case "all":
			for _, f := range cpu.AllFeatures() {
				set.Add(f)
			}
		case "host":
			host := cpu.Snapshot(cpu.Host(vendor))
			for _, f := range cpu.AllFeatures() {
				if host.Supports(f) {
					set.Add(f)
				}
			}
		default:
			f, err := cpu.ParseFeature(name)
			if err != nil {
				return nil, err
			}
			set.Add(f)
		}
	}
	return set, nil
}

// ApplyLogging installs the root logger and enables debug modules.
func (c Config) ApplyLogging() error {
	if c.LogLevel != "" {
		if err := log.InitLogger(c.LogLevel); err != nil {
			return err
		}
	}
	log.EnableModules(c.DebugModules)
	return nil
}
