package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Modules gate trace and debug output; Info and above always pass.
const (
	EncoderMonitoring = "x86_enc"   // Instruction encoding
	LabelMonitoring   = "x86_label" // Label binding and patching
	PaddingMonitoring = "x86_pad"   // Alignment padding
	ConfigMonitoring  = "x86_cfg"   // Configuration loading
	CLIMonitoring     = "jitasm"    // Command line tool
	ParserMonitoring  = "asmtext"   // Assembly text parsing
)

var knownModules = []string{EncoderMonitoring, LabelMonitoring, PaddingMonitoring, ConfigMonitoring, CLIMonitoring, ParserMonitoring}

// The encoder is silent until a command installs a logger.
var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
}

// InitLogger installs a colored terminal logger on stderr.
func InitLogger(logLevel string) error {
	lvl, err := ParseLevel(logLevel)
	if err != nil {
		return err
	}
	SetDefault(NewLogger(NewTerminalHandlerWithLevel(os.Stderr, lvl, true)))
	return nil
}

func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

func Root() Logger {
	return root.Load().(Logger)
}

// New returns the root logger with kv attached to every record.
func New(kv ...any) Logger {
	return Root().With(kv...)
}

var modules = struct {
	sync.RWMutex
	on map[string]bool
}{on: make(map[string]bool)}

func KnownModules() []string {
	return append([]string(nil), knownModules...)
}

func EnableModule(module string) {
	modules.Lock()
	modules.on[module] = true
	modules.Unlock()
}

func DisableModule(module string) {
	modules.Lock()
	delete(modules.on, module)
	modules.Unlock()
}

// EnableModules takes a comma separated list; "all" means every known module.
func EnableModules(list string) {
	for _, module := range strings.Split(list, ",") {
		switch module = strings.TrimSpace(module); module {
		case "":
		case "all":
			for _, m := range knownModules {
				EnableModule(m)
			}
		default:
			EnableModule(module)
		}
	}
}

func IsModuleEnabled(module string) bool {
	modules.RLock()
	defer modules.RUnlock()
	return modules.on[module]
}

func Trace(module, msg string, kv ...any) {
	if IsModuleEnabled(module) {
		Root().Write(LevelTrace, module, msg, kv...)
	}
}

func Debug(module, msg string, kv ...any) {
	if IsModuleEnabled(module) {
		Root().Write(LevelDebug, module, msg, kv...)
	}
}

func Info(module, msg string, kv ...any)  { Root().Write(LevelInfo, module, msg, kv...) }
func Warn(module, msg string, kv ...any)  { Root().Write(LevelWarn, module, msg, kv...) }
func Error(module, msg string, kv ...any) { Root().Write(LevelError, module, msg, kv...) }
