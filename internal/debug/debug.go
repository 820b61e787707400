package debug

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (server start, project load)
	LevelLive    = 2 // Live info (rebuilds, drag transitions)
	LevelVerbose = 3 // Verbose (physics, optics, DORI details)
	LevelTrace   = 4 // Trace (hash hits, pointer events)
)

var (
	level  int
	logger *zap.SugaredLogger
	cores  []zapcore.Core
)

// FileConfig holds rotating file output settings.
type FileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultFileConfig returns default file logging settings for path.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Init initializes the debug system with a level (0-4) on stdout.
// 0 = no output
// 1 = important info (server, project load/save)
// 2 = live info (coverage rebuilds, drag start/stop)
// 3 = verbose (physics ranges, optics, DORI distances)
// 4 = trace (hash hits, every pointer move)
func Init(debugLevel int) {
	_ = InitWithFile(debugLevel, FileConfig{}, true)
}

// InitWithFile initializes the debug system with an optional rotating
// log file. Set console to false to silence stdout (tests).
func InitWithFile(debugLevel int, fileCfg FileConfig, console bool) error {
	level = debugLevel
	logger = nil
	cores = nil
	if level <= LevelOff {
		return nil
	}

	if console {
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			MessageKey:       "msg",
			EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05.000"),
			EncodeLevel:      zapcore.CapitalColorLevelEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), zapcore.DebugLevel))
	}
	if fileCfg.Path != "" {
		if err := os.MkdirAll(dirOf(fileCfg.Path), 0o755); err != nil {
			return fmt.Errorf("debug: log directory: %w", err)
		}
		w := &lumberjack.Logger{
			Filename:   fileCfg.Path,
			MaxSize:    fileCfg.MaxSizeMB,
			MaxBackups: fileCfg.MaxBackups,
			MaxAge:     fileCfg.MaxAgeDays,
			Compress:   fileCfg.Compress,
			LocalTime:  true,
		}
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			MessageKey:       "msg",
			EncodeTime:       zapcore.ISO8601TimeEncoder,
			EncodeLevel:      zapcore.CapitalLevelEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.DebugLevel))
	}
	build()
	return nil
}

func build() {
	if len(cores) == 0 {
		logger = nil
		return
	}
	logger = zap.New(zapcore.NewTee(cores...)).Named("coverplan").Sugar()
}

// Tee also sends info and error lines to w, one message per Write.
// It does nothing while logging is off.
func Tee(w io.Writer) {
	if level <= LevelOff {
		return
	}
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.LowercaseLevelEncoder,
		ConsoleSeparator: " ",
	})
	cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.InfoLevel))
	build()
}

func dirOf(path string) string {
	i := strings.LastIndexAny(path, `/\`)
	if i <= 0 {
		return "."
	}
	return path[:i]
}

// ParseLevel converts a level name ("off", "info", "live", "verbose",
// "trace") or digit to a level.
func ParseLevel(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "0":
		return LevelOff, nil
	case "info", "1":
		return LevelInfo, nil
	case "live", "2":
		return LevelLive, nil
	case "verbose", "debug", "3":
		return LevelVerbose, nil
	case "trace", "4":
		return LevelTrace, nil
	}
	return LevelOff, fmt.Errorf("unknown log level %q", s)
}

// Sync flushes buffered entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel && logger != nil
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if IsEnabled(LevelInfo) {
		logger.Infof(format, args...)
	}
}

// Summary prints an important banner (level 1).
func Summary(title string) {
	if IsEnabled(LevelInfo) {
		logger.Info("═══════════════════════════════════════")
		logger.Infof("  %s", title)
		logger.Info("═══════════════════════════════════════")
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if IsEnabled(LevelLive) {
		logger.Infow(fmt.Sprintf(format, args...), "lvl", "live")
	}
}

// Rebuild reports a coverage shape rebuild (level 2).
func Rebuild(cameraID string, layers int) {
	if IsEnabled(LevelLive) {
		logger.Infow("coverage rebuilt", "camera", cameraID, "layers", layers)
	}
}

// Drag reports an interaction state transition (level 2).
func Drag(cameraID, from, to string) {
	if IsEnabled(LevelLive) {
		logger.Infow("interaction", "camera", cameraID, "from", from, "to", to)
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if IsEnabled(LevelVerbose) {
		logger.Debugf(format, args...)
	}
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if IsEnabled(LevelVerbose) {
		logger.Debugf("%s: %+v", name, v)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if IsEnabled(LevelVerbose) {
		logger.Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Debugf("  %s", name)
		logger.Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	if IsEnabled(LevelVerbose) {
		logger.Debugf("Step %d: %s", num, description)
	}
}

// Value prints a named value (level 3).
func Value(name string, value interface{}) {
	if IsEnabled(LevelVerbose) {
		logger.Debugw("value", "name", name, "value", value)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace).
func Trace(format string, args ...interface{}) {
	if IsEnabled(LevelTrace) {
		logger.Debugw(fmt.Sprintf(format, args...), "lvl", "trace")
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if IsEnabled(LevelInfo) {
		logger.Error(err)
	}
}
