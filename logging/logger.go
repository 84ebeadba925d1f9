package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/preflight/config"
	"github.com/grovetools/preflight/util/pathutil"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	entry := Configure(logrus.New(), loadConfig()).WithField("component", component)
	loggers[component] = entry
	return entry
}

// loadConfig reads the [logging] table from whichever .preflight.toml is active.
// A missing or broken config leaves the defaults in place.
func loadConfig() Config {
	var logCfg Config
	cwd, err := os.Getwd()
	if err != nil {
		return logCfg
	}
	file, _, err := config.NewStore(cwd).Load()
	if err != nil {
		return logCfg
	}
	if err := file.UnmarshalExtension("logging", &logCfg); err != nil {
		logrus.Warnf("Failed to parse 'logging' config: %v", err)
	}
	return logCfg
}

// Configure applies logCfg and the PREFLIGHT_LOG_* environment to logger.
func Configure(logger *logrus.Logger, logCfg Config) *logrus.Logger {
	levelStr := "info"
	if env := os.Getenv("PREFLIGHT_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if os.Getenv("PREFLIGHT_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer

	if logCfg.File.Enabled && logCfg.File.Path != "" {
		logFilePath, err := pathutil.Expand(logCfg.File.Path)
		if err != nil {
			logFilePath = logCfg.File.Path
		}
		dir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Warnf("Failed to create log directory %s: %v", dir, err)
		} else if file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			writers = append(writers, file)
		} else {
			logger.Warnf("Failed to open log file %s: %v", logFilePath, err)
		}
	}

	if shouldLogToStderr(logger, logCfg.Format.StructuredToStderr) {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		// Status lines already reach the user through PrettyLogger.
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger
}

func shouldLogToStderr(logger *logrus.Logger, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		isDebug := os.Getenv("PREFLIGHT_DEBUG") == "1" || logger.GetLevel() >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || (!isInteractive && os.Getenv("CI") != "")
	}
}
