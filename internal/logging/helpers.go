package logging

import (
	"fmt"
	"strings"
)

// LogLevelFromString converts string to LogLevel
func LogLevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// InitializeFromConfig initializes the global logger from configuration.
func InitializeFromConfig(component string, logConfig LogConfig) (*Logger, error) {
	bufferSize := logConfig.BufferSize
	if bufferSize <= 0 {
		bufferSize = 256
	}

	cfg := Config{
		Level:         LogLevelFromString(logConfig.Level),
		LogFile:       logConfig.LogFile,
		EnableConsole: logConfig.EnableConsole,
		EnableFile:    logConfig.EnableFile && logConfig.LogFile != "",
		BufferSize:    bufferSize,
	}

	logger := NewLogger(cfg)
	SetGlobalLogger(logger)

	if logConfig.EnableFile && logConfig.LogFile == "" {
		return nil, fmt.Errorf("logging.log_file must be set when enable_file is true")
	}

	logger.Info(nil, component, ActionStart, "logger initialized", map[string]interface{}{
		"level": logConfig.Level,
	})

	return logger, nil
}

// LogConfig represents logging configuration (matching the YAML structure
// in pkg/config.LoggingConfig).
type LogConfig struct {
	Level         string
	EnableConsole bool
	EnableFile    bool
	LogFile       string
	BufferSize    int
}

// ComponentNames for structured logging, one per setindex data structure
// plus the ingestion and CLI glue around them.
const (
	ComponentBloom    = "bloom"
	ComponentCuckoo   = "cuckoo"
	ComponentSkipList = "skiplist"
	ComponentIngest   = "ingest"
	ComponentConfig   = "config"
	ComponentMain     = "main"
)

// ActionNames for structured logging.
const (
	ActionStart    = "start"
	ActionStop     = "stop"
	ActionConstruct = "construct"
	ActionAdd      = "add"
	ActionContains = "contains"
	ActionDelete   = "delete"
	ActionKick     = "kick"
	ActionRetry    = "retry"
	ActionValidation = "validation"
	ActionCleanup  = "cleanup"
)
