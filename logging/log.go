package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// A Level is a logging priority. Higher levels are more important.
type Level int8

// Logging levels (matching zap core internals).
const (
	// DebugLevel logs are typically voluminous, and are usually disabled in
	// production.
	DebugLevel Level = -1
	// InfoLevel is the default logging priority.
	InfoLevel Level = 0
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel Level = 1
	// ErrorLevel logs are high-priority. If an application is running smoothly,
	// it shouldn't generate any error-level logs.
	ErrorLevel Level = 2
	// PanicLevel logs a message, then panics.
	PanicLevel Level = 4
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel Level = 5
)

func (l Level) String() string {
	return l.ZapLevel().String()
}

func (l Level) ZapLevel() zapcore.Level {
	return zapcore.Level(l)
}

// ParseLevel converts a level name into a Level value.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "panic":
		return PanicLevel, nil
	case "fatal":
		return FatalLevel, nil
	}
	return Level(100), fmt.Errorf("invalid log level: %v", level)
}

type Logger struct {
	*zap.Logger
	config *zap.Config
	name   string
}

func New(core zapcore.Core, cfg *zap.Config) *Logger {
	return &Logger{
		Logger: zap.New(core),
		config: cfg,
		name:   "",
	}
}

func (log *Logger) Clone() *Logger {
	newConfig := cloneConfig(log.config)
	newLogger, err := newConfig.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{
		Logger: newLogger,
		config: newConfig,
		name:   log.name,
	}
}

func (log *Logger) GetLevel() Level {
	return (Level)(log.config.Level.Level())
}

func (log *Logger) GetName() string {
	return log.name
}

// Named returns a clone of the logger with the given name appended to its
// current name, separated by a period.
func (log *Logger) Named(name string) *Logger {
	c := log.Clone()
	newName := name
	if log.name != "" {
		newName = fmt.Sprintf("%s.%s", log.name, name)
	}
	return &Logger{
		Logger: c.Logger.Named(newName),
		config: c.config,
		name:   newName,
	}
}

func (log *Logger) SetLevel(level Level) {
	lvl := (zapcore.Level)(level)
	if log.config.Level.Level() == lvl {
		return
	}
	log.config.Level.SetLevel(lvl)
}

func (log *Logger) With(fields ...zap.Field) *Logger {
	c := log.Clone()
	return &Logger{
		Logger: c.Logger.With(fields...),
		config: c.config,
		name:   c.name,
	}
}

// IsDebug returns true if the logger level is at debug or below, used to
// guard expensive debug-only field construction.
func (log *Logger) IsDebug() bool {
	return log.GetLevel() <= DebugLevel
}

// AtExit flushes the logs before exiting the process. Meant to be used
// with defer when initializing the logger.
func (log *Logger) AtExit() {
	if log.Logger != nil {
		log.Logger.Sync()
	}
}

func cloneConfig(cfg *zap.Config) *zap.Config {
	c := zap.Config{
		Level:             zap.NewAtomicLevelAt(cfg.Level.Level()),
		Development:       cfg.Development,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Sampling:          nil,
		Encoding:          cfg.Encoding,
		EncoderConfig:     cfg.EncoderConfig,
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  cfg.ErrorOutputPaths,
		InitialFields:     make(map[string]interface{}),
	}
	for k, v := range cfg.InitialFields {
		c.InitialFields[k] = v
	}
	if cfg.Sampling != nil {
		c.Sampling = &zap.SamplingConfig{
			Initial:    cfg.Sampling.Initial,
			Thereafter: cfg.Sampling.Thereafter,
		}
	}
	return &c
}

// NewLoggerFromEnv builds a logger for the given environment, "dev" gets a
// human readable console logger at debug level, anything else a JSON
// logger at info level.
func NewLoggerFromEnv(env string) *Logger {
	var (
		encoderConfig zapcore.EncoderConfig
		encoder       zapcore.Encoder
		config        zap.Config
		level         zapcore.Level
	)
	switch env {
	case "dev":
		encoderConfig = zapcore.EncoderConfig{
			CallerKey:      "C",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "L",
			LineEnding:     "\n",
			MessageKey:     "M",
			NameKey:        "N",
			TimeKey:        "T",
		}
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		level = zapcore.Level(DebugLevel)
		config = zap.Config{
			Level:            zap.NewAtomicLevelAt(level),
			Development:      true,
			Encoding:         "console",
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		}
	default:
		encoderConfig = zapcore.EncoderConfig{
			CallerKey:      "caller",
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeName:     zapcore.FullNameEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "level",
			LineEnding:     "\n",
			MessageKey:     "message",
			NameKey:        "logger",
			StacktraceKey:  "stacktrace",
			TimeKey:        "@timestamp",
		}
		encoder = zapcore.NewJSONEncoder(encoderConfig)
		level = zapcore.Level(InfoLevel)
		config = zap.Config{
			Level:            zap.NewAtomicLevelAt(level),
			Development:      false,
			Encoding:         "json",
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		}
	}

	core := zapcore.NewCore(encoder, os.Stdout, level)
	return New(core, &config)
}

// NewTestLogger returns a console logger at debug level for use in tests.
func NewTestLogger() *Logger {
	return NewLoggerFromEnv("dev")
}
