package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the configuration for the logger
type Config struct {
	Level         string `yaml:"level"          json:"level"`
	FilePath      string `yaml:"file_path"      json:"file_path"`
	Format        string `yaml:"format"         json:"format"`
	EnableConsole bool   `yaml:"enable_console" json:"enable_console"`
}

// Initialize builds the global logger from config. With neither console nor
// file output enabled, logging is discarded.
func Initialize(config Config) error {
	logLevel := config.Level
	if logLevel == "" {
		logLevel = InfoLogLevel
	}
	level := getZapLevel(logLevel)

	var (
		cores []zapcore.Core
		file  *os.File
	)

	if config.EnableConsole {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	if config.FilePath != "" {
		fileEncoderConfig := consoleEncoderConfig()
		fileEncoderConfig.CallerKey = "caller"
		fileEncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

		var encoder zapcore.Encoder
		if config.Format == "json" {
			encoder = zapcore.NewJSONEncoder(fileEncoderConfig)
		} else {
			encoder = zapcore.NewConsoleEncoder(fileEncoderConfig)
		}

		var err error
		file, err = os.OpenFile(
			config.FilePath,
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			LogFilePermissions,
		)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(LoggerName)

	loggerMutex.Lock()
	previous := logFile
	GlobalLogLevel = logLevel
	globalLogger = l
	logFile = file
	loggerMutex.Unlock()

	if previous != nil {
		_ = previous.Sync()
		if err := previous.Close(); err != nil {
			return fmt.Errorf("failed to close previous log file: %w", err)
		}
	}
	return nil
}
