// nolint:forbidigo // allow usage of the "zap" package
package log

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewCliLogger creates a logger for the command line interface.
//   - info messages are written to stdout
//   - warnings and errors are written to stderr
//   - debug messages are written to stdout only in the verbose mode
//   - all messages are written to the log file, if any
func NewCliLogger(stdout io.Writer, stderr io.Writer, logFile *File, format LogFormat, verbose bool) Logger {
	var cores []zapcore.Core

	// Log to file
	if logFile != nil {
		cores = append(cores, fileCore(logFile))
	}

	// Log to stdout
	cores = append(cores, stdoutCore(stdout, format, verbose))

	// Log to stderr
	cores = append(cores, stderrCore(stderr, format, verbose))

	return loggerFromZapCore(zapcore.NewTee(cores...))
}

func stdoutCore(stdout io.Writer, format LogFormat, verbose bool) zapcore.Core {
	levels := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l == InfoLevel
	})
	if verbose {
		levels = func(l zapcore.Level) bool {
			return l >= DebugLevel && l <= InfoLevel
		}
	}
	return zapcore.NewCore(consoleEncoder(format, verbose), zapcore.AddSync(stdout), levels)
}

func stderrCore(stderr io.Writer, format LogFormat, verbose bool) zapcore.Core {
	return zapcore.NewCore(consoleEncoder(format, verbose), zapcore.AddSync(stderr), zapcore.WarnLevel)
}

// fileCore writes all messages as JSON lines.
func fileCore(logFile *File) zapcore.Core {
	return zapcore.NewCore(jsonEncoder(), zapcore.AddSync(logFile.File()), zapcore.DebugLevel)
}

func consoleEncoder(format LogFormat, verbose bool) zapcore.Encoder {
	if format == LogFormatJSON {
		return jsonEncoder()
	}

	config := zapcore.EncoderConfig{
		MessageKey:       "message",
		ConsoleSeparator: "\t",
		EncodeDuration:   zapcore.StringDurationEncoder,
	}

	// Level and component prefix only in the verbose mode
	if verbose {
		config.LevelKey = "level"
		config.EncodeLevel = zapcore.CapitalLevelEncoder
		config.NameKey = "component"
		config.EncodeName = zapcore.FullNameEncoder
	}

	return zapcore.NewConsoleEncoder(config)
}

func jsonEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "message",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	})
}
