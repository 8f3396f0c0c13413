package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config mirrors the log section of the application config
type Config struct {
	Level  string
	Format string // json or console
	Output string // stdout, stderr or a file path
}

// New builds the process logger. extra cores, such as the OpenTelemetry
// bridge, receive every entry alongside the primary output.
func New(cfg Config, extra ...zapcore.Core) (*zap.Logger, error) {
	output := cfg.Output
	if output == "" {
		output = "stdout"
	}
	sink, _, err := zap.Open(output)
	if err != nil {
		return nil, err
	}

	primary := zapcore.NewCore(encoderFor(cfg.Format), sink, ParseLevel(cfg.Level))
	return zap.New(zapcore.NewTee(append([]zapcore.Core{primary}, extra...)...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// ParseLevel accepts zap's level names in any case plus "warning".
// Anything unrecognised is info.
func ParseLevel(level string) zapcore.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return zapcore.WarnLevel
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

func encoderFor(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.MillisDurationEncoder

	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}
