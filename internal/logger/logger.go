package logger

import (
	"os"
	"strings"

	"reviflow/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "reviflow-backend"

var log = zap.NewNop()

// Initialize sets up the global logger. Production writes JSON; every other
// env writes colored console lines.
func Initialize(loggerCfg config.LoggerConfig) error {
	core, err := newCore(loggerCfg, zapcore.AddSync(os.Stdout))
	if err != nil {
		return err
	}
	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("service", serviceName))
	return nil
}

func newCore(loggerCfg config.LoggerConfig, out zapcore.WriteSyncer) (zapcore.Core, error) {
	level := zapcore.InfoLevel
	if loggerCfg.Level != "" {
		parsed, err := zapcore.ParseLevel(loggerCfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	var encoder zapcore.Encoder
	if loggerCfg.Env == "production" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewCore(encoder, out, level), nil
}

// Get returns the global logger instance. Before Initialize it is a no-op logger.
func Get() *zap.Logger {
	return log
}

// Named returns the global logger tagged with a component name.
func Named(component string) *zap.Logger {
	return log.Named(component)
}

// Secret logs only the last four characters of a credential.
func Secret(key, value string) zap.Field {
	value = strings.TrimSpace(value)
	if len(value) <= 4 {
		return zap.String(key, strings.Repeat("*", len(value)))
	}
	return zap.String(key, "..."+value[len(value)-4:])
}

// Sync flushes any buffered log entries
func Sync() error {
	return log.Sync()
}
