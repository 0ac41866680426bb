// internal/infra/logging/logger.go
package logging

import (
	"fmt"
	"log/syslog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const appTag = "cartserver"

// Options selects the log sinks. Stdout is always on.
type Options struct {
	Level string
	// File enables a rotated log file when non-empty.
	File string
	// PapertrailAddr is host:port for remote shipping over UDP syslog.
	PapertrailAddr string
}

// Logger bundles the zap logger with the sinks that need closing.
type Logger struct {
	*zap.Logger
	closers []func() error
}

// New builds the process logger. A failing remote sink is reported on stderr
// and skipped so logging to stdout keeps working.
func New(opts Options) (*Logger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("logging: invalid level %q: %w", opts.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level),
	}
	out := &Logger{}

	if f := strings.TrimSpace(opts.File); f != "" {
		lj := &lumberjack.Logger{
			Filename:   f,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(lj), level))
		out.closers = append(out.closers, lj.Close)
	}

	if addr := strings.TrimSpace(opts.PapertrailAddr); addr != "" {
		w, err := syslog.Dial("udp", addr, syslog.LOG_INFO|syslog.LOG_DAEMON, appTag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[logging] WARN: papertrail dial %s failed: %v (stdout only)\n", addr, err)
		} else {
			// syslog adds its own timestamp
			ptCfg := encCfg
			ptCfg.TimeKey = ""
			cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(ptCfg), zapcore.AddSync(w), level))
			out.closers = append(out.closers, w.Close)
		}
	}

	out.Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return out, nil
}

// Close flushes and closes every sink.
func (l *Logger) Close() error {
	if l == nil || l.Logger == nil {
		return nil
	}
	_ = l.Logger.Sync()
	var firstErr error
	for _, c := range l.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
