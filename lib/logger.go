package rolodex

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logger used across the service.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Sync() error
}

// zLogger implements the Logger interface using zap for structured logging.
type zLogger struct {
	*zap.Logger
}

// With returns a child logger carrying the given fields.
func (l *zLogger) With(fields ...zap.Field) Logger {
	return &zLogger{l.Logger.With(fields...)}
}

// Log is the process logger. It discards everything until InitLogger runs.
var Log Logger = NewNopLogger()

// NewNopLogger returns a Logger that drops every entry.
func NewNopLogger() Logger {
	return NewZapLogger(zap.NewNop())
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(z *zap.Logger) Logger {
	return &zLogger{z}
}

// NewLogger builds a zap logger writing JSON to a rotated file, plus a console
// core when devMode is set. An empty logFile disables the file core.
func NewLogger(devMode bool, logFile string, level string) Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var cores []zapcore.Core

	if logFile != "" {
		fileSyncer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   true,
		})
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, fileSyncer, lvl))
	}

	if devMode || logFile == "" {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		if !devMode {
			consoleEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), lvl))
	}

	core := zapcore.NewTee(cores...)
	return NewZapLogger(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
}

// InitLogger replaces the process logger from configuration.
func InitLogger(c Config) Logger {
	Log = NewLogger(c.DevMode(), c.LogFile(), c.LogLevel())
	return Log
}

// LogMiddleware logs incoming requests and their responses.
func LogMiddleware(l Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		traceID := trace.SpanContextFromContext(c.Request.Context()).TraceID().String()

		l.Debug("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.String("trace_id", traceID),
		)

		c.Next()

		l.Info("HTTP Response",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.String("trace_id", traceID),
			zap.Duration("duration", time.Since(start)),
			zap.Int("response_size", c.Writer.Size()),
		)
	}
}
