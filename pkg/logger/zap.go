package logger

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	log *zap.Logger
}

// NewLogger writes JSON to stdout. Production logs start at Info and are
// sampled; development logs include Debug.
func NewLogger(serviceName string, isProd bool) Logger {
	config := zap.NewDevelopmentEncoderConfig()
	level := zapcore.DebugLevel
	if isProd {
		config = zap.NewProductionEncoderConfig()
		level = zapcore.InfoLevel
	}
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(config), zapcore.Lock(os.Stdout), level)
	if isProd {
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 10)
	}
	return newWithCore(core, serviceName)
}

func newWithCore(core zapcore.Core, serviceName string) Logger {
	return &zapLogger{log: zap.New(core).With(zap.String("service", serviceName))}
}

func NewNop() Logger {
	return &zapLogger{log: zap.NewNop()}
}

func (z *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	z.write(ctx, zapcore.DebugLevel, msg, fields)
}

func (z *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	z.write(ctx, zapcore.InfoLevel, msg, fields)
}

func (z *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	z.write(ctx, zapcore.WarnLevel, msg, fields)
}

func (z *zapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	z.write(ctx, zapcore.ErrorLevel, msg, fields)
}

func (z *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{log: z.log.With(toZapFields(fields, 0)...)}
}

// write converts fields only when the entry survives the level check and
// sampling.
func (z *zapLogger) write(ctx context.Context, level zapcore.Level, msg string, fields []Field) {
	ce := z.log.Check(level, msg)
	if ce == nil {
		return
	}
	zapFields := toZapFields(fields, 2)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		zapFields = append(zapFields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	ce.Write(zapFields...)
}

func toZapFields(fields []Field, extra int) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+extra)
	for _, f := range fields {
		out = append(out, toZapField(f))
	}
	return out
}

func toZapField(f Field) zap.Field {
	val := f.Value
	if fn, ok := val.(func() any); ok {
		val = fn()
	}
	switch v := val.(type) {
	case string:
		if f.Kind == KindString {
			return zap.String(f.Key, v)
		}
	case int:
		if f.Kind == KindInt {
			return zap.Int(f.Key, v)
		}
	case float64:
		if f.Kind == KindFloat64 {
			return zap.Float64(f.Key, v)
		}
	case bool:
		if f.Kind == KindBool {
			return zap.Bool(f.Key, v)
		}
	case time.Duration:
		if f.Kind == KindDuration {
			return zap.Duration(f.Key, v)
		}
	case error:
		if f.Kind == KindError {
			return zap.NamedError(f.Key, v)
		}
	}
	// KindAny, or a kind that disagrees with the value
	return zap.Any(f.Key, val)
}
