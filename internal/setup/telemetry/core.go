package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

// errorCategories maps logger name prefixes to span categories.
var errorCategories = []struct {
	prefix   string
	category string
}{
	{"reactions", "reactions"},
	{"welcome", "welcome"},
	{"bot_log", "botlog"},
	{"self_destruct", "selfdestruct"},
	{"guild_sweeper", "worker"},
	{"bot", "bot"},
	{"setup", "setup"},
}

// Core implements zapcore.Core to record error logs as OpenTelemetry spans.
type Core struct {
	zapcore.LevelEnabler

	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// NewCore creates a new core that forwards logs to OpenTelemetry.
func NewCore(enab zapcore.LevelEnabler) zapcore.Core {
	return &Core{
		LevelEnabler: enab,
		tracer:       otel.Tracer("logs"),
	}
}

func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	return &Core{
		LevelEnabler: c.LevelEnabler,
		tracer:       c.tracer,
		attrs:        append(c.attrs[:len(c.attrs):len(c.attrs)], fieldAttributes(fields)...),
	}
}

func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if ent.Level < zapcore.ErrorLevel {
		return nil
	}

	_, span := c.tracer.Start(context.Background(), "error."+errorCategory(ent))
	defer span.End()

	attrs := make([]attribute.KeyValue, 0, 4+len(c.attrs)+len(fields))
	attrs = append(attrs,
		attribute.String("error.message", ent.Message),
		attribute.String("error.level", ent.Level.String()),
		attribute.String("error.logger", ent.LoggerName),
		attribute.String("error.caller", ent.Caller.TrimmedPath()),
	)
	attrs = append(attrs, c.attrs...)
	attrs = append(attrs, fieldAttributes(fields)...)

	span.SetAttributes(attrs...)
	span.SetStatus(codes.Error, ent.Message)
	return nil
}

func (c *Core) Sync() error {
	return nil
}

// errorCategory picks a category from the logger name, falling back to "application".
func errorCategory(ent zapcore.Entry) string {
	for _, c := range errorCategories {
		if ent.LoggerName == c.prefix || strings.HasPrefix(ent.LoggerName, c.prefix+".") {
			return c.category
		}
	}
	return "application"
}

// fieldAttributes converts zap fields into span attributes.
func fieldAttributes(fields []zapcore.Field) []attribute.KeyValue {
	if len(fields) == 0 {
		return nil
	}

	enc := zapcore.NewMapObjectEncoder()
	for i := range fields {
		fields[i].AddTo(enc)
	}

	attrs := make([]attribute.KeyValue, 0, len(enc.Fields))
	for key, value := range enc.Fields {
		switch v := value.(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		default:
			attrs = append(attrs, attribute.String(key, fmt.Sprint(v)))
		}
	}
	return attrs
}
