package loki

import (
	"maps"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap/zapcore"
)

// Core implements zapcore.Core interface for Loki log shipping.
type Core struct {
	zapcore.LevelEnabler

	pusher *Pusher
	fields map[string]any
}

// NewCore creates a new Loki Core with the provided pusher.
func NewCore(enabler zapcore.LevelEnabler, pusher *Pusher) *Core {
	return &Core{
		LevelEnabler: enabler,
		pusher:       pusher,
	}
}

// With returns a child core that adds the fields to every entry.
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	return &Core{
		LevelEnabler: c.LevelEnabler,
		pusher:       c.pusher,
		fields:       c.merge(fields),
	}
}

// Check determines whether the supplied Entry should be logged.
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

// Write encodes the entry as a JSON line and queues it for Loki.
func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	line := logLine{
		Level:   ent.Level.String(),
		Time:    ent.Time.UTC().Format(time.RFC3339Nano),
		Logger:  ent.LoggerName,
		Message: ent.Message,
		Stack:   ent.Stack,
		Fields:  c.merge(fields),
	}
	if ent.Caller.Defined {
		line.Caller = ent.Caller.TrimmedPath()
	}

	raw, err := sonic.Marshal(line)
	if err != nil {
		return err
	}

	c.pusher.AddEntry(logEntry{
		level:     line.Level,
		timestamp: ent.Time.UnixNano(),
		line:      string(raw),
	})

	return nil
}

// Sync is a no-op; the pusher flushes on its own schedule and on Stop.
func (c *Core) Sync() error {
	return nil
}

func (c *Core) merge(fields []zapcore.Field) map[string]any {
	if len(fields) == 0 {
		return c.fields
	}

	enc := zapcore.NewMapObjectEncoder()
	for i := range fields {
		fields[i].AddTo(enc)
	}

	merged := make(map[string]any, len(c.fields)+len(enc.Fields))
	maps.Copy(merged, c.fields)
	maps.Copy(merged, enc.Fields)

	return merged
}
