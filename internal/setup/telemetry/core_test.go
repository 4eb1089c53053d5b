package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestErrorCategory(t *testing.T) {
	tests := []struct {
		logger string
		want   string
	}{
		{logger: "bot.reactions", want: "bot"},
		{logger: "reactions", want: "reactions"},
		{logger: "welcome", want: "welcome"},
		{logger: "bot_log", want: "botlog"},
		{logger: "self_destruct", want: "selfdestruct"},
		{logger: "guild_sweeper", want: "worker"},
		{logger: "botanist", want: "application"},
		{logger: "", want: "application"},
	}

	for _, tt := range tests {
		t.Run(tt.logger, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCategory(zapcore.Entry{LoggerName: tt.logger}))
		})
	}
}

func TestFieldAttributes(t *testing.T) {
	attrs := fieldAttributes([]zapcore.Field{
		zap.String("channel", "tips"),
		zap.Bool("private", true),
		zap.Int64("count", 3),
		zap.Error(errors.New("boom")),
	})

	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("channel", "tips"),
		attribute.Bool("private", true),
		attribute.Int64("count", 3),
		attribute.String("error", "boom"),
	}, attrs)
	assert.Nil(t, fieldAttributes(nil))
}

func TestCoreWithKeepsParentAttributes(t *testing.T) {
	parent := NewCore(zapcore.ErrorLevel).(*Core)
	child := parent.With([]zapcore.Field{zap.String("instance_id", "abc")}).(*Core)

	assert.Empty(t, parent.attrs)
	assert.Equal(t, []attribute.KeyValue{attribute.String("instance_id", "abc")}, child.attrs)
	assert.False(t, child.Enabled(zapcore.WarnLevel))
	assert.True(t, child.Enabled(zapcore.ErrorLevel))
}
