package bot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/reactions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmojiFromPartial(t *testing.T) {
	id := snowflake.ID(42)
	name := "bothelp"
	unicode := "👍"

	tests := []struct {
		name  string
		emoji discord.PartialEmoji
		want  reactions.Emoji
	}{
		{name: "custom", emoji: discord.PartialEmoji{ID: &id, Name: &name}, want: reactions.Emoji{ID: 42, Name: "bothelp"}},
		{name: "unicode", emoji: discord.PartialEmoji{Name: &unicode}, want: reactions.Emoji{Name: "👍"}},
		{name: "deleted custom", emoji: discord.PartialEmoji{ID: &id}, want: reactions.Emoji{ID: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, emojiFromPartial(tt.emoji))
		})
	}
}

func TestPreviousMember(t *testing.T) {
	assert.Nil(t, previousMember(discord.Member{}))

	member := previousMember(discord.Member{User: discord.User{ID: 7}})
	require.NotNil(t, member)
	assert.Equal(t, snowflake.ID(7), member.User.ID)
}

func TestWithGuild(t *testing.T) {
	assert.Equal(t, snowflake.ID(2), withGuild(discord.Member{}, 2).GuildID)
	assert.Equal(t, snowflake.ID(3), withGuild(discord.Member{GuildID: 3}, 2).GuildID)
}

func TestServes(t *testing.T) {
	assert.True(t, (&Bot{}).serves(5))
	assert.True(t, (&Bot{guildID: 5}).serves(5))
	assert.False(t, (&Bot{guildID: 5}).serves(6))
}

func TestRunDropsEventsAfterDrain(t *testing.T) {
	b := &Bot{logger: zap.NewNop()}

	var handled atomic.Int32
	release := make(chan struct{})

	b.run("member_join", 1, func(context.Context) error {
		<-release
		handled.Add(1)
		return nil
	})

	drained := make(chan struct{})
	go func() {
		b.drain()
		close(drained)
	}()

	// drain must wait for the running task
	assert.Eventually(t, func() bool {
		b.mu.RLock()
		defer b.mu.RUnlock()
		return b.closing
	}, time.Second, time.Millisecond)
	select {
	case <-drained:
		t.Fatal("drain returned before the running task finished")
	default:
	}

	close(release)
	<-drained

	b.run("reaction_add", 1, func(context.Context) error {
		handled.Add(1)
		return nil
	})
	b.tasks.Wait()

	assert.Equal(t, int32(1), handled.Load())
}

func TestRunRecoversHandlerFailures(t *testing.T) {
	b := &Bot{logger: zap.NewNop()}

	b.run("member_update", 1, func(context.Context) error {
		return errors.New("thread failed")
	})
	b.run("reaction_add", 1, func(context.Context) error {
		panic("nil member")
	})

	assert.NotPanics(t, b.drain)
}
