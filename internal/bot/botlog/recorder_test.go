package botlog

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/channels"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	guildID   = snowflake.ID(1)
	botLogsID = snowflake.ID(10)
	memberID  = snowflake.ID(42)
)

func newRecorder(platform *interfaces.MockPlatform) *Recorder {
	platform.On("Channel", botLogsID).Return(interfaces.Channel{
		ID:      botLogsID,
		GuildID: guildID,
		Name:    "bot-logs",
		Type:    discord.ChannelTypeGuildText,
	}, true).Maybe()

	resolver := channels.NewResolver(platform, channels.IDs{BotLogs: botLogsID})
	return NewRecorder(platform, resolver, zap.NewNop())
}

func memberEntry(id snowflake.ID, status string) EntryFunc {
	return func() (Entry, error) {
		return EmbedEntry(discord.Embed{
			Title: "👋 New Member",
			Fields: []discord.EmbedField{
				{Name: "Member ID", Value: id.String()},
				{Name: "Status", Value: status},
			},
		}), nil
	}
}

func TestUpsertEditsExistingEntry(t *testing.T) {
	platform := &interfaces.MockPlatform{}
	recorder := newRecorder(platform)

	platform.On("RecentMessages", botLogsID).Return([]discord.Message{
		{ID: 100, Content: "unrelated"},
		{ID: 101, Embeds: []discord.Embed{{
			Title:  "👋 New Member",
			Fields: []discord.EmbedField{{Name: "Member ID", Value: "7"}},
		}}},
		{ID: 102, Embeds: []discord.Embed{{
			Title:  "👋 New Member",
			Fields: []discord.EmbedField{{Name: "Member ID", Value: memberID.String()}},
		}}},
	})
	platform.On("EditMessage", mock.Anything, botLogsID, snowflake.ID(102), mock.Anything).
		Return(&discord.Message{ID: 102}, nil)

	recorder.Upsert(context.Background(), guildID, memberID, memberEntry(memberID, "onboarded"))

	platform.AssertExpectations(t)
	platform.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertSendsWhenNoEntryCached(t *testing.T) {
	platform := &interfaces.MockPlatform{}
	recorder := newRecorder(platform)

	platform.On("RecentMessages", botLogsID).Return([]discord.Message{
		{ID: 100, Embeds: []discord.Embed{{
			Title:  "Something else",
			Fields: []discord.EmbedField{{Name: "Member ID", Value: memberID.String()}},
		}}},
	})
	platform.On("SendMessage", mock.Anything, botLogsID, mock.MatchedBy(func(m discord.MessageCreate) bool {
		return len(m.Embeds) == 1 && m.Embeds[0].Title == "👋 New Member"
	})).Return(&discord.Message{ID: 200}, nil)

	recorder.Upsert(context.Background(), guildID, memberID, memberEntry(memberID, "onboarding"))

	platform.AssertExpectations(t)
	platform.AssertNotCalled(t, "EditMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertWithoutBotLogChannel(t *testing.T) {
	platform := &interfaces.MockPlatform{}
	platform.On("Channel", botLogsID).Return(interfaces.Channel{}, false)

	resolver := channels.NewResolver(platform, channels.IDs{BotLogs: botLogsID})
	recorder := NewRecorder(platform, resolver, zap.NewNop())

	called := false
	recorder.Upsert(context.Background(), guildID, memberID, func() (Entry, error) {
		called = true
		return TextEntry("hello"), nil
	})

	assert.False(t, called)
	assert.Equal(t, []string{"Channel"}, platform.CalledMethods())
}

func TestLogSwallowsFailures(t *testing.T) {
	tests := []struct {
		name  string
		entry EntryFunc
		setup func(*interfaces.MockPlatform)
		calls []string
	}{
		{
			name:  "entry builder fails",
			entry: func() (Entry, error) { return Entry{}, errors.New("broken") },
			calls: []string{"Channel"},
		},
		{
			name:  "empty entry is skipped",
			entry: func() (Entry, error) { return Entry{}, nil },
			calls: []string{"Channel"},
		},
		{
			name:  "send fails",
			entry: func() (Entry, error) { return TextEntry("hello"), nil },
			setup: func(p *interfaces.MockPlatform) {
				p.On("SendMessage", mock.Anything, botLogsID, discord.MessageCreate{Content: "hello"}).
					Return(nil, interfaces.ErrTransient)
			},
			calls: []string{"Channel", "SendMessage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := &interfaces.MockPlatform{}
			recorder := newRecorder(platform)
			if tt.setup != nil {
				tt.setup(platform)
			}

			assert.NotPanics(t, func() {
				recorder.Log(context.Background(), guildID, tt.entry)
			})
			assert.Equal(t, tt.calls, platform.CalledMethods())
		})
	}
}

func TestUpsertAsyncRecoversPanics(t *testing.T) {
	platform := &interfaces.MockPlatform{}
	recorder := newRecorder(platform)
	platform.On("RecentMessages", botLogsID).Return(nil)

	recorder.UpsertAsync(guildID, memberID, func() (Entry, error) {
		panic("entry builder exploded")
	})

	assert.NotPanics(t, recorder.Wait)
}

func TestFindMemberEntry(t *testing.T) {
	messages := []discord.Message{
		{ID: 1, Embeds: []discord.Embed{{
			Title:  "👋 new member",
			Fields: []discord.EmbedField{{Name: "member id", Value: "42"}},
		}}},
		{ID: 2, Embeds: []discord.Embed{{
			Title:  "👋 New Member",
			Fields: []discord.EmbedField{{Name: "Member ID", Value: "42"}},
		}}},
	}

	found, ok := FindMemberEntry(messages, 42)
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(1), found.ID)

	_, ok = FindMemberEntry(messages, 43)
	assert.False(t, ok)
}
