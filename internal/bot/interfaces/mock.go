package interfaces

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/mock"
)

// MockPlatform implements Platform for testing.
type MockPlatform struct {
	mock.Mock
}

var _ Platform = (*MockPlatform)(nil)

// CalledMethods returns the names of the methods called so far, in call order.
func (m *MockPlatform) CalledMethods() []string {
	methods := make([]string, 0, len(m.Calls))
	for _, call := range m.Calls {
		methods = append(methods, call.Method)
	}

	return methods
}

func (m *MockPlatform) SelfID() snowflake.ID {
	args := m.Called()
	return args.Get(0).(snowflake.ID)
}

func (m *MockPlatform) Guild(guildID snowflake.ID) (Guild, bool) {
	args := m.Called(guildID)
	return args.Get(0).(Guild), args.Bool(1)
}

func (m *MockPlatform) Guilds() []Guild {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]Guild)
}

func (m *MockPlatform) Channel(channelID snowflake.ID) (Channel, bool) {
	args := m.Called(channelID)
	return args.Get(0).(Channel), args.Bool(1)
}

func (m *MockPlatform) RecentMessages(channelID snowflake.ID) []discord.Message {
	args := m.Called(channelID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]discord.Message)
}

func (m *MockPlatform) GuildMessages(guildID snowflake.ID) []discord.Message {
	args := m.Called(guildID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]discord.Message)
}

func (m *MockPlatform) Member(ctx context.Context, guildID, userID snowflake.ID) (*discord.Member, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discord.Member), args.Error(1)
}

func (m *MockPlatform) Message(ctx context.Context, channelID, messageID snowflake.ID) (*discord.Message, error) {
	args := m.Called(ctx, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discord.Message), args.Error(1)
}

func (m *MockPlatform) CreateThread(ctx context.Context, channelID snowflake.ID, thread ThreadCreate) (Channel, error) {
	args := m.Called(ctx, channelID, thread)
	return args.Get(0).(Channel), args.Error(1)
}

func (m *MockPlatform) CreateThreadFromMessage(
	ctx context.Context, channelID, messageID snowflake.ID, name string,
) (Channel, error) {
	args := m.Called(ctx, channelID, messageID, name)
	return args.Get(0).(Channel), args.Error(1)
}

func (m *MockPlatform) AddThreadMember(ctx context.Context, threadID, userID snowflake.ID) error {
	args := m.Called(ctx, threadID, userID)
	return args.Error(0)
}

func (m *MockPlatform) SendMessage(
	ctx context.Context, channelID snowflake.ID, message discord.MessageCreate,
) (*discord.Message, error) {
	args := m.Called(ctx, channelID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discord.Message), args.Error(1)
}

func (m *MockPlatform) EditMessage(
	ctx context.Context, channelID, messageID snowflake.ID, message discord.MessageUpdate,
) (*discord.Message, error) {
	args := m.Called(ctx, channelID, messageID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discord.Message), args.Error(1)
}

func (m *MockPlatform) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockPlatform) RemoveReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error {
	args := m.Called(ctx, channelID, messageID, emoji)
	return args.Error(0)
}

func (m *MockPlatform) Emojis(ctx context.Context, guildID snowflake.ID) ([]discord.Emoji, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discord.Emoji), args.Error(1)
}

func (m *MockPlatform) Roles(ctx context.Context, guildID snowflake.ID) ([]discord.Role, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discord.Role), args.Error(1)
}
