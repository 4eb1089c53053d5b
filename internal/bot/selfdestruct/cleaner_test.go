package selfdestruct

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	selfID    = snowflake.ID(1)
	channelID = snowflake.ID(20)
)

var guild = interfaces.Guild{ID: 10, Name: "KCD"}

func message(id snowflake.ID, author snowflake.ID, content string, createdAt time.Time) discord.Message {
	return discord.Message{
		ID:        id,
		ChannelID: channelID,
		Author:    discord.User{ID: author},
		Content:   content,
		CreatedAt: createdAt,
	}
}

func TestCleanerClean(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	platform := &interfaces.MockPlatform{}
	platform.On("SelfID").Return(selfID)
	platform.On("GuildMessages", guild.ID).Return([]discord.Message{
		message(100, selfID, Compose("expired", Expiry{Time: 10, Units: Seconds}), now.Add(-time.Minute)),
		message(101, selfID, Compose("still alive", Expiry{Time: 1, Units: Hours}), now.Add(-time.Minute)),
		message(102, selfID, "no notice", now.Add(-time.Hour)),
		message(103, 2, Compose("someone else", Expiry{Time: 1, Units: Seconds}), now.Add(-time.Hour)),
		message(104, selfID, "self-destruct in about 999999999999 weeks", now.Add(-time.Hour)),
	})
	platform.On("DeleteMessage", mock.Anything, channelID, snowflake.ID(100)).Return(nil)

	cleaner := NewCleaner(platform, zap.NewNop())
	cleaner.now = func() time.Time { return now }

	err := cleaner.Clean(context.Background(), guild)
	assert.NoError(t, err)
	platform.AssertExpectations(t)
	platform.AssertNumberOfCalls(t, "DeleteMessage", 1)
}

func TestCleanerCleanJoinsErrors(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	errBoom := errors.New("boom")

	platform := &interfaces.MockPlatform{}
	platform.On("SelfID").Return(selfID)
	platform.On("GuildMessages", guild.ID).Return([]discord.Message{
		message(100, selfID, Compose("a", Expiry{Time: 1, Units: Seconds}), now.Add(-time.Minute)),
		message(101, selfID, Compose("b", Expiry{Time: 1, Units: Seconds}), now.Add(-time.Minute)),
	})
	platform.On("DeleteMessage", mock.Anything, channelID, snowflake.ID(100)).Return(errBoom)
	platform.On("DeleteMessage", mock.Anything, channelID, snowflake.ID(101)).Return(nil)

	cleaner := NewCleaner(platform, zap.NewNop())
	cleaner.now = func() time.Time { return now }

	err := cleaner.Clean(context.Background(), guild)
	assert.ErrorIs(t, err, errBoom)
	platform.AssertNumberOfCalls(t, "DeleteMessage", 2)
}

func TestCleanerBoundsConcurrentDeletes(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	messages := make([]discord.Message, 0, 10)
	for i := range 10 {
		messages = append(messages,
			message(snowflake.ID(100+i), selfID, Compose("x", Expiry{Time: 1, Units: Seconds}), now.Add(-time.Minute)))
	}

	var inFlight, maxInFlight atomic.Int32

	platform := &interfaces.MockPlatform{}
	platform.On("SelfID").Return(selfID)
	platform.On("GuildMessages", guild.ID).Return(messages)
	platform.On("DeleteMessage", mock.Anything, channelID, mock.Anything).Run(func(mock.Arguments) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)

		for {
			seen := maxInFlight.Load()
			if current <= seen || maxInFlight.CompareAndSwap(seen, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
	}).Return(nil)

	cleaner := NewCleaner(platform, zap.NewNop())
	cleaner.deletes = semaphore.NewWeighted(2)
	cleaner.now = func() time.Time { return now }

	assert.NoError(t, cleaner.Clean(context.Background(), guild))
	platform.AssertNumberOfCalls(t, "DeleteMessage", 10)
	assert.LessOrEqual(t, maxInFlight.Load(), int32(2))
}

func TestCleanerStopsOnCancelledContext(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	platform := &interfaces.MockPlatform{}
	platform.On("SelfID").Return(selfID)
	platform.On("GuildMessages", guild.ID).Return([]discord.Message{
		message(100, selfID, Compose("a", Expiry{Time: 1, Units: Seconds}), now.Add(-time.Minute)),
	})

	cleaner := NewCleaner(platform, zap.NewNop())
	cleaner.deletes = semaphore.NewWeighted(1)
	require.True(t, cleaner.deletes.TryAcquire(1))
	cleaner.now = func() time.Time { return now }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cleaner.Clean(ctx, guild)
	assert.ErrorIs(t, err, context.Canceled)
	platform.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestMessengerSend(t *testing.T) {
	platform := &interfaces.MockPlatform{}
	platform.On("SendMessage", mock.Anything, channelID, discord.MessageCreate{
		Content: "Hey\n_This message will self-destruct in about 7 seconds_",
	}).Return(&discord.Message{ID: 5}, nil)

	sent, err := NewMessenger(platform).Send(context.Background(), channelID, "Hey", Expiry{Time: 7, Units: Seconds})
	assert.NoError(t, err)
	assert.Equal(t, snowflake.ID(5), sent.ID)
	platform.AssertExpectations(t)
}
