package client

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(id, channelID snowflake.ID, content string) discord.Message {
	return discord.Message{ID: id, ChannelID: channelID, Content: content}
}

func messageIDs(messages []discord.Message) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestMessageCache(t *testing.T) {
	cache, err := NewMessageCache(2, 2)
	require.NoError(t, err)

	cache.Put(1, message(100, 10, "first"))
	cache.Put(1, message(101, 10, "second"))
	cache.Put(1, message(102, 10, "third"))

	assert.Equal(t, []snowflake.ID{101, 102}, messageIDs(cache.Messages(10)), "oldest message is evicted")

	cache.Put(1, message(101, 10, "second, edited"))
	messages := cache.Messages(10)
	require.Len(t, messages, 2)
	assert.Equal(t, "second, edited", messages[1].Content)
	require.NotNil(t, messages[1].GuildID)
	assert.Equal(t, snowflake.ID(1), *messages[1].GuildID)

	cache.Remove(10, 102)
	assert.Equal(t, []snowflake.ID{101}, messageIDs(cache.Messages(10)))

	assert.Nil(t, cache.Messages(99))
	cache.Remove(99, 1)
}

func TestMessageCacheGuildMessages(t *testing.T) {
	cache, err := NewMessageCache(10, 2)
	require.NoError(t, err)

	cache.Put(1, message(100, 10, "a"))
	cache.Put(1, message(101, 11, "b"))
	cache.Put(2, message(102, 20, "c"))

	assert.ElementsMatch(t, []snowflake.ID{101, 102}, messageIDs(append(cache.GuildMessages(1), cache.GuildMessages(2)...)),
		"least recently used channel is evicted")
	assert.Empty(t, cache.GuildMessages(3))
}

func TestNewMessageCacheInvalidSize(t *testing.T) {
	_, err := NewMessageCache(0, 10)
	assert.ErrorIs(t, err, ErrInvalidCacheSize)

	_, err = NewMessageCache(10, 0)
	assert.ErrorIs(t, err, ErrInvalidCacheSize)
}
