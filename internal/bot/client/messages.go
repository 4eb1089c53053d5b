package client

import (
	"fmt"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

type channelMessages struct {
	guildID  snowflake.ID
	messages *lru.Cache[snowflake.ID, discord.Message]
}

// MessageCache keeps the most recent messages of the most recently active channels.
// Messages evicted from the cache are gone for good.
type MessageCache struct {
	mu         sync.Mutex
	perChannel int
	channels   *lru.Cache[snowflake.ID, *channelMessages]
}

// NewMessageCache creates a MessageCache holding up to perChannel messages in
// each of up to channels channels.
func NewMessageCache(perChannel, channels int) (*MessageCache, error) {
	if perChannel <= 0 {
		return nil, fmt.Errorf("%w: messages per channel must be positive", ErrInvalidCacheSize)
	}

	cache, err := lru.New[snowflake.ID, *channelMessages](channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCacheSize, err)
	}

	return &MessageCache{
		perChannel: perChannel,
		channels:   cache,
	}, nil
}

// Put stores or replaces a message.
func (c *MessageCache) Put(guildID snowflake.ID, message discord.Message) {
	if message.GuildID == nil && guildID != 0 {
		message.GuildID = &guildID
	}

	c.channel(guildID, message.ChannelID).messages.Add(message.ID, message)
}

// Remove drops a message from the cache.
func (c *MessageCache) Remove(channelID, messageID snowflake.ID) {
	if entry, ok := c.channels.Peek(channelID); ok {
		entry.messages.Remove(messageID)
	}
}

// Messages returns the cached messages of a channel, oldest first.
func (c *MessageCache) Messages(channelID snowflake.ID) []discord.Message {
	entry, ok := c.channels.Peek(channelID)
	if !ok {
		return nil
	}
	return entry.messages.Values()
}

// GuildMessages returns the cached messages of every channel in a guild.
func (c *MessageCache) GuildMessages(guildID snowflake.ID) []discord.Message {
	var messages []discord.Message
	for _, entry := range c.channels.Values() {
		if entry.guildID == guildID {
			messages = append(messages, entry.messages.Values()...)
		}
	}
	return messages
}

func (c *MessageCache) channel(guildID, channelID snowflake.ID) *channelMessages {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.channels.Get(channelID); ok {
		return entry
	}

	// perChannel is validated in the constructor
	messages, _ := lru.New[snowflake.ID, discord.Message](c.perChannel)
	entry := &channelMessages{guildID: guildID, messages: messages}
	c.channels.Add(channelID, entry)

	return entry
}
