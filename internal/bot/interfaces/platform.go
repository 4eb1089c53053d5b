package interfaces

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// ErrTransient marks platform failures the caller cannot do anything about,
// such as 5xx responses from the REST API.
var ErrTransient = errors.New("transient platform error")

// Guild is the subset of guild state the bot reads from the gateway cache.
type Guild struct {
	ID          snowflake.ID
	Name        string
	PremiumTier discord.PremiumTier
}

// CanCreatePrivateThreads reports whether the guild's boost level unlocks private threads.
func (g Guild) CanCreatePrivateThreads() bool {
	return g.PremiumTier == discord.PremiumTier2 || g.PremiumTier == discord.PremiumTier3
}

// Channel is a cached guild channel or thread.
type Channel struct {
	ID      snowflake.ID
	GuildID snowflake.ID
	Name    string
	Type    discord.ChannelType
}

// Mention returns the channel reference that renders as a link in messages.
func (c Channel) Mention() string {
	return "<#" + c.ID.String() + ">"
}

// SupportsThreads reports whether threads can be started from messages in this channel.
func (c Channel) SupportsThreads() bool {
	return c.Type == discord.ChannelTypeGuildText
}

// ThreadCreate describes a thread started without a seed message.
type ThreadCreate struct {
	Name                string
	AutoArchiveDuration discord.AutoArchiveDuration
	Private             bool
	Invitable           bool
	Reason              string
}

// Platform is the set of chat platform calls the bot makes.
// Cache reads never block; everything taking a context goes over the network.
type Platform interface {
	// SelfID returns the bot's own user ID.
	SelfID() snowflake.ID

	// Guild returns a cached guild.
	Guild(guildID snowflake.ID) (Guild, bool)

	// Guilds returns every guild currently cached.
	Guilds() []Guild

	// Channel returns a cached guild channel.
	Channel(channelID snowflake.ID) (Channel, bool)

	// RecentMessages returns the locally cached messages of a channel, oldest first.
	RecentMessages(channelID snowflake.ID) []discord.Message

	// GuildMessages returns the locally cached messages of every channel in a guild.
	GuildMessages(guildID snowflake.ID) []discord.Message

	Member(ctx context.Context, guildID, userID snowflake.ID) (*discord.Member, error)
	Message(ctx context.Context, channelID, messageID snowflake.ID) (*discord.Message, error)

	CreateThread(ctx context.Context, channelID snowflake.ID, thread ThreadCreate) (Channel, error)
	CreateThreadFromMessage(ctx context.Context, channelID, messageID snowflake.ID, name string) (Channel, error)
	AddThreadMember(ctx context.Context, threadID, userID snowflake.ID) error

	SendMessage(ctx context.Context, channelID snowflake.ID, message discord.MessageCreate) (*discord.Message, error)
	EditMessage(ctx context.Context, channelID, messageID snowflake.ID, message discord.MessageUpdate) (*discord.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error

	// RemoveReaction removes every reaction of the given emoji from a message.
	// The emoji is in API form: "name:id" for custom emoji, the character itself otherwise.
	RemoveReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error

	Emojis(ctx context.Context, guildID snowflake.ID) ([]discord.Emoji, error)
	Roles(ctx context.Context, guildID snowflake.ID) ([]discord.Role, error)
}
