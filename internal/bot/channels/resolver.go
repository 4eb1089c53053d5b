// Package channels resolves the well-known channels the bot posts to.
package channels

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
)

// Source is a cache of guild channels.
type Source interface {
	Channel(channelID snowflake.ID) (interfaces.Channel, bool)
}

// IDs holds the configured channel identifiers. Zero means not configured.
type IDs struct {
	BotLogs       snowflake.ID
	TalkToBots    snowflake.ID
	Reports       snowflake.ID
	OfficeHours   snowflake.ID
	Introductions snowflake.ID
	Tips          snowflake.ID
}

// Resolver looks up configured channels in a guild.
// A channel that is unset, missing, in another guild, or not a text channel
// is treated as not configured.
type Resolver struct {
	source Source
	ids    IDs
}

// NewResolver creates a Resolver over the given channel source.
func NewResolver(source Source, ids IDs) *Resolver {
	return &Resolver{
		source: source,
		ids:    ids,
	}
}

// BotLog returns the admin channel used for status entries.
func (r *Resolver) BotLog(guildID snowflake.ID) (interfaces.Channel, bool) {
	return r.textChannel(guildID, r.ids.BotLogs)
}

// TalkToBots returns the channel members use to talk to the bot.
func (r *Resolver) TalkToBots(guildID snowflake.ID) (interfaces.Channel, bool) {
	return r.textChannel(guildID, r.ids.TalkToBots)
}

// Reports returns the channel report threads are created in.
func (r *Resolver) Reports(guildID snowflake.ID) (interfaces.Channel, bool) {
	return r.textChannel(guildID, r.ids.Reports)
}

// OfficeHours returns the office-hours question channel.
func (r *Resolver) OfficeHours(guildID snowflake.ID) (interfaces.Channel, bool) {
	return r.textChannel(guildID, r.ids.OfficeHours)
}

// Introductions returns the channel welcome threads are created in.
func (r *Resolver) Introductions(guildID snowflake.ID) (interfaces.Channel, bool) {
	return r.textChannel(guildID, r.ids.Introductions)
}

// Tips returns the server tips channel.
func (r *Resolver) Tips(guildID snowflake.ID) (interfaces.Channel, bool) {
	return r.textChannel(guildID, r.ids.Tips)
}

func (r *Resolver) textChannel(guildID, channelID snowflake.ID) (interfaces.Channel, bool) {
	if channelID == 0 {
		return interfaces.Channel{}, false
	}

	channel, ok := r.source.Channel(channelID)
	if !ok || channel.GuildID != guildID || channel.Type != discord.ChannelTypeGuildText {
		return interfaces.Channel{}, false
	}

	return channel, true
}
