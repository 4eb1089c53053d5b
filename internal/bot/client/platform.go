// Package client adapts the disgo client to the platform calls the bot makes.
package client

import (
	"context"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
)

// Platform implements interfaces.Platform on top of a disgo client.
// Guilds and recent messages come from state fed by gateway events.
type Platform struct {
	client   bot.Client
	messages *MessageCache
	guilds   *Guilds
}

var _ interfaces.Platform = (*Platform)(nil)

// NewPlatform creates a Platform.
func NewPlatform(client bot.Client, messages *MessageCache, guilds *Guilds) *Platform {
	return &Platform{
		client:   client,
		messages: messages,
		guilds:   guilds,
	}
}

func (p *Platform) SelfID() snowflake.ID {
	return p.client.ID()
}

func (p *Platform) Guild(guildID snowflake.ID) (interfaces.Guild, bool) {
	return p.guilds.Get(guildID)
}

func (p *Platform) Guilds() []interfaces.Guild {
	return p.guilds.All()
}

func (p *Platform) Channel(channelID snowflake.ID) (interfaces.Channel, bool) {
	channel, ok := p.client.Caches().Channel(channelID)
	if !ok {
		return interfaces.Channel{}, false
	}

	return interfaces.Channel{
		ID:      channel.ID(),
		GuildID: channel.GuildID(),
		Name:    channel.Name(),
		Type:    channel.Type(),
	}, true
}

func (p *Platform) RecentMessages(channelID snowflake.ID) []discord.Message {
	return p.messages.Messages(channelID)
}

func (p *Platform) GuildMessages(guildID snowflake.ID) []discord.Message {
	return p.messages.GuildMessages(guildID)
}

func (p *Platform) Member(ctx context.Context, guildID, userID snowflake.ID) (*discord.Member, error) {
	member, err := p.client.Rest().GetMember(guildID, userID, rest.WithCtx(ctx))
	return member, wrapError(err)
}

func (p *Platform) Message(ctx context.Context, channelID, messageID snowflake.ID) (*discord.Message, error) {
	for _, message := range p.messages.Messages(channelID) {
		if message.ID == messageID {
			return &message, nil
		}
	}

	message, err := p.client.Rest().GetMessage(channelID, messageID, rest.WithCtx(ctx))
	return message, wrapError(err)
}

func (p *Platform) CreateThread(
	ctx context.Context, channelID snowflake.ID, thread interfaces.ThreadCreate,
) (interfaces.Channel, error) {
	var create discord.ThreadCreate
	if thread.Private {
		invitable := thread.Invitable
		create = discord.GuildPrivateThreadCreate{
			Name:                thread.Name,
			AutoArchiveDuration: thread.AutoArchiveDuration,
			Invitable:           &invitable,
		}
	} else {
		create = discord.GuildPublicThreadCreate{
			Name:                thread.Name,
			AutoArchiveDuration: thread.AutoArchiveDuration,
		}
	}

	opts := []rest.RequestOpt{rest.WithCtx(ctx)}
	if thread.Reason != "" {
		opts = append(opts, rest.WithReason(thread.Reason))
	}

	created, err := p.client.Rest().CreateThread(channelID, create, opts...)
	if err != nil {
		return interfaces.Channel{}, wrapError(err)
	}

	return threadChannel(created), nil
}

func (p *Platform) CreateThreadFromMessage(
	ctx context.Context, channelID, messageID snowflake.ID, name string,
) (interfaces.Channel, error) {
	created, err := p.client.Rest().CreateThreadFromMessage(channelID, messageID, discord.ThreadCreateFromMessage{
		Name:                name,
		AutoArchiveDuration: discord.AutoArchiveDuration24h,
	}, rest.WithCtx(ctx))
	if err != nil {
		return interfaces.Channel{}, wrapError(err)
	}

	return threadChannel(created), nil
}

func (p *Platform) AddThreadMember(ctx context.Context, threadID, userID snowflake.ID) error {
	return wrapError(p.client.Rest().AddThreadMember(threadID, userID, rest.WithCtx(ctx)))
}

func (p *Platform) SendMessage(
	ctx context.Context, channelID snowflake.ID, message discord.MessageCreate,
) (*discord.Message, error) {
	sent, err := p.client.Rest().CreateMessage(channelID, message, rest.WithCtx(ctx))
	if err != nil {
		return nil, wrapError(err)
	}

	p.remember(sent)
	return sent, nil
}

func (p *Platform) EditMessage(
	ctx context.Context, channelID, messageID snowflake.ID, message discord.MessageUpdate,
) (*discord.Message, error) {
	updated, err := p.client.Rest().UpdateMessage(channelID, messageID, message, rest.WithCtx(ctx))
	if err != nil {
		return nil, wrapError(err)
	}

	p.remember(updated)
	return updated, nil
}

func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	if err := p.client.Rest().DeleteMessage(channelID, messageID, rest.WithCtx(ctx)); err != nil {
		return wrapError(err)
	}

	p.messages.Remove(channelID, messageID)
	return nil
}

func (p *Platform) RemoveReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error {
	return wrapError(p.client.Rest().RemoveAllReactionsForEmoji(channelID, messageID, emoji, rest.WithCtx(ctx)))
}

func (p *Platform) Emojis(ctx context.Context, guildID snowflake.ID) ([]discord.Emoji, error) {
	emojis, err := p.client.Rest().GetEmojis(guildID, rest.WithCtx(ctx))
	return emojis, wrapError(err)
}

func (p *Platform) Roles(ctx context.Context, guildID snowflake.ID) ([]discord.Role, error) {
	roles, err := p.client.Rest().GetRoles(guildID, rest.WithCtx(ctx))
	return roles, wrapError(err)
}

// remember caches a message the bot sent or edited so it can be found again
// without waiting for the gateway echo.
func (p *Platform) remember(message *discord.Message) {
	if message == nil {
		return
	}

	var guildID snowflake.ID
	if message.GuildID != nil {
		guildID = *message.GuildID
	} else if channel, ok := p.Channel(message.ChannelID); ok {
		guildID = channel.GuildID
	}

	p.messages.Put(guildID, *message)
}

func threadChannel(thread *discord.GuildThread) interfaces.Channel {
	return interfaces.Channel{
		ID:      thread.ID(),
		GuildID: thread.GuildID(),
		Name:    thread.Name(),
		Type:    thread.Type(),
	}
}
