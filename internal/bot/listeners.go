package bot

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/constants"
	"github.com/kcdcommunity/kcdbot/internal/bot/reactions"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// serves reports whether events from the guild should be handled.
func (b *Bot) serves(guildID snowflake.ID) bool {
	return b.guildID == 0 || b.guildID == guildID
}

// run handles an event in its own task so the gateway is never blocked.
// Events arriving after shutdown started are dropped.
func (b *Bot) run(event string, guildID snowflake.ID, fn func(ctx context.Context) error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closing {
		b.logger.Debug("Dropping event during shutdown", zap.String("event", event))
		return
	}

	b.tasks.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.EventHandlerTimeout)
		defer cancel()

		ctx, span := otel.Tracer("bot").Start(ctx, "event."+event)
		defer span.End()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in event handler",
					zap.String("event", event),
					zap.Any("panic", r))
			}
			b.logger.Debug("Event handled",
				zap.String("event", event),
				zap.Uint64("guild_id", uint64(guildID)),
				zap.Duration("duration", time.Since(start)))
		}()

		if err := fn(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			b.logger.Error("Event handler failed",
				zap.String("event", event),
				zap.Uint64("guild_id", uint64(guildID)),
				zap.Error(err))
		}
	})
}

func (b *Bot) handleGuildReady(e *events.GuildReady) {
	b.guilds.Put(e.Guild)
}

func (b *Bot) handleGuildJoin(e *events.GuildJoin) {
	b.guilds.Put(e.Guild)
}

func (b *Bot) handleGuildUpdate(e *events.GuildUpdate) {
	b.guilds.Put(e.Guild)
}

func (b *Bot) handleGuildLeave(e *events.GuildLeave) {
	b.guilds.Remove(e.GuildID)
}

func (b *Bot) handleMemberJoin(e *events.GuildMemberJoin) {
	if !b.serves(e.GuildID) {
		return
	}

	member := withGuild(e.Member, e.GuildID)
	b.run("member_join", e.GuildID, func(ctx context.Context) error {
		return b.welcomer.OnMemberJoin(ctx, member)
	})
}

func (b *Bot) handleMemberUpdate(e *events.GuildMemberUpdate) {
	if !b.serves(e.GuildID) {
		return
	}

	member := withGuild(e.Member, e.GuildID)
	oldMember := previousMember(e.OldMember)
	b.run("member_update", e.GuildID, func(ctx context.Context) error {
		return b.welcomer.OnMemberUpdate(ctx, oldMember, member)
	})
}

func (b *Bot) handleMessageCreate(e *events.GuildMessageCreate) {
	b.messages.Put(e.GuildID, e.Message)
}

func (b *Bot) handleMessageUpdate(e *events.GuildMessageUpdate) {
	b.messages.Put(e.GuildID, e.Message)
}

func (b *Bot) handleMessageDelete(e *events.GuildMessageDelete) {
	b.messages.Remove(e.ChannelID, e.MessageID)
}

func (b *Bot) handleReactionAdd(e *events.GuildMessageReactionAdd) {
	if !b.serves(e.GuildID) {
		return
	}

	event := reactions.Event{
		GuildID:   e.GuildID,
		ChannelID: e.ChannelID,
		MessageID: e.MessageID,
		UserID:    e.UserID,
		Member:    previousMember(e.Member),
		Emoji:     emojiFromPartial(e.Emoji),
	}
	b.run("reaction_add", e.GuildID, func(ctx context.Context) error {
		return b.dispatcher.Dispatch(ctx, event)
	})
}

// previousMember returns nil for the zero member the gateway sends when the
// member was not cached.
func previousMember(member discord.Member) *discord.Member {
	if member.User.ID == 0 {
		return nil
	}
	return &member
}

func withGuild(member discord.Member, guildID snowflake.ID) discord.Member {
	if member.GuildID == 0 {
		member.GuildID = guildID
	}
	return member
}

func emojiFromPartial(emoji discord.PartialEmoji) reactions.Emoji {
	var e reactions.Emoji
	if emoji.ID != nil {
		e.ID = *emoji.ID
	}
	if emoji.Name != nil {
		e.Name = *emoji.Name
	}
	return e
}
