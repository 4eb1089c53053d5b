// Package reactions turns custom emoji reactions into bot actions.
package reactions

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/channels"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/kcdcommunity/kcdbot/internal/bot/metrics"
	"github.com/kcdcommunity/kcdbot/internal/bot/selfdestruct"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Emoji identifies the emoji of a reaction. ID is zero for unicode emoji.
type Emoji struct {
	ID   snowflake.ID
	Name string
}

// APIString returns the emoji in the form the REST API expects in reaction routes.
func (e Emoji) APIString() string {
	if e.ID == 0 {
		return e.Name
	}
	return e.Name + ":" + e.ID.String()
}

// Event is a reaction added to a guild message.
type Event struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	UserID    snowflake.ID
	Member    *discord.Member
	Emoji     Emoji
}

// Reaction is an event resolved against the platform. Guild, Channel and
// Message are nil when they could not be resolved.
type Reaction struct {
	Kind    Kind
	Event   Event
	Guild   *interfaces.Guild
	Channel *interfaces.Channel
	Message *discord.Message
}

// resolved reports whether the guild, channel and message were all found.
func (r *Reaction) resolved() bool {
	return r.Guild != nil && r.Channel != nil && r.Message != nil
}

func (r *Reaction) author() (discord.User, bool) {
	if r.Message == nil || r.Message.Author.ID == 0 {
		return discord.User{}, false
	}
	return r.Message.Author, true
}

// Dispatcher routes reactions to their handlers.
type Dispatcher struct {
	platform         interfaces.Platform
	channels         *channels.Resolver
	messenger        *selfdestruct.Messenger
	moderatorsRoleID snowflake.ID
	logger           *zap.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(
	platform interfaces.Platform,
	resolver *channels.Resolver,
	messenger *selfdestruct.Messenger,
	moderatorsRoleID snowflake.ID,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		platform:         platform,
		channels:         resolver,
		messenger:        messenger,
		moderatorsRoleID: moderatorsRoleID,
		logger:           logger.Named("reactions"),
	}
}

// Dispatch runs the handler registered for the reaction's emoji.
// Unknown emoji and reactions added by bots are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	kind, ok := ParseKind(event.Emoji.Name)
	if !ok {
		return nil
	}

	if event.UserID == d.platform.SelfID() || (event.Member != nil && event.Member.User.Bot) {
		return nil
	}

	ctx, span := otel.Tracer("bot").Start(ctx, "reaction."+kind.String())
	defer span.End()
	span.SetAttributes(
		attribute.String("reaction", kind.String()),
		attribute.Int64("guild_id", int64(event.GuildID)),
		attribute.Int64("channel_id", int64(event.ChannelID)),
	)

	reaction := d.resolve(ctx, kind, event)

	metrics.ReactionsDispatched.WithLabelValues(kind.String()).Inc()
	d.logger.Debug("Dispatching reaction",
		zap.String("reaction", kind.String()),
		zap.Uint64("guild_id", uint64(event.GuildID)),
		zap.Uint64("channel_id", uint64(event.ChannelID)),
		zap.Uint64("message_id", uint64(event.MessageID)),
		zap.Uint64("user_id", uint64(event.UserID)))

	if err := registry[kind].handle(d, ctx, reaction); err != nil {
		metrics.ReactionFailures.WithLabelValues(kind.String()).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("reaction %s: %w", kind, err)
	}

	return nil
}

func (d *Dispatcher) resolve(ctx context.Context, kind Kind, event Event) *Reaction {
	reaction := &Reaction{Kind: kind, Event: event}

	if event.GuildID != 0 {
		if guild, ok := d.platform.Guild(event.GuildID); ok {
			reaction.Guild = &guild
		}
	}

	if channel, ok := d.platform.Channel(event.ChannelID); ok {
		reaction.Channel = &channel
	}

	message, err := d.platform.Message(ctx, event.ChannelID, event.MessageID)
	if err != nil {
		d.logger.Debug("Failed to fetch reacted message",
			zap.Uint64("message_id", uint64(event.MessageID)),
			zap.Error(err))
	} else {
		reaction.Message = message
	}

	return reaction
}

// removeReaction clears the consumed reaction. Failure never stops the handler.
func (d *Dispatcher) removeReaction(ctx context.Context, r *Reaction) {
	err := d.platform.RemoveReaction(ctx, r.Event.ChannelID, r.Event.MessageID, r.Event.Emoji.APIString())
	if err != nil {
		d.logger.Warn("Failed to remove reaction",
			zap.String("reaction", r.Kind.String()),
			zap.Uint64("message_id", uint64(r.Event.MessageID)),
			zap.Error(err))
	}
}

// reply answers the reacted message in its own channel.
func (d *Dispatcher) reply(ctx context.Context, r *Reaction, content string) error {
	messageID := r.Event.MessageID
	_, err := d.platform.SendMessage(ctx, r.Event.ChannelID, discord.MessageCreate{
		Content: content,
		MessageReference: &discord.MessageReference{
			MessageID:       &messageID,
			FailIfNotExists: false,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to reply: %w", err)
	}
	return nil
}
