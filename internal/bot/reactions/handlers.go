package reactions

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/constants"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/kcdcommunity/kcdbot/internal/bot/selfdestruct"
	"github.com/kcdcommunity/kcdbot/internal/bot/utils"
	"go.uber.org/zap"
)

func (d *Dispatcher) help(ctx context.Context, r *Reaction) error {
	d.removeReaction(ctx, r)

	if !r.resolved() || r.Event.UserID == 0 {
		return nil
	}

	botsChannel, ok := d.channels.TalkToBots(r.Guild.ID)
	if !ok {
		return nil
	}

	requester := utils.UserMention(r.Event.UserID)
	redirected := botsChannel.ID != r.Event.ChannelID

	if redirected {
		origin := interfaces.Channel{ID: r.Event.ChannelID}
		if _, err := d.platform.SendMessage(ctx, botsChannel.ID, discord.MessageCreate{
			Content: fmt.Sprintf(helpGreetingTemplate, requester, origin.Mention()),
		}); err != nil {
			return fmt.Errorf("failed to greet help requester: %w", err)
		}
	}

	sent, err := d.platform.SendMessage(ctx, botsChannel.ID, discord.MessageCreate{
		Embeds: []discord.Embed{d.helpEmbed(ctx, r.Guild.ID)},
	})
	if err != nil {
		return fmt.Errorf("failed to send help: %w", err)
	}

	if redirected && sent != nil {
		link := utils.MessageLink(&r.Guild.ID, botsChannel.ID, sent.ID)
		pointer := fmt.Sprintf(helpPointerTemplate, requester, link)
		if _, err := d.messenger.Send(ctx, r.Event.ChannelID, pointer, selfdestruct.Expiry{
			Time:  constants.BotReplyPointerSeconds,
			Units: selfdestruct.Seconds,
		}); err != nil {
			d.logger.Warn("Failed to leave help pointer", zap.Error(err))
		}
	}

	return nil
}

// helpEmbed lists every reaction, using the guild's custom emoji where one matches.
func (d *Dispatcher) helpEmbed(ctx context.Context, guildID snowflake.ID) discord.Embed {
	emojis, err := d.platform.Emojis(ctx, guildID)
	if err != nil {
		d.logger.Warn("Failed to fetch guild emojis", zap.Error(err))
	}

	byName := make(map[string]discord.Emoji, len(emojis))
	for _, emoji := range emojis {
		byName[emoji.Name] = emoji
	}

	fields := make([]discord.EmbedField, 0, len(Kinds))
	for _, kind := range Kinds {
		name := kind.String()
		if emoji, ok := byName[name]; ok {
			name = utils.EmojiMention(emoji) + " " + name
		}

		fields = append(fields, discord.EmbedField{
			Name:  name,
			Value: utils.FirstNonEmpty(kind.Description(), noDescription),
		})
	}

	return discord.Embed{
		Title:       helpEmbedTitle,
		Color:       constants.HelpEmbedColor,
		Description: helpEmbedDescription,
		Fields:      fields,
	}
}

func (d *Dispatcher) report(ctx context.Context, r *Reaction) error {
	d.removeReaction(ctx, r)

	if r.Guild == nil {
		d.logger.Error("could not find message reaction guild")
		return nil
	}
	if r.Channel == nil {
		d.logger.Error("could not find message reaction channel")
		return nil
	}
	if r.Event.UserID == 0 {
		d.logger.Error("could not find message reaction reporter")
		return nil
	}
	offender, ok := r.author()
	if !ok {
		d.logger.Error("could not find message reaction offender")
		return nil
	}
	reportsChannel, ok := d.channels.Reports(r.Guild.ID)
	if !ok {
		d.logger.Error("could not find message reaction reportsChannel")
		return nil
	}

	moderators := d.moderatorsMention(ctx, r.Guild.ID)

	thread, err := d.platform.CreateThread(ctx, reportsChannel.ID, interfaces.ThreadCreate{
		Name:                fmt.Sprintf(reportThreadTemplate, offender.Username),
		AutoArchiveDuration: discord.AutoArchiveDuration1w,
		Invitable:           true,
	})
	if err != nil {
		return fmt.Errorf("failed to create report thread: %w", err)
	}

	if _, err := d.platform.SendMessage(ctx, thread.ID, discord.MessageCreate{
		Content: fmt.Sprintf(reportPingTemplate, moderators),
	}); err != nil {
		return fmt.Errorf("failed to ping moderators: %w", err)
	}

	if _, err := d.platform.SendMessage(ctx, thread.ID, discord.MessageCreate{
		Embeds: []discord.Embed{reportEmbed(r, offender)},
	}); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}

	d.logger.Info("Message reported",
		zap.Uint64("guild_id", uint64(r.Guild.ID)),
		zap.Uint64("message_id", uint64(r.Event.MessageID)),
		zap.Uint64("offender_id", uint64(offender.ID)),
		zap.Uint64("reporter_id", uint64(r.Event.UserID)))

	return nil
}

// moderatorsMention pings the moderators role, or names it when the role is unavailable.
func (d *Dispatcher) moderatorsMention(ctx context.Context, guildID snowflake.ID) string {
	if d.moderatorsRoleID == 0 {
		return constants.DefaultModeratorsRef
	}

	roles, err := d.platform.Roles(ctx, guildID)
	if err != nil {
		d.logger.Warn("Failed to fetch guild roles", zap.Error(err))
		return constants.DefaultModeratorsRef
	}

	for _, role := range roles {
		if role.ID == d.moderatorsRoleID {
			return utils.RoleMention(role.ID)
		}
	}

	return constants.DefaultModeratorsRef
}

func reportEmbed(r *Reaction, offender discord.User) discord.Embed {
	inline := true
	snippet := utils.FirstNonEmpty(
		utils.Snippet(r.Message.Content, constants.ReportSnippetLength),
		constants.UnknownValue,
	)

	return discord.Embed{
		Title:       reportEmbedTitle,
		Color:       constants.ReportEmbedColor,
		Description: reportEmbedDesc,
		Author: &discord.EmbedAuthor{
			Name:    utils.FirstNonEmpty(offender.Username, constants.UnknownValue),
			URL:     utils.MemberLink(offender.ID),
			IconURL: offender.EffectiveAvatarURL(),
		},
		Fields: []discord.EmbedField{
			{Name: "Message snippet", Value: snippet},
			{Name: "Message Link", Value: utils.MessageLink(&r.Guild.ID, r.Event.ChannelID, r.Event.MessageID)},
			{Name: "Message Author ID", Value: utils.UserMention(offender.ID), Inline: &inline},
			{Name: "Reporter", Value: utils.UserMention(r.Event.UserID), Inline: &inline},
		},
	}
}

func (d *Dispatcher) ask(ctx context.Context, r *Reaction) error {
	d.removeReaction(ctx, r)

	author, ok := r.author()
	if !r.resolved() || !ok {
		return nil
	}

	reply := fmt.Sprintf(askReplyTemplate, utils.UserMention(author.ID))

	if !r.Channel.SupportsThreads() {
		return d.reply(ctx, r, reply)
	}

	thread, err := d.platform.CreateThreadFromMessage(ctx, r.Channel.ID, r.Event.MessageID,
		fmt.Sprintf(questionThreadName, author.Username))
	if err != nil {
		return fmt.Errorf("failed to create question thread: %w", err)
	}

	for _, content := range []string{reply, renameThreadTip} {
		if _, err := d.platform.SendMessage(ctx, thread.ID, discord.MessageCreate{Content: content}); err != nil {
			return fmt.Errorf("failed to send to question thread: %w", err)
		}
	}

	return nil
}

func (d *Dispatcher) thread(ctx context.Context, r *Reaction) error {
	d.removeReaction(ctx, r)

	author, ok := r.author()
	if !r.resolved() || !ok {
		return nil
	}

	if !r.Channel.SupportsThreads() {
		return nil
	}

	thread, err := d.platform.CreateThreadFromMessage(ctx, r.Channel.ID, r.Event.MessageID,
		fmt.Sprintf(questionThreadName, author.Username))
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}

	if _, err := d.platform.SendMessage(ctx, thread.ID, discord.MessageCreate{
		Content: fmt.Sprintf(threadReplyTemplate, utils.UserMention(author.ID)),
	}); err != nil {
		return fmt.Errorf("failed to send to thread: %w", err)
	}

	return nil
}

func (d *Dispatcher) doubleMessage(ctx context.Context, r *Reaction) error {
	d.removeReaction(ctx, r)

	if !r.resolved() {
		return nil
	}

	return d.reply(ctx, r, doubleMessageReply)
}

func (d *Dispatcher) dontAskToAsk(ctx context.Context, r *Reaction) error {
	d.removeReaction(ctx, r)

	if !r.resolved() {
		return nil
	}

	return d.reply(ctx, r, dontAskToAskReply)
}

func (d *Dispatcher) officeHours(ctx context.Context, r *Reaction) error {
	d.removeReaction(ctx, r)

	if !r.resolved() {
		return nil
	}

	officeHours, ok := d.channels.OfficeHours(r.Guild.ID)
	if !ok {
		return nil
	}

	return d.reply(ctx, r, fmt.Sprintf(officeHoursTemplate, officeHours.Mention()))
}

func (d *Dispatcher) callKent(ctx context.Context, r *Reaction) error {
	d.removeReaction(ctx, r)

	if !r.resolved() {
		return nil
	}

	return d.reply(ctx, r, callKentReply)
}
