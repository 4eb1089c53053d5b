// Package welcome greets members once they hold the member role.
package welcome

import (
	"context"
	"fmt"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/botlog"
	"github.com/kcdcommunity/kcdbot/internal/bot/channels"
	"github.com/kcdcommunity/kcdbot/internal/bot/constants"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/kcdcommunity/kcdbot/internal/bot/metrics"
	"github.com/kcdcommunity/kcdbot/internal/bot/utils"
	"go.uber.org/zap"
)

const welcomeTemplate = `Hello %s! Welcome to the KCD Discord server!

I'm your friendly robot 🤖. To learn more about me, go ahead and run the command ` + "`/help`" + ` and I'll tell you all about myself.

I'd suggest you checkout %s to learn more about the server and how to get the most out of it.

We'd love to get to know you. Why don't you introduce yourself in %s? Here's a template you can use for starters:

🌐 I'm from: 
🏢 I work at: 
💻 I work with this tech: 
🍎 I snack on: 
🤪 I really enjoy: 

We hope you enjoy your time here! 🎉`

// Welcomer creates a welcome thread for each new member and records
// their onboarding status in the bot log.
type Welcomer struct {
	platform     interfaces.Platform
	channels     *channels.Resolver
	recorder     *botlog.Recorder
	memberRoleID snowflake.ID
	logger       *zap.Logger
}

// NewWelcomer creates a Welcomer. A zero memberRoleID treats everyone as a member.
func NewWelcomer(
	platform interfaces.Platform,
	resolver *channels.Resolver,
	recorder *botlog.Recorder,
	memberRoleID snowflake.ID,
	logger *zap.Logger,
) *Welcomer {
	return &Welcomer{
		platform:     platform,
		channels:     resolver,
		recorder:     recorder,
		memberRoleID: memberRoleID,
		logger:       logger.Named("welcome"),
	}
}

// IsMember reports whether the member holds the member role.
func (w *Welcomer) IsMember(member discord.Member) bool {
	if w.memberRoleID == 0 {
		return true
	}
	return slices.Contains(member.RoleIDs, w.memberRoleID)
}

// OnMemberJoin welcomes members that already hold the role and records
// everyone else as onboarding.
func (w *Welcomer) OnMemberJoin(ctx context.Context, member discord.Member) error {
	if w.IsMember(member) {
		return w.WelcomeNewMember(ctx, member)
	}

	w.recorder.UpsertAsync(member.GuildID, member.User.ID, func() (botlog.Entry, error) {
		return botlog.EmbedEntry(NewMemberEmbed(member,
			discord.EmbedField{Name: constants.StatusFieldName, Value: constants.StatusOnboarding},
		)), nil
	})

	return nil
}

// OnMemberUpdate welcomes a member the moment they gain the member role.
// Without the previous state there is no transition to observe, so nothing happens.
func (w *Welcomer) OnMemberUpdate(ctx context.Context, oldMember *discord.Member, member discord.Member) error {
	if oldMember == nil || oldMember.User.ID == 0 {
		return nil
	}

	if w.IsMember(*oldMember) || !w.IsMember(member) {
		return nil
	}

	fresh, err := w.platform.Member(ctx, member.GuildID, member.User.ID)
	if err != nil {
		w.logger.Warn("Failed to refresh member, using event state",
			zap.Uint64("user_id", uint64(member.User.ID)),
			zap.Error(err))
	} else if fresh != nil {
		if fresh.GuildID == 0 {
			fresh.GuildID = member.GuildID
		}
		member = *fresh
	}

	return w.WelcomeNewMember(ctx, member)
}

// WelcomeNewMember opens a welcome thread for the member in the introductions channel.
// It does nothing when the introductions or tips channel is not configured.
func (w *Welcomer) WelcomeNewMember(ctx context.Context, member discord.Member) error {
	introductions, ok := w.channels.Introductions(member.GuildID)
	if !ok {
		return nil
	}
	tips, ok := w.channels.Tips(member.GuildID)
	if !ok {
		return nil
	}

	guild, _ := w.platform.Guild(member.GuildID)
	username := member.User.Username

	thread, err := w.platform.CreateThread(ctx, introductions.ID, interfaces.ThreadCreate{
		Name:                fmt.Sprintf("Welcome %s 👋", username),
		AutoArchiveDuration: discord.AutoArchiveDuration24h,
		Private:             guild.CanCreatePrivateThreads(),
		Reason:              username + " joined the server",
	})
	if err != nil {
		return fmt.Errorf("failed to create welcome thread: %w", err)
	}

	if err := w.platform.AddThreadMember(ctx, thread.ID, member.User.ID); err != nil {
		return fmt.Errorf("failed to add member to welcome thread: %w", err)
	}

	if _, err := w.platform.SendMessage(ctx, thread.ID, discord.MessageCreate{
		Content: fmt.Sprintf(welcomeTemplate, utils.UserMention(member.User.ID), tips.Mention(), introductions.Mention()),
	}); err != nil {
		return fmt.Errorf("failed to send welcome message: %w", err)
	}

	metrics.MembersWelcomed.Inc()
	w.logger.Info("Welcomed new member",
		zap.Uint64("guild_id", uint64(member.GuildID)),
		zap.Uint64("user_id", uint64(member.User.ID)),
		zap.Uint64("thread_id", uint64(thread.ID)))

	w.recorder.UpsertAsync(member.GuildID, member.User.ID, func() (botlog.Entry, error) {
		return botlog.EmbedEntry(NewMemberEmbed(member,
			discord.EmbedField{Name: constants.StatusFieldName, Value: constants.StatusOnboarded},
			discord.EmbedField{Name: constants.WelcomeChannelField, Value: thread.Mention()},
		)), nil
	})

	return nil
}
