package botlog

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/channels"
	"github.com/kcdcommunity/kcdbot/internal/bot/constants"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/kcdcommunity/kcdbot/internal/bot/metrics"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

var (
	newMemberTitlePattern = regexp.MustCompile(`(?i)New Member`)
	memberIDFieldPattern  = regexp.MustCompile(`(?i)Member ID`)
)

// Entry is the content of a bot log message: plain text or a single embed.
type Entry struct {
	Content string
	Embed   *discord.Embed
}

// TextEntry creates a plain text entry.
func TextEntry(content string) Entry {
	return Entry{Content: content}
}

// EmbedEntry creates an embed entry.
func EmbedEntry(embed discord.Embed) Entry {
	return Entry{Embed: &embed}
}

// IsEmpty reports whether the entry has nothing to log.
func (e Entry) IsEmpty() bool {
	return e.Content == "" && e.Embed == nil
}

func (e Entry) create() discord.MessageCreate {
	if e.Embed != nil {
		return discord.MessageCreate{Embeds: []discord.Embed{*e.Embed}}
	}
	return discord.MessageCreate{Content: e.Content}
}

func (e Entry) update() discord.MessageUpdate {
	if e.Embed != nil {
		embeds := []discord.Embed{*e.Embed}
		return discord.MessageUpdate{Embeds: &embeds}
	}
	content := e.Content
	return discord.MessageUpdate{Content: &content}
}

func (e Entry) summary() string {
	if e.Embed != nil {
		if e.Embed.Title != "" {
			return e.Embed.Title
		}
		return e.Embed.Description
	}
	return e.Content
}

// EntryFunc produces the entry to log. An empty entry skips the write.
type EntryFunc func() (Entry, error)

// Recorder writes status entries to the guild's bot log channel.
// Every write is best-effort: failures are logged and never returned.
type Recorder struct {
	platform interfaces.Platform
	channels *channels.Resolver
	logger   *zap.Logger
	timeout  time.Duration
	tasks    conc.WaitGroup
}

// NewRecorder creates a Recorder.
func NewRecorder(platform interfaces.Platform, resolver *channels.Resolver, logger *zap.Logger) *Recorder {
	return &Recorder{
		platform: platform,
		channels: resolver,
		logger:   logger.Named("bot_log"),
		timeout:  constants.BestEffortTaskTimeout,
	}
}

// Log appends a new entry to the bot log channel.
func (r *Recorder) Log(ctx context.Context, guildID snowflake.ID, fn EntryFunc) {
	channel, ok := r.channels.BotLog(guildID)
	if !ok {
		return
	}

	entry, ok := r.build(fn)
	if !ok {
		return
	}

	r.send(ctx, channel, entry)
}

// Upsert updates the entry recorded for a member, or appends one if none is cached.
// An existing entry is a cached message in the bot log channel with a "New Member" embed
// whose "Member ID" field equals memberID. The first match wins.
func (r *Recorder) Upsert(ctx context.Context, guildID, memberID snowflake.ID, fn EntryFunc) {
	channel, ok := r.channels.BotLog(guildID)
	if !ok {
		return
	}

	existing, found := FindMemberEntry(r.platform.RecentMessages(channel.ID), memberID)

	entry, ok := r.build(fn)
	if !ok {
		return
	}

	if !found {
		r.send(ctx, channel, entry)
		return
	}

	if _, err := r.platform.EditMessage(ctx, channel.ID, existing.ID, entry.update()); err != nil {
		metrics.BotLogWrites.WithLabelValues("error").Inc()
		r.logger.Warn("Failed to update bot log entry",
			zap.Uint64("message_id", uint64(existing.ID)),
			zap.Uint64("member_id", uint64(memberID)),
			zap.Error(err))
		return
	}

	metrics.BotLogWrites.WithLabelValues("edit").Inc()
}

// UpsertAsync runs Upsert as an independent task. The caller never waits on it
// and never observes its failure.
func (r *Recorder) UpsertAsync(guildID, memberID snowflake.ID, fn EntryFunc) {
	r.tasks.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		var pc panics.Catcher
		pc.Try(func() { r.Upsert(ctx, guildID, memberID, fn) })

		if recovered := pc.Recovered(); recovered != nil {
			r.logger.Error("Bot log task panicked",
				zap.Uint64("member_id", uint64(memberID)),
				zap.Error(recovered.AsError()))
		}
	})
}

// Wait blocks until every in-flight asynchronous write has finished.
func (r *Recorder) Wait() {
	r.tasks.Wait()
}

// FindMemberEntry returns the first message whose embeds identify it as the
// new-member entry of the given member.
func FindMemberEntry(messages []discord.Message, memberID snowflake.ID) (discord.Message, bool) {
	want := memberID.String()

	for _, message := range messages {
		for _, embed := range message.Embeds {
			if embed.Title == "" || !newMemberTitlePattern.MatchString(embed.Title) {
				continue
			}

			for _, field := range embed.Fields {
				if memberIDFieldPattern.MatchString(field.Name) && field.Value == want {
					return message, true
				}
			}
		}
	}

	return discord.Message{}, false
}

func (r *Recorder) build(fn EntryFunc) (Entry, bool) {
	entry, err := fn()
	if err != nil {
		metrics.BotLogWrites.WithLabelValues("error").Inc()
		r.logger.Error("Unable to get message for bot log", zap.Error(err))
		return Entry{}, false
	}

	if entry.IsEmpty() {
		metrics.BotLogWrites.WithLabelValues("skip").Inc()
		return Entry{}, false
	}

	return entry, true
}

func (r *Recorder) send(ctx context.Context, channel interfaces.Channel, entry Entry) {
	if _, err := r.platform.SendMessage(ctx, channel.ID, entry.create()); err != nil {
		metrics.BotLogWrites.WithLabelValues("error").Inc()

		fields := []zap.Field{zap.String("summary", entry.summary()), zap.Error(err)}
		if errors.Is(err, interfaces.ErrTransient) {
			r.logger.Warn("Unable to log message", fields...)
		} else {
			r.logger.Error("Unable to log message", fields...)
		}
		return
	}

	metrics.BotLogWrites.WithLabelValues("send").Inc()
}
