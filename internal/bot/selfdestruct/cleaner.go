package selfdestruct

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/kcdcommunity/kcdbot/internal/bot/metrics"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// MaxConcurrentDeletes bounds in-flight deletions across every guild being cleaned.
const MaxConcurrentDeletes = 4

// Cleaner deletes the bot's own messages once their self-destruct time has passed.
// Only messages still held in the local cache are considered.
type Cleaner struct {
	platform interfaces.Platform
	logger   *zap.Logger
	deletes  *semaphore.Weighted
	now      func() time.Time
}

// NewCleaner creates a Cleaner.
func NewCleaner(platform interfaces.Platform, logger *zap.Logger) *Cleaner {
	return &Cleaner{
		platform: platform,
		logger:   logger.Named("self_destruct"),
		deletes:  semaphore.NewWeighted(MaxConcurrentDeletes),
		now:      time.Now,
	}
}

// Clean deletes every expired self-destruct message in the guild.
// All deletions are attempted; their errors are joined.
func (c *Cleaner) Clean(ctx context.Context, guild interfaces.Guild) error {
	var (
		mu   sync.Mutex
		errs []error
		wg   conc.WaitGroup
	)

	for _, message := range c.expired(guild) {
		if err := c.deletes.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}

		wg.Go(func() {
			defer c.deletes.Release(1)

			if err := c.delete(ctx, guild, message); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		})
	}

	wg.Wait()
	return errors.Join(errs...)
}

// expired returns the bot's cached messages in the guild whose notice has run out.
func (c *Cleaner) expired(guild interfaces.Guild) []discord.Message {
	selfID := c.platform.SelfID()
	now := c.now()

	var expired []discord.Message
	for _, message := range c.platform.GuildMessages(guild.ID) {
		if message.Author.ID != selfID {
			continue
		}

		ttl, ok := Parse(message.Content)
		if !ok || message.CreatedAt.Add(ttl).After(now) {
			continue
		}

		expired = append(expired, message)
	}

	return expired
}

func (c *Cleaner) delete(ctx context.Context, guild interfaces.Guild, message discord.Message) error {
	if err := c.platform.DeleteMessage(ctx, message.ChannelID, message.ID); err != nil {
		return fmt.Errorf("delete message %s: %w", message.ID, err)
	}

	metrics.SelfDestructDeletions.Inc()
	c.logger.Debug("Deleted expired message",
		zap.Uint64("guild_id", uint64(guild.ID)),
		zap.Uint64("channel_id", uint64(message.ChannelID)),
		zap.Uint64("message_id", uint64(message.ID)))

	return nil
}
