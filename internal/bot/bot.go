package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/botlog"
	"github.com/kcdcommunity/kcdbot/internal/bot/channels"
	"github.com/kcdcommunity/kcdbot/internal/bot/client"
	"github.com/kcdcommunity/kcdbot/internal/bot/reactions"
	"github.com/kcdcommunity/kcdbot/internal/bot/selfdestruct"
	"github.com/kcdcommunity/kcdbot/internal/bot/welcome"
	"github.com/kcdcommunity/kcdbot/internal/setup/config"
	"github.com/kcdcommunity/kcdbot/internal/worker/cleanup"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Bot connects the community features to the Discord gateway.
// Gateway events are translated into calls on the welcomer and the reaction
// dispatcher, while the sweeper cleans every guild on an interval.
type Bot struct {
	client     bot.Client
	logger     *zap.Logger
	guildID    snowflake.ID
	messages   *client.MessageCache
	guilds     *client.Guilds
	recorder   *botlog.Recorder
	welcomer   *welcome.Welcomer
	dispatcher *reactions.Dispatcher
	sweeper    *cleanup.Sweeper
	tasks      conc.WaitGroup
	sweeps     conc.WaitGroup
	stop       context.CancelFunc

	// closing is set once shutdown starts; run drops events after that.
	mu      sync.RWMutex
	closing bool
}

// New creates the Discord client and every component the bot runs.
func New(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	messages, err := client.NewMessageCache(cfg.Cache.MessagesPerChannel, cfg.Cache.Channels)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		logger:   logger.Named("bot"),
		guildID:  snowflake.ID(cfg.Discord.GuildID),
		messages: messages,
		guilds:   client.NewGuilds(),
	}

	// Configure Discord client with required gateway intents and event handlers
	discordClient, err := disgo.New(cfg.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
				gateway.IntentGuildMessages,
				gateway.IntentGuildMessageReactions,
				gateway.IntentMessageContent,
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagChannels, cache.FlagMembers, cache.FlagRoles),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnGuildReady:              b.handleGuildReady,
			OnGuildJoin:               b.handleGuildJoin,
			OnGuildUpdate:             b.handleGuildUpdate,
			OnGuildLeave:              b.handleGuildLeave,
			OnGuildMemberJoin:         b.handleMemberJoin,
			OnGuildMemberUpdate:       b.handleMemberUpdate,
			OnGuildMessageCreate:      b.handleMessageCreate,
			OnGuildMessageUpdate:      b.handleMessageUpdate,
			OnGuildMessageDelete:      b.handleMessageDelete,
			OnGuildMessageReactionAdd: b.handleReactionAdd,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}

	platform := client.NewPlatform(discordClient, messages, b.guilds)
	resolver := channels.NewResolver(platform, channels.IDs{
		BotLogs:       snowflake.ID(cfg.Channels.BotLogs),
		TalkToBots:    snowflake.ID(cfg.Channels.TalkToBots),
		Reports:       snowflake.ID(cfg.Channels.Reports),
		OfficeHours:   snowflake.ID(cfg.Channels.OfficeHours),
		Introductions: snowflake.ID(cfg.Channels.Introductions),
		Tips:          snowflake.ID(cfg.Channels.Tips),
	})

	b.client = discordClient
	b.recorder = botlog.NewRecorder(platform, resolver, b.logger)
	b.welcomer = welcome.NewWelcomer(platform, resolver, b.recorder, snowflake.ID(cfg.Roles.Member), b.logger)
	b.dispatcher = reactions.NewDispatcher(
		platform, resolver, selfdestruct.NewMessenger(platform), snowflake.ID(cfg.Roles.Moderators), b.logger,
	)

	cleaner := selfdestruct.NewCleaner(platform, b.logger)
	interval := time.Duration(cfg.Cleanup.IntervalMS) * time.Millisecond

	b.sweeper, err = cleanup.NewSweeper(platform, cleaner.Clean, interval, b.logger)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Start opens the gateway connection and starts the guild sweeper.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	if err := b.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	b.stop = cancel
	b.sweeps.Go(func() { b.sweeper.Run(sweepCtx) })

	return nil
}

// Close stops the sweeper, stops accepting events, waits for in-flight work,
// then closes the gateway.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")

	if b.stop != nil {
		b.stop()
	}
	b.sweeps.Wait()
	b.drain()

	b.client.Close(ctx)
}

// drain refuses new event tasks and waits for the running ones and the
// bot log writes they started.
func (b *Bot) drain() {
	b.mu.Lock()
	b.closing = true
	b.mu.Unlock()

	b.tasks.Wait()
	if b.recorder != nil {
		b.recorder.Wait()
	}
}
