package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kcdcommunity/kcdbot/internal/bot"
	"github.com/kcdcommunity/kcdbot/internal/setup"
	"github.com/kcdcommunity/kcdbot/internal/setup/config"
	"github.com/urfave/cli/v3"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"

	// shutdownTimeout bounds how long in-flight work may take on exit.
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "kcdbot",
		Usage: "Run the KCD community Discord bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-dir",
				Value: BotLogDir,
				Usage: "Directory for log sessions",
			},
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Connect to Discord and serve events until interrupted",
				Action: runAction,
			},
			{
				Name:  "config",
				Usage: "Print the resolved configuration with secrets redacted",
				Action: func(_ context.Context, _ *cli.Command) error {
					cfg, dir, err := config.LoadConfig()
					if err != nil {
						return err
					}

					out, err := sonic.ConfigStd.MarshalIndent(cfg.Redacted(), "", "  ")
					if err != nil {
						return fmt.Errorf("failed to encode config: %w", err)
					}

					if dir == "" {
						dir = "(none)"
					}
					fmt.Printf("Config directory: %s\n%s\n", dir, out)
					return nil
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

func runAction(ctx context.Context, c *cli.Command) error {
	return runBot(ctx, c.String("log-dir"))
}

// runBot starts the bot and blocks until an interrupt signal arrives.
func runBot(ctx context.Context, logDir string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize application with required dependencies
	app, err := setup.InitializeApp(ctx, logDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		app.Cleanup(cleanupCtx)
	}()

	discordBot, err := bot.New(app.Config, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	if err := discordBot.Start(ctx); err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")
	<-ctx.Done()

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	discordBot.Close(closeCtx)
	return nil
}
