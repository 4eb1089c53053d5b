package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrTokenMissing          = errors.New("discord bot token is not set")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v1.0.0"

// CurrentVersion is the current version of the config file.
const CurrentVersion = 1

// configName is the config file name without extension.
const configName = "bot"

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"DISCORD_BOT_TOKEN":           "discord.token",
	"KCD_GUILD_ID":                "discord.guild_id",
	"CHANNEL_ID_BOT_LOGS":         "channels.bot_logs",
	"CHANNEL_ID_TALK_TO_BOTS":     "channels.talk_to_bots",
	"CHANNEL_ID_REPORTS":          "channels.reports",
	"CHANNEL_ID_KCD_OFFICE_HOURS": "channels.office_hours",
	"CHANNEL_ID_INTRODUCTIONS":    "channels.introductions",
	"CHANNEL_ID_TIPS":             "channels.tips",
	"ROLE_ID_MODERATORS":          "roles.moderators",
	"ROLE_ID_MEMBER":              "roles.member",
	"LOG_LEVEL":                   "debug.log_level",
}

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version   int       `koanf:"version"`
	Discord   Discord   `koanf:"discord"`
	Channels  Channels  `koanf:"channels"`
	Roles     Roles     `koanf:"roles"`
	Cleanup   Cleanup   `koanf:"cleanup"`
	Cache     Cache     `koanf:"cache"`
	Debug     Debug     `koanf:"debug"`
	Loki      Loki      `koanf:"loki"`
	Telemetry Telemetry `koanf:"telemetry"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Discord bot token for authentication.
	Token string `koanf:"token"`
	// Guild the bot serves. Zero serves every guild it is in.
	GuildID uint64 `koanf:"guild_id"`
}

// Channels contains the IDs of the channels the bot posts to.
// A zero ID disables the features that need the channel.
type Channels struct {
	BotLogs       uint64 `koanf:"bot_logs"`
	TalkToBots    uint64 `koanf:"talk_to_bots"`
	Reports       uint64 `koanf:"reports"`
	OfficeHours   uint64 `koanf:"office_hours"`
	Introductions uint64 `koanf:"introductions"`
	Tips          uint64 `koanf:"tips"`
}

// Roles contains the IDs of the roles the bot checks or pings.
type Roles struct {
	// Role pinged on reports.
	Moderators uint64 `koanf:"moderators"`
	// Role that marks a member as onboarded. Zero treats everyone as onboarded.
	Member uint64 `koanf:"member"`
}

// Cleanup contains guild sweep configuration.
type Cleanup struct {
	// Interval between guild sweeps in milliseconds.
	IntervalMS int `koanf:"interval_ms"`
}

// Cache contains local message cache configuration.
type Cache struct {
	// Messages kept per channel.
	MessagesPerChannel int `koanf:"messages_per_channel"`
	// Channels kept in the cache.
	Channels int `koanf:"channels"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log files to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
	// Enable the pprof and metrics server.
	EnablePprof bool `koanf:"enable_pprof"`
	// pprof server port.
	PprofPort int `koanf:"pprof_port"`
}

// Loki contains Grafana Loki logging configuration.
type Loki struct {
	// Enable Loki integration
	Enabled bool `koanf:"enabled"`
	// Loki server URL (without /loki/api/v1/push suffix)
	URL string `koanf:"url"`
	// Maximum number of log entries per batch
	BatchMaxSize int `koanf:"batch_max_size"`
	// Maximum time to wait before sending a batch (in milliseconds)
	BatchMaxWaitMS int `koanf:"batch_max_wait_ms"`
	// Labels added to all log streams
	Labels map[string]string `koanf:"labels"`
	// Basic authentication username (optional)
	Username string `koanf:"username"`
	// Basic authentication password (optional)
	Password string `koanf:"password"`
}

// Telemetry contains trace export configuration.
type Telemetry struct {
	// OTLP/HTTP endpoint URL. Empty disables trace export.
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	// Service name reported with every span.
	ServiceName string `koanf:"service_name"`
}

// LoadConfig loads the configuration from the first config file found in the
// search paths, then applies environment overrides from the process and a .env file.
// Returns the config along with the used config directory, empty when no file was found.
func LoadConfig() (*Config, string, error) {
	// Variables already set in the environment win over .env
	_ = godotenv.Load()

	// Get user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// List search paths
	configPaths := []string{
		".kcdbot",
		homeDir + "/.kcdbot/config",
		"/etc/kcdbot/config",
		"/app/config",
		"config",
		".",
	}

	return Load(configPaths)
}

// Load reads the config file from the first path that has one and applies environment overrides.
func Load(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	// Load the config file if there is one
	var usedConfigPath string
	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/%s.toml", path, configName)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	// Only version-check a file that was actually loaded
	if usedConfigPath != "" {
		if err := checkConfigVersion(k.Int("version")); err != nil {
			return nil, "", err
		}
	}

	// Apply environment overrides
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return envKeys[key], value
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load environment: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.applyDefaults()

	if config.Discord.Token == "" {
		return nil, "", ErrTokenMissing
	}

	return &config, usedConfigPath, nil
}

// applyDefaults fills in every setting left unset.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
	if c.Debug.LogLevel == "" {
		c.Debug.LogLevel = "info"
	}
	if c.Debug.MaxLogsToKeep <= 0 {
		c.Debug.MaxLogsToKeep = 10
	}
	if c.Debug.MaxLogLines <= 0 {
		c.Debug.MaxLogLines = 10000
	}
	if c.Debug.PprofPort == 0 {
		c.Debug.PprofPort = 6060
	}
	if c.Cleanup.IntervalMS <= 0 {
		c.Cleanup.IntervalMS = 10000
	}
	if c.Cache.MessagesPerChannel <= 0 {
		c.Cache.MessagesPerChannel = 200
	}
	if c.Cache.Channels <= 0 {
		c.Cache.Channels = 500
	}
	if c.Loki.BatchMaxSize <= 0 {
		c.Loki.BatchMaxSize = 100
	}
	if c.Loki.BatchMaxWaitMS <= 0 {
		c.Loki.BatchMaxWaitMS = 1000
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "kcdbot"
	}
}

// Redacted returns a copy of the config that is safe to print.
func (c *Config) Redacted() Config {
	redacted := *c
	if redacted.Discord.Token != "" {
		redacted.Discord.Token = "[redacted]"
	}
	if redacted.Loki.Password != "" {
		redacted.Loki.Password = "[redacted]"
	}
	return redacted
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(current int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, configName)
	}

	if current != CurrentVersion {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/kcdcommunity/kcdbot/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			configName,
			current,
			CurrentVersion,
			RepositoryVersion,
			configName,
		)
	}

	return nil
}
