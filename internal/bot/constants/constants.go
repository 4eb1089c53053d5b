package constants

import "time"

const (
	// Embed colors.
	OrangeEmbedColor = 0xE67E22
	HelpEmbedColor   = 0xE8E8E8 // base06
	ReportEmbedColor = 0xAB4642 // base08

	// Bot log entries.
	NewMemberTitle       = "👋 New Member"
	MemberIDFieldName    = "Member ID"
	StatusFieldName      = "Status"
	WelcomeChannelField  = "Welcome channel"
	StatusOnboarding     = "onboarding"
	StatusOnboarded      = "onboarded"
	DefaultModeratorsRef = "Moderators"

	// Reaction names as they appear on the guild's custom emoji.
	ReactionAsk          = "botask"
	ReactionHelp         = "bothelp"
	ReactionReport       = "botreport"
	ReactionThread       = "botthread"
	ReactionDouble       = "botdouble"
	ReactionDontAskToAsk = "botdontasktoask"
	ReactionOfficeHours  = "botofficehours"
	ReactionCall         = "botcall"

	// Reports and snippets.
	ReportSnippetLength = 100
	UnknownValue        = "Unknown"

	// Self-destruct pointer left in the origin channel by bot-channel replies.
	BotReplyPointerSeconds = 7

	// Default timeout for a single best-effort task.
	BestEffortTaskTimeout = 30 * time.Second

	// Default timeout for a single gateway event handler.
	EventHandlerTimeout = 2 * time.Minute
)
