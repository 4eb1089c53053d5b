package utils

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// MessageLink returns the permalink of a message.
// Direct messages have no guild and use "@me" in its place.
func MessageLink(guildID *snowflake.ID, channelID, messageID snowflake.ID) string {
	guild := "@me"
	if guildID != nil && *guildID != 0 {
		guild = guildID.String()
	}
	return fmt.Sprintf("https://discordapp.com/channels/%s/%s/%s", guild, channelID, messageID)
}

// MemberLink returns the profile link of a user.
func MemberLink(userID snowflake.ID) string {
	return "https://discord.com/users/" + userID.String()
}

// UserMention formats a user ID as a mention.
func UserMention(userID snowflake.ID) string {
	return "<@" + userID.String() + ">"
}

// RoleMention formats a role ID as a mention.
func RoleMention(roleID snowflake.ID) string {
	return "<@&" + roleID.String() + ">"
}

// EmojiMention formats a custom emoji so it renders inline.
func EmojiMention(emoji discord.Emoji) string {
	if emoji.Animated {
		return fmt.Sprintf("<a:%s:%s>", emoji.Name, emoji.ID)
	}
	return fmt.Sprintf("<:%s:%s>", emoji.Name, emoji.ID)
}

// DisplayName returns the name a member is shown with in the guild.
func DisplayName(member discord.Member) string {
	if member.Nick != nil && *member.Nick != "" {
		return *member.Nick
	}
	if member.User.GlobalName != nil && *member.User.GlobalName != "" {
		return *member.User.GlobalName
	}
	return member.User.Username
}
