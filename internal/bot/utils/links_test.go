package utils

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestMessageLink(t *testing.T) {
	guildID := snowflake.ID(100)
	zero := snowflake.ID(0)

	tests := []struct {
		name    string
		guildID *snowflake.ID
		want    string
	}{
		{
			name:    "guild message",
			guildID: &guildID,
			want:    "https://discordapp.com/channels/100/200/300",
		},
		{
			name:    "direct message",
			guildID: nil,
			want:    "https://discordapp.com/channels/@me/200/300",
		},
		{
			name:    "zero guild",
			guildID: &zero,
			want:    "https://discordapp.com/channels/@me/200/300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageLink(tt.guildID, 200, 300))
		})
	}
}

func TestMentions(t *testing.T) {
	assert.Equal(t, "https://discord.com/users/42", MemberLink(42))
	assert.Equal(t, "<@42>", UserMention(42))
	assert.Equal(t, "<@&7>", RoleMention(7))
	assert.Equal(t, "<:bothelp:9>", EmojiMention(discord.Emoji{ID: 9, Name: "bothelp"}))
	assert.Equal(t, "<a:party:9>", EmojiMention(discord.Emoji{ID: 9, Name: "party", Animated: true}))
}

func TestDisplayName(t *testing.T) {
	nick := "Kody"
	global := "Kody the Koala"
	empty := ""

	tests := []struct {
		name   string
		member discord.Member
		want   string
	}{
		{
			name:   "nickname wins",
			member: discord.Member{Nick: &nick, User: discord.User{Username: "kody", GlobalName: &global}},
			want:   "Kody",
		},
		{
			name:   "global name without nickname",
			member: discord.Member{Nick: &empty, User: discord.User{Username: "kody", GlobalName: &global}},
			want:   "Kody the Koala",
		},
		{
			name:   "username fallback",
			member: discord.Member{User: discord.User{Username: "kody"}},
			want:   "kody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.member))
		})
	}
}
