package client

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/stretchr/testify/assert"
)

func TestGuilds(t *testing.T) {
	guilds := NewGuilds()

	guilds.Put(discord.Guild{ID: 2, Name: "KCD", PremiumTier: discord.PremiumTier3})
	guilds.Put(discord.Guild{ID: 1, Name: "Epic Web"})

	guild, ok := guilds.Get(2)
	assert.True(t, ok)
	assert.True(t, guild.CanCreatePrivateThreads())

	assert.Equal(t, []interfaces.Guild{
		{ID: 1, Name: "Epic Web"},
		{ID: 2, Name: "KCD", PremiumTier: discord.PremiumTier3},
	}, guilds.All())

	guilds.Remove(2)
	_, ok = guilds.Get(2)
	assert.False(t, ok)
	assert.Equal(t, 1, guilds.Len())
}
