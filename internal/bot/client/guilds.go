package client

import (
	"cmp"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/puzpuzpuz/xsync/v3"
)

// Guilds tracks the guilds the bot is currently in.
type Guilds struct {
	guilds *xsync.MapOf[snowflake.ID, interfaces.Guild]
}

// NewGuilds creates an empty guild set.
func NewGuilds() *Guilds {
	return &Guilds{guilds: xsync.NewMapOf[snowflake.ID, interfaces.Guild]()}
}

// Put stores or replaces a guild.
func (g *Guilds) Put(guild discord.Guild) {
	g.guilds.Store(guild.ID, interfaces.Guild{
		ID:          guild.ID,
		Name:        guild.Name,
		PremiumTier: guild.PremiumTier,
	})
}

// Remove forgets a guild.
func (g *Guilds) Remove(guildID snowflake.ID) {
	g.guilds.Delete(guildID)
}

// Get returns a tracked guild.
func (g *Guilds) Get(guildID snowflake.ID) (interfaces.Guild, bool) {
	return g.guilds.Load(guildID)
}

// All returns every tracked guild ordered by ID.
func (g *Guilds) All() []interfaces.Guild {
	guilds := make([]interfaces.Guild, 0, g.guilds.Size())
	g.guilds.Range(func(_ snowflake.ID, guild interfaces.Guild) bool {
		guilds = append(guilds, guild)
		return true
	})

	slices.SortFunc(guilds, func(a, b interfaces.Guild) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return guilds
}

// Len returns the number of tracked guilds.
func (g *Guilds) Len() int {
	return g.guilds.Size()
}
