package selfdestruct

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
)

// Messenger posts messages carrying a self-destruct notice.
type Messenger struct {
	platform interfaces.Platform
}

// NewMessenger creates a Messenger.
func NewMessenger(platform interfaces.Platform) *Messenger {
	return &Messenger{platform: platform}
}

// Send posts content to the channel with the notice appended.
// A zero expiry means ten seconds.
func (m *Messenger) Send(ctx context.Context, channelID snowflake.ID, content string, expiry Expiry) (*discord.Message, error) {
	return m.platform.SendMessage(ctx, channelID, discord.MessageCreate{
		Content: Compose(content, expiry),
	})
}
