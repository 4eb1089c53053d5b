package welcome

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/kcdcommunity/kcdbot/internal/bot/constants"
	"github.com/kcdcommunity/kcdbot/internal/bot/utils"
)

// NewMemberEmbed builds the bot log entry for a member. The Member ID field always
// comes first so the entry can be found again later.
func NewMemberEmbed(member discord.Member, fields ...discord.EmbedField) discord.Embed {
	return discord.Embed{
		Title: constants.NewMemberTitle,
		Author: &discord.EmbedAuthor{
			Name:    utils.DisplayName(member),
			URL:     utils.MemberLink(member.User.ID),
			IconURL: member.User.EffectiveAvatarURL(),
		},
		Color:       constants.OrangeEmbedColor,
		Description: utils.UserMention(member.User.ID) + " has joined the server.",
		Fields: append([]discord.EmbedField{
			{Name: constants.MemberIDFieldName, Value: member.User.ID.String()},
		}, fields...),
	}
}
