package discord

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"parrotbot/catalog"
)

// afflictionEmbed projects an affliction onto its display card: title, a
// small danger annotation above the description, one field per detail with
// a title-cased label, accent color from the danger tier.
func afflictionEmbed(aff catalog.Affliction) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       aff.Name,
		Description: fmt.Sprintf("-# Danger Level:%d\n\n%s", aff.Danger, aff.Description),
		Color:       catalog.ColorForDanger(aff.Danger),
	}

	keys := make([]string, 0, len(aff.Details))
	for key := range aff.Details {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	caser := cases.Title(language.English)
	for _, key := range keys {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  caser.String(key),
			Value: aff.Details[key],
		})
	}

	return embed
}
