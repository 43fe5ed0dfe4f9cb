package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"parrotbot/characters"
)

const (
	CmdRollAffliction  = "roll_affliction"
	CmdListAfflictions = "list_afflictions"
	CmdShowHistory     = "show_history"
	CmdJoinVC          = "join_vc"
	CmdLeaveVC         = "leave_vc"
	CmdListenHere      = "listen_here"
)

const afflictionsPerPage = 5

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        CmdRollAffliction,
		Description: "Roll an affliction for a character.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "character_name",
				Description:  "The name of the character to roll an affliction for. [OPTIONAL]",
				Autocomplete: true,
			},
		},
	},
	{
		Name:        CmdListAfflictions,
		Description: "List all afflictions available.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "page",
				Description: "The page number of afflictions to display. [OPTIONAL]",
			},
		},
	},
	{
		Name:        CmdShowHistory,
		Description: "Show the history of afflictions rolled for a character.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "character_name",
				Description:  "The name of the character to show history for.",
				Required:     true,
				Autocomplete: true,
			},
		},
	},
	{
		Name:        CmdJoinVC,
		Description: "Join the voice channel you are currently in.",
	},
	{
		Name:        CmdLeaveVC,
		Description: "Leave the voice channel the bot is currently in.",
	},
	{
		Name:        CmdListenHere,
		Description: "Tell the bot to listen for messages to be sent via TTS in the current text channel.",
	},
}

func (b *Bot) registerCommands(s *discordgo.Session) {
	logrus.Info("Syncing commands...")
	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", cmd); err != nil {
			logrus.WithError(err).Errorf("Failed to register command %s.", cmd.Name)
		}
	}
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case CmdRollAffliction:
			b.handleRollAffliction(s, i)
		case CmdListAfflictions:
			b.handleListAfflictions(s, i)
		case CmdShowHistory:
			b.handleShowHistory(s, i)
		case CmdJoinVC:
			b.handleJoinVC(s, i)
		case CmdLeaveVC:
			b.handleLeaveVC(s, i)
		case CmdListenHere:
			b.handleListenHere(s, i)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleCharacterAutocomplete(s, i)
	}
}

func (b *Bot) handleRollAffliction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	characterName := stringOption(i, "character_name")

	if characterName != "" && !b.characters.Knows(userID, characterName) {
		// New character - add to the directory
		b.characters.Add(userID, characterName)
	}

	who := characterName
	if who == "" {
		who = "a random character"
	}
	content := fmt.Sprintf("Rolling affliction for %s...", who)

	b.mutex.Lock()
	aff, ok := b.catalog.Roll(b.rng)
	b.mutex.Unlock()
	if !ok {
		b.respond(s, i, content, false)
		return
	}

	if characterName != "" {
		b.characters.RecordRoll(userID, characterName, aff.Name)
	}

	b.respondEmbeds(s, i, content, []*discordgo.MessageEmbed{afflictionEmbed(aff)}, false)
}

func (b *Bot) handleListAfflictions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.catalog.Len() == 0 {
		b.respond(s, i, "No afflictions found in memory.", false)
		return
	}

	page := 1
	if v := integerOption(i, "page"); v != 0 {
		page = v
	}

	afflictions, page := b.catalog.Page(page, afflictionsPerPage)

	embeds := make([]*discordgo.MessageEmbed, 0, len(afflictions))
	for _, aff := range afflictions {
		embeds = append(embeds, afflictionEmbed(aff))
	}
	embeds[len(embeds)-1].Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d", page),
	}

	b.respondEmbeds(s, i, "", embeds, true)
}

func (b *Bot) handleShowHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	characterName := stringOption(i, "character_name")
	rolls := b.characters.History(interactionUserID(i), characterName)

	if len(rolls) == 0 {
		b.respond(s, i, fmt.Sprintf("No afflictions have been rolled for %s yet.", characterName), true)
		return
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**Affliction history for %s**\n", characterName))
	for n, roll := range rolls {
		builder.WriteString(fmt.Sprintf("%d. %s — %s\n", n+1, roll.Affliction, roll.RolledAt.Format("2006-01-02 15:04")))
	}

	b.respond(s, i, builder.String(), true)
}

func (b *Bot) handleJoinVC(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guild, err := s.State.Guild(i.GuildID)
	if err != nil {
		b.respond(s, i, "You must be in a voice channel to use this command.", true)
		return
	}

	channelID := userVoiceChannel(guild.VoiceStates, interactionUserID(i))
	if channelID == "" {
		b.respond(s, i, "You must be in a voice channel to use this command.", true)
		return
	}

	// ChannelVoiceJoin moves an existing connection within the guild.
	vc, err := s.ChannelVoiceJoin(i.GuildID, channelID, false, true)
	if err != nil {
		b.respond(s, i, fmt.Sprintf("Can't join voice channel: %s", err), true)
		return
	}
	b.setVoice(vc)

	listenedChannelID := b.state.ListenedChannel()
	if listenedChannelID == "" {
		b.respond(s, i,
			"Joined voice channel! There is no selected text channel to listen to for TTS messages. Use the `/listen_here` command in a text channel to select it.",
			true)
		return
	}

	b.respond(s, i,
		fmt.Sprintf("Joined voice channel! Now listening for TTS messages in <#%s>.", listenedChannelID),
		true)
}

func (b *Bot) handleLeaveVC(s *discordgo.Session, i *discordgo.InteractionCreate) {
	vc, player := b.takeVoice()
	if vc == nil {
		b.respond(s, i, "I am not currently in a voice channel.", true)
		return
	}

	player.Close()
	if err := vc.Disconnect(); err != nil {
		logrus.WithError(err).Error("Failed to disconnect voice connection.")
	}

	b.respond(s, i, "Left voice channel.", true)
}

func (b *Bot) handleListenHere(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.state.SetListenedChannel(i.ChannelID)
	b.respond(s, i, fmt.Sprintf("Now listening for TTS messages in <#%s>.", i.ChannelID), true)
}

func (b *Bot) handleCharacterAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	current := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "character_name" && opt.Focused {
			current = opt.StringValue()
		}
	}

	known := b.characters.ListFor(interactionUserID(i))
	filtered := characters.Filter(known, current, characters.MaxSuggestions)

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(filtered))
	for _, name := range filtered {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: name,
		})
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to send autocomplete choices.")
	}
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	b.respondEmbeds(s, i, content, nil, ephemeral)
}

func (b *Bot) respondEmbeds(s *discordgo.Session, i *discordgo.InteractionCreate, content string, embeds []*discordgo.MessageEmbed, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Embeds:  embeds,
			Flags:   flags,
		},
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to respond to interaction.")
	}
}

// userVoiceChannel finds the voice channel the user currently occupies,
// empty when they are not in one.
func userVoiceChannel(voiceStates []*discordgo.VoiceState, userID string) string {
	for _, vs := range voiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

func integerOption(i *discordgo.InteractionCreate, name string) int {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionInteger {
			return int(opt.IntValue())
		}
	}
	return 0
}
