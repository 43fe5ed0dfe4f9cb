package discord

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"parrotbot/playback"
	"parrotbot/tts"
)

// noticeTTL is how long in-channel rejection notices live before the bot
// deletes them.
const noticeTTL = 10 * time.Second

type messageDecision int

const (
	decisionIgnore messageDecision = iota
	decisionNoVoice
	decisionTooLong
	decisionSpeak
)

// classifyMessage applies the listener preconditions in order: wrong
// channel or own message, then missing voice connection, then length.
func classifyMessage(channelID, authorID, listenedChannelID, selfID string, hasVoice bool, content string, maxLen int) messageDecision {
	if listenedChannelID == "" || channelID != listenedChannelID || authorID == selfID {
		return decisionIgnore
	}
	if !hasVoice {
		return decisionNoVoice
	}
	if utf8.RuneCountInString(content) > maxLen {
		return decisionTooLong
	}
	return decisionSpeak
}

func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	player := b.activePlayer()

	decision := classifyMessage(
		m.ChannelID,
		m.Author.ID,
		b.state.ListenedChannel(),
		s.State.User.ID,
		player != nil,
		m.Content,
		b.config.TTS.MaxMessageLen,
	)

	switch decision {
	case decisionIgnore:
	case decisionNoVoice:
		b.sendExpiringNotice(s, m.ChannelID,
			"I am not currently in a voice channel. Use the `/join_vc` command to have me join your voice channel.")
	case decisionTooLong:
		b.sendExpiringNotice(s, m.ChannelID,
			fmt.Sprintf("Message is too long to send via TTS. Please keep messages under %d characters.", b.config.TTS.MaxMessageLen))
	case decisionSpeak:
		logrus.Info("Received message: " + m.Content)
		go b.speak(player, m.Content)
	}
}

// speak synthesizes the complete clip, converts it and submits it. It does
// not wait for earlier clips; ordering is the player's policy.
func (b *Bot) speak(player *playback.Player, text string) {
	clip, err := b.tts.Synthesize(context.Background(), text)
	if err != nil {
		logrus.WithError(err).Error("Failed to synthesize message.")
		return
	}

	frames, err := tts.OpusFrames(clip)
	if err != nil {
		logrus.WithError(err).Error("Failed to convert speech clip.")
		return
	}

	player.Play(frames)
}

// noticeSender is the slice of the session the rejection notices need.
type noticeSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

func (b *Bot) sendExpiringNotice(s *discordgo.Session, channelID, content string) {
	expiringNotice(s, channelID, content, noticeTTL)
}

// expiringNotice sends one in-channel reply and schedules its deletion.
func expiringNotice(s noticeSender, channelID, content string, ttl time.Duration) {
	msg, err := s.ChannelMessageSend(channelID, content)
	if err != nil {
		logrus.WithError(err).Error("Failed to send notice.")
		return
	}
	time.AfterFunc(ttl, func() {
		_ = s.ChannelMessageDelete(channelID, msg.ID)
	})
}

// handleVoiceStateUpdate leaves the voice channel once the last non-bot
// member is gone. This is the only automatic-leave trigger.
func (b *Bot) handleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	b.mutex.Lock()
	vc := b.voice
	b.mutex.Unlock()
	if vc == nil {
		return
	}

	botChannelID := vc.ChannelID
	if v.ChannelID != botChannelID && (v.BeforeUpdate == nil || v.BeforeUpdate.ChannelID != botChannelID) {
		return
	}

	guild, err := s.State.Guild(vc.GuildID)
	if err != nil {
		return
	}

	remaining := countNonBotMembers(guild.VoiceStates, botChannelID, func(userID string) bool {
		return b.memberIsBot(s, guild.ID, userID)
	})
	if remaining > 0 {
		return
	}

	vc, player := b.takeVoice()
	if vc == nil {
		return
	}
	player.Close()
	if err := vc.Disconnect(); err != nil {
		logrus.WithError(err).Error("Failed to disconnect voice connection.")
	}
	logrus.Info("Left voice channel due to no non-bot users remaining.")
}

func countNonBotMembers(voiceStates []*discordgo.VoiceState, channelID string, isBot func(userID string) bool) int {
	count := 0
	for _, vs := range voiceStates {
		if vs.ChannelID == channelID && !isBot(vs.UserID) {
			count++
		}
	}
	return count
}

func (b *Bot) memberIsBot(s *discordgo.Session, guildID, userID string) bool {
	if userID == s.State.User.ID {
		return true
	}
	member, err := s.State.Member(guildID, userID)
	if err != nil {
		member, err = s.GuildMember(guildID, userID)
		if err != nil {
			return false
		}
	}
	return member.User != nil && member.User.Bot
}
