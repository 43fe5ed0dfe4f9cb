package discord

import (
	"math/rand"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"parrotbot/catalog"
	"parrotbot/characters"
	"parrotbot/config"
	"parrotbot/playback"
	"parrotbot/state"
	"parrotbot/tts"
)

type Bot struct {
	session    *discordgo.Session
	config     *config.Config
	catalog    *catalog.Catalog
	characters *characters.Directory
	state      *state.Session
	tts        *tts.Service

	// Guards the voice connection handle, its player and the rng. At most
	// one voice connection exists per process.
	mutex  sync.Mutex
	voice  *discordgo.VoiceConnection
	player *playback.Player
	rng    *rand.Rand
}

func NewBot(cfg *config.Config, cat *catalog.Catalog, dir *characters.Directory, sess *state.Session, ttsService *tts.Service) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		session:    dg,
		config:     cfg,
		catalog:    cat,
		characters: dir,
		state:      sess,
		tts:        ttsService,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleInteraction)
	dg.AddHandler(bot.handleMessage)
	dg.AddHandler(bot.handleVoiceStateUpdate)
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent

	return bot, nil
}

func (b *Bot) Start() error {
	return b.session.Open()
}

// Stop disconnects any active voice connection and closes the session.
// Best effort; a forced kill skips all of this.
func (b *Bot) Stop() {
	if vc, player := b.takeVoice(); vc != nil {
		player.Close()
		_ = vc.Disconnect()
	}
	b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, _ *discordgo.Ready) {
	logrus.Infof("Logged in as %s", s.State.User.String())

	b.resolveListenedChannel(s)
	b.registerCommands(s)

	_ = s.UpdateGameStatus(0, "/listen_here")
}

// resolveListenedChannel looks the persisted channel ID up through the
// platform. An ID that no longer resolves silently clears the listened
// channel.
func (b *Bot) resolveListenedChannel(s *discordgo.Session) {
	channelID := b.state.ListenedChannel()
	if channelID == "" {
		return
	}
	if _, err := s.Channel(channelID); err != nil {
		logrus.WithError(err).Debugf("Persisted channel %s could not be resolved.", channelID)
		b.state.SetListenedChannel("")
		return
	}
	logrus.Infof("Listening for TTS messages in channel %s.", channelID)
}

// setVoice replaces the active voice connection and starts a fresh player
// for it, closing the previous player.
func (b *Bot) setVoice(vc *discordgo.VoiceConnection) {
	b.mutex.Lock()
	old := b.player
	b.voice = vc
	b.player = playback.NewPlayer(connSink{vc})
	b.mutex.Unlock()

	if old != nil {
		old.Close()
	}
}

// takeVoice clears and returns the active voice connection and its player,
// or nils when there is none.
func (b *Bot) takeVoice() (*discordgo.VoiceConnection, *playback.Player) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	vc, player := b.voice, b.player
	b.voice, b.player = nil, nil
	return vc, player
}

func (b *Bot) activePlayer() *playback.Player {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.player
}

// connSink exposes the slice of a voice connection the player needs.
type connSink struct {
	vc *discordgo.VoiceConnection
}

func (s connSink) Speaking(speaking bool) error {
	return s.vc.Speaking(speaking)
}

func (s connSink) Send(frame []byte) {
	s.vc.OpusSend <- frame
}
