package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"parrotbot/catalog"
	"parrotbot/characters"
	"parrotbot/config"
	"parrotbot/discord"
	"parrotbot/logging"
	"parrotbot/state"
	"parrotbot/tts"
)

func main() {
	logging.Setup()

	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load config: ", err)
	}

	logrus.Info("Loading data into memory...")
	cat := catalog.New(cfg.AfflictionsPath())
	if err := cat.Load(); err != nil {
		logrus.Fatal("Failed to load afflictions: ", err)
	}
	logrus.Infof("Loaded %d afflictions into memory.", cat.Len())

	session := state.NewSession(cfg.BotConfigsPath())
	if err := session.Load(); err != nil {
		logrus.Fatal("Failed to load bot configs: ", err)
	}

	bot, err := discord.NewBot(cfg, cat, characters.NewDirectory(), session, tts.NewService(cfg))
	if err != nil {
		logrus.Fatal("Failed to create bot: ", err)
	}

	if err := bot.Start(); err != nil {
		logrus.Fatal("Failed to open Discord session: ", err)
	}

	logrus.Info("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logrus.Info("Shutting down bot and saving data...")
	if err := cat.Save(); err != nil {
		logrus.Error("Failed to save afflictions: ", err)
	}
	bot.Stop()
	if err := session.Save(); err != nil {
		logrus.Error("Failed to save bot configs: ", err)
	}
}
