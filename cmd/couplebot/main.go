package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/Koi199/TogetherBot/internal/bot"
	"github.com/Koi199/TogetherBot/internal/calendar"
	"github.com/Koi199/TogetherBot/internal/config"
	"github.com/Koi199/TogetherBot/internal/couple"
	"github.com/Koi199/TogetherBot/internal/keepalive"
	"github.com/Koi199/TogetherBot/internal/music"
	"github.com/Koi199/TogetherBot/internal/reminder"
	"github.com/Koi199/TogetherBot/internal/store"
)

func main() {
	_ = godotenv.Load()
	log := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		log.Error("opening store failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	events := store.NewEventRepository(db)
	milestones := store.NewMilestoneRepository(db)

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Error("creating Discord session failed", "error", err)
		os.Exit(1)
	}

	voice := music.NewVoiceStreamer(session, log)
	b := bot.New(
		session,
		log,
		calendar.NewService(events),
		couple.NewService(milestones),
		music.NewManager(voice, log),
		music.NewYTDLPResolver(log),
		voice,
	)

	if err := b.Start(); err != nil {
		log.Error("starting bot failed", "error", err)
		os.Exit(1)
	}

	// The scheduler starts only after the session is open so guild and
	// channel lookups hit a populated state cache.
	scheduler := reminder.New(events, b, b, log)
	if err := scheduler.Start(); err != nil {
		log.Error("starting reminder scheduler failed", "error", err)
		os.Exit(1)
	}

	keepAlive := keepalive.New(cfg.KeepAliveAddr, log)
	keepAlive.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := keepAlive.Shutdown(ctx); err != nil {
		log.Warn("keep-alive shutdown failed", "error", err)
	}

	if err := b.Close(); err != nil {
		log.Warn("closing session failed", "error", err)
	}
	log.Info("bot stopped")
}
