// Package bot is the Discord command gateway: it registers the slash
// commands, parses invocations into typed arguments for the services, and
// renders their results as embeds.
package bot

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/Koi199/TogetherBot/internal/calendar"
	"github.com/Koi199/TogetherBot/internal/couple"
	"github.com/Koi199/TogetherBot/internal/music"
	"github.com/Koi199/TogetherBot/internal/store"
)

// Bot wires the Discord session to the calendar, couple, and music
// services.
type Bot struct {
	session  *discordgo.Session
	log      *slog.Logger
	calendar *calendar.Service
	couple   *couple.Service
	music    *music.Manager
	resolver music.Resolver
	voice    *music.VoiceStreamer
}

// New constructs the bot around an existing session.
func New(
	session *discordgo.Session,
	log *slog.Logger,
	calendarSvc *calendar.Service,
	coupleSvc *couple.Service,
	manager *music.Manager,
	resolver music.Resolver,
	voice *music.VoiceStreamer,
) *Bot {
	return &Bot{
		session:  session,
		log:      log,
		calendar: calendarSvc,
		couple:   coupleSvc,
		music:    manager,
		resolver: resolver,
		voice:    voice,
	}
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start() error {
	b.session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening Discord session: %w", err)
	}

	if err := b.registerSlashCommands(); err != nil {
		return fmt.Errorf("registering slash commands: %w", err)
	}

	b.session.AddHandler(b.handleInteraction)
	b.log.Info("bot is running", "user", b.session.State.User.Username)
	return nil
}

// Close shuts the gateway connection down.
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "add_date":
		b.handleAddDate(s, i)
	case "upcoming_dates":
		b.handleUpcomingDates(s, i)
	case "delete_date":
		b.handleDeleteDate(s, i)
	case "date_night_ideas":
		b.handleDateNightIdeas(s, i)
	case "love_meter":
		b.handleLoveMeter(s, i)
	case "anniversary":
		b.handleAnniversary(s, i)
	case "milestones":
		b.handleMilestones(s, i)
	case "love_quote":
		b.handleLoveQuote(s, i)
	case "couple_game":
		b.handleCoupleGame(s, i)
	case "play":
		query := i.ApplicationCommandData().Options[0].StringValue()
		go b.handlePlay(s, i, query)
	case "queue":
		b.handleQueue(s, i)
	case "stop":
		b.handleStop(s, i)
	case "pause":
		b.handlePause(s, i)
	case "resume":
		b.handleResume(s, i)
	case "skip":
		b.handleSkip(s, i)
	case "leave":
		b.handleLeave(s, i)
	default:
		b.log.Warn("unknown slash command", "name", i.ApplicationCommandData().Name)
	}
}

// ResolveChannel reports whether the guild and channel of a reminder still
// exist, using the session's state cache. Implements reminder.ChannelResolver.
func (b *Bot) ResolveChannel(guildID, channelID string) bool {
	guild, err := b.session.State.Guild(guildID)
	if err != nil || guild == nil {
		return false
	}
	channel, err := b.session.State.Channel(channelID)
	if err != nil || channel == nil || channel.GuildID != guildID {
		return false
	}
	return true
}

// SendReminder delivers one due-event reminder to its channel, mentioning
// the event's creator. Implements reminder.Notifier.
func (b *Bot) SendReminder(event store.Event) error {
	embed := &discordgo.MessageEmbed{
		Title:       "💕 Reminder Alert!",
		Description: fmt.Sprintf("**%s**\n\n%s", event.Title, event.Description),
		Color:       colorPink,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "When",
				Value: discordTimestamp(event.EventDate),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Don't forget! 💖"},
	}

	_, err := b.session.ChannelMessageSendComplex(event.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", event.UserID),
		Embed:   embed,
	})
	if err != nil {
		return fmt.Errorf("sending reminder: %w", err)
	}
	return nil
}
