package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) registerSlashCommands() error {
	if b.session.State.User == nil {
		return fmt.Errorf("session user is not initialized; ensure the session is open before registering commands")
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "add_date",
			Description: "Add an important date to your couple's calendar 💕",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "title",
					Description: "What's the occasion?",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "date",
					Description: "Date in YYYY-MM-DD format",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "time",
					Description: "Time in HH:MM format (optional)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "description",
					Description: "Additional details about the date",
				},
			},
		},
		{
			Name:        "upcoming_dates",
			Description: "View your upcoming dates and events 💖",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "days",
					Description: "Number of days to look ahead (default: 30)",
				},
			},
		},
		{
			Name:        "delete_date",
			Description: "Remove a date from your calendar",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "event_id",
					Description: "The ID of the event to delete",
					Required:    true,
				},
			},
		},
		{
			Name:        "date_night_ideas",
			Description: "Get random date night ideas! 💡",
		},
		{
			Name:        "love_meter",
			Description: "Check your love compatibility! 💖",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "partner",
					Description: "Tag your partner",
					Required:    true,
				},
			},
		},
		{
			Name:        "anniversary",
			Description: "Set your anniversary date! 💍",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "partner",
					Description: "Tag your partner",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "date",
					Description: "Anniversary date in YYYY-MM-DD format",
					Required:    true,
				},
			},
		},
		{
			Name:        "milestones",
			Description: "View your relationship milestones! 🏆",
		},
		{
			Name:        "love_quote",
			Description: "Get a romantic quote! 💌",
		},
		{
			Name:        "couple_game",
			Description: "Play a fun game together! 🎮",
		},
		{
			Name:        "play",
			Description: "Play a song for you and your partner 🎵",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "Song name or YouTube URL",
					Required:    true,
				},
			},
		},
		{
			Name:        "queue",
			Description: "View the music queue 📝",
		},
		{
			Name:        "stop",
			Description: "Stop music and clear the queue 🛑",
		},
		{
			Name:        "pause",
			Description: "Pause the current song ⏸️",
		},
		{
			Name:        "resume",
			Description: "Resume the paused song ▶️",
		},
		{
			Name:        "skip",
			Description: "Skip to the next song ⏭️",
		},
		{
			Name:        "leave",
			Description: "Make the bot leave the voice channel 👋",
		},
	}

	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}

// optionMap indexes a command's options by name.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}
