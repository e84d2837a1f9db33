package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Koi199/TogetherBot/internal/calendar"
	"github.com/Koi199/TogetherBot/internal/couple"
)

const maxDisplayedEvents = 10

func (b *Bot) handleAddDate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)

	in := calendar.AddEventInput{
		GuildID:   i.GuildID,
		CreatorID: i.Member.User.ID,
		ChannelID: i.ChannelID,
		Title:     opts["title"].StringValue(),
		Date:      opts["date"].StringValue(),
	}
	if opt, ok := opts["time"]; ok {
		in.Time = opt.StringValue()
	}
	if opt, ok := opts["description"]; ok {
		in.Description = opt.StringValue()
	}

	eventID, err := b.calendar.AddEvent(context.Background(), in)
	switch {
	case errors.Is(err, calendar.ErrInvalidFormat):
		b.respondError(s, i, "❌ Invalid date or time format! Please use YYYY-MM-DD and HH:MM (e.g., 2024-12-25 14:30)")
		return
	case errors.Is(err, calendar.ErrPastDate):
		b.respondError(s, i, "❌ The date must be in the future! Let's plan ahead! 💖")
		return
	case err != nil:
		b.log.Error("adding event failed", "error", err)
		b.respondError(s, i, "❌ Something went wrong while adding your date. Please try again!")
		return
	}

	eventDate, _ := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, time.Local)
	if in.Time == "" {
		eventDate, _ = time.ParseInLocation("2006-01-02", in.Date, time.Local)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "💕 Date Added Successfully!",
		Description: fmt.Sprintf("**%s** has been added to your couple's calendar!", in.Title),
		Color:       colorPink,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📅 When", Value: discordTimestamp(eventDate)},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Event ID: %d • Added by %s", eventID, i.Member.User.Username),
		},
	}
	if in.Description != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "📝 Details", Value: in.Description,
		})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "⏰ Reminder", Value: "You'll get a reminder 24 hours before!",
	})

	b.respondEmbed(s, i, embed)
}

func (b *Bot) handleUpcomingDates(s *discordgo.Session, i *discordgo.InteractionCreate) {
	days := 30
	if opt, ok := optionMap(i)["days"]; ok {
		days = int(opt.IntValue())
	}

	events, err := b.calendar.ListUpcoming(context.Background(), i.GuildID, days)
	switch {
	case errors.Is(err, calendar.ErrRange):
		b.respondError(s, i, "❌ Please specify between 1 and 365 days!")
		return
	case err != nil:
		b.log.Error("listing events failed", "error", err)
		b.respondError(s, i, "❌ Something went wrong while fetching your dates. Please try again!")
		return
	}

	if len(events) == 0 {
		b.respondEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "📅 No Upcoming Dates",
			Description: "No dates planned yet! Use `/add_date` to add some special moments! 💕",
			Color:       colorPink,
		})
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "💕 Your Upcoming Dates",
		Description: fmt.Sprintf("Here are your next %d planned moments together:", len(events)),
		Color:       colorPink,
	}

	now := time.Now()
	for _, event := range events {
		if len(embed.Fields) >= maxDisplayedEvents {
			break
		}
		timeText := discordTimestamp(event.EventDate)
		switch daysUntil := int(event.EventDate.Sub(now).Hours() / 24); {
		case daysUntil == 0:
			timeText += " (Today! 🎉)"
		case daysUntil == 1:
			timeText += " (Tomorrow! ✨)"
		case daysUntil <= 7:
			timeText += fmt.Sprintf(" (In %d days)", daysUntil)
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("💖 %s", event.Title),
			Value: fmt.Sprintf("%s\n%s", timeText, truncate(event.Description, 100)),
		})
	}
	if len(events) > maxDisplayedEvents {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing first %d of %d events", maxDisplayedEvents, len(events)),
		}
	}

	b.respondEmbed(s, i, embed)
}

func (b *Bot) handleDeleteDate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	eventID := optionMap(i)["event_id"].IntValue()

	deleted, err := b.calendar.DeleteEvent(context.Background(), eventID, i.Member.User.ID)
	if err != nil {
		b.log.Error("deleting event failed", "error", err)
		b.respondError(s, i, "❌ Something went wrong while deleting the date. Please try again!")
		return
	}

	if deleted {
		b.respondEphemeralEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "🗑️ Date Removed",
			Description: "The date has been successfully removed from your calendar.",
			Color:       colorGreen,
		})
		return
	}
	b.respondEphemeralEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "❌ Cannot Remove Date",
		Description: "Event not found or you don't have permission to delete it.",
		Color:       colorRed,
	})
}

func (b *Bot) handleDateNightIdeas(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := &discordgo.MessageEmbed{
		Title:       "💡 Date Night Ideas for You Two!",
		Description: "Here are some cute ideas for your next date night:",
		Color:       colorPink,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Run this command again for more ideas! 💕"},
	}
	for n, idea := range couple.DateIdeas(5) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Idea #%d", n+1),
			Value: idea,
		})
	}
	b.respondEmbed(s, i, embed)
}
