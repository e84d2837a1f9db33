package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Koi199/TogetherBot/internal/couple"
)

const maxDisplayedMilestones = 10

func (b *Bot) handleLoveMeter(s *discordgo.Session, i *discordgo.InteractionCreate) {
	partner := optionMap(i)["partner"].UserValue(s)
	invoker := i.Member.User

	if partner.ID == invoker.ID {
		b.respondError(s, i, "❌ You can't check compatibility with yourself! Tag your partner! 💕")
		return
	}
	if partner.Bot {
		b.respondError(s, i, "❌ Bots can't be your romantic partner! Find a real human! 🤖💔")
		return
	}

	score, message := couple.CompatibilityScore(invoker.ID, partner.ID)
	filled := score / 10
	bar := strings.Repeat("💖", filled) + strings.Repeat("🤍", 10-filled)

	b.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "💖 Love Compatibility Meter",
		Color: colorPink,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💑 Couple", Value: fmt.Sprintf("%s ❤️ %s", invoker.Mention(), partner.Mention())},
			{Name: "📊 Compatibility Score", Value: fmt.Sprintf("%s\n**%d%%**", bar, score)},
			{Name: "💌 Message", Value: message},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Love meters are just for fun! Real love is built through care and understanding! 💕",
		},
	})
}

func (b *Bot) handleAnniversary(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i)
	partner := opts["partner"].UserValue(s)
	rawDate := opts["date"].StringValue()
	invoker := i.Member.User

	if partner.Bot {
		b.respondError(s, i, "❌ Bots can't be your romantic partner! 🤖💔")
		return
	}

	description := fmt.Sprintf("Anniversary between %s and %s", invoker.Username, partner.Username)
	result, err := b.couple.SetAnniversary(context.Background(), i.GuildID, invoker.ID, partner.ID, rawDate, description)
	switch {
	case errors.Is(err, couple.ErrSelfPair):
		b.respondError(s, i, "❌ You can't set an anniversary with yourself! 💕")
		return
	case errors.Is(err, couple.ErrInvalidFormat):
		b.respondError(s, i, "❌ Invalid date format! Please use YYYY-MM-DD (e.g., 2022-02-14)")
		return
	case errors.Is(err, couple.ErrFutureDate):
		b.respondError(s, i, "❌ Anniversary date should be in the past (when you first got together)! 💕")
		return
	case err != nil:
		b.log.Error("setting anniversary failed", "error", err)
		b.respondError(s, i, "❌ Something went wrong while setting your anniversary. Please try again!")
		return
	}

	totalDays := int(result.Together.Hours() / 24)
	years := totalDays / 365
	months := (totalDays % 365) / 30
	days := totalDays % 30

	var together strings.Builder
	if years > 0 {
		fmt.Fprintf(&together, "%d year%s, ", years, plural(years))
	}
	if months > 0 {
		fmt.Fprintf(&together, "%d month%s, ", months, plural(months))
	}
	fmt.Fprintf(&together, "%d day%s", days, plural(days))

	b.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "💍 Anniversary Set!",
		Description: fmt.Sprintf("Anniversary date has been set for %s and %s!", invoker.Mention(), partner.Mention()),
		Color:       colorPink,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📅 Anniversary Date", Value: discordDate(result.Milestone.MilestoneDate)},
			{Name: "⏰ Time Together", Value: together.String()},
			{Name: "🎉 Next Anniversary", Value: discordRelative(result.Next)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Congratulations on your love! 💕"},
	})
}

func (b *Bot) handleMilestones(s *discordgo.Session, i *discordgo.InteractionCreate) {
	milestones, err := b.couple.Milestones(context.Background(), i.GuildID)
	if err != nil {
		b.log.Error("listing milestones failed", "error", err)
		b.respondError(s, i, "❌ Something went wrong while fetching milestones. Please try again!")
		return
	}

	if len(milestones) == 0 {
		b.respondEmbed(s, i, &discordgo.MessageEmbed{
			Title:       "🏆 No Milestones Yet",
			Description: "No milestones recorded yet! Use `/anniversary` to set your first milestone! 💕",
			Color:       colorPink,
		})
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Relationship Milestones",
		Description: "Here are your recorded milestones:",
		Color:       colorPink,
	}
	for _, m := range milestones {
		if len(embed.Fields) >= maxDisplayedMilestones {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("💖 %s", capitalize(m.MilestoneType)),
			Value: fmt.Sprintf("%s & %s\n%s\n%s",
				b.memberName(i.GuildID, m.User1ID), b.memberName(i.GuildID, m.User2ID),
				discordDate(m.MilestoneDate), truncate(m.Description, 100)),
		})
	}
	if len(milestones) > maxDisplayedMilestones {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing first %d of %d milestones", maxDisplayedMilestones, len(milestones)),
		}
	}

	b.respondEmbed(s, i, embed)
}

func (b *Bot) handleLoveQuote(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "💌 Love Quote for You",
		Description: couple.RandomQuote(),
		Color:       colorPink,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Spreading love, one quote at a time! 💕"},
	})
}

func (b *Bot) handleCoupleGame(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🎮 Couple's Game!",
		Description: fmt.Sprintf("Here's a question for you two to discuss:\n\n**%s**", couple.RandomQuestion()),
		Color:       colorPink,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "🎯 How to Play",
				Value: "Take turns answering about each other and see how well you know your partner!",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Use this command again for a new question! 💕"},
	})
}

// memberName resolves a member's display name from the state cache.
func (b *Bot) memberName(guildID, userID string) string {
	member, err := b.session.State.Member(guildID, userID)
	if err != nil || member == nil {
		return "Unknown User"
	}
	if member.Nick != "" {
		return "**" + member.Nick + "**"
	}
	return "**" + member.User.Username + "**"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
