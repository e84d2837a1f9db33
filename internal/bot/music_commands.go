package bot

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/Koi199/TogetherBot/internal/music"
)

const maxDisplayedQueue = 10

// handlePlay defers the response (resolution can be slow), joins the
// invoker's voice channel, resolves the query, and hands the track to the
// queue manager. Runs on its own goroutine.
func (b *Bot) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate, query string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		b.log.Error("acknowledging interaction failed", "error", err)
		return
	}

	vs, err := s.State.VoiceState(i.GuildID, i.Member.User.ID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		b.followupError(s, i, "❌ You need to be in a voice channel to play music! Join one and try again! 💕")
		return
	}

	if err := b.voice.Join(i.GuildID, vs.ChannelID); err != nil {
		b.log.Error("joining voice channel failed", "guild_id", i.GuildID, "error", err)
		b.followupError(s, i, fmt.Sprintf("❌ Error joining voice channel: %v", err))
		return
	}

	track, err := b.resolver.Resolve(query)
	if err != nil {
		if errors.Is(err, music.ErrTrackUnresolved) {
			b.followupError(s, i, "❌ Couldn't find or play that song! Try a different search term or URL. 💔")
			return
		}
		b.log.Error("resolving track failed", "query", query, "error", err)
		b.followupError(s, i, "❌ Something went wrong while trying to play music. Please try again! 💔")
		return
	}

	position, err := b.music.EnqueueOrPlay(i.GuildID, track, i.Member.User.ID)
	if err != nil {
		b.log.Error("starting playback failed", "guild_id", i.GuildID, "error", err)
		b.followupError(s, i, "❌ Something went wrong while trying to play music. Please try again! 💔")
		return
	}

	if position == 0 {
		embed := &discordgo.MessageEmbed{
			Title:       "🎵 Now Playing",
			Description: fmt.Sprintf("**%s**", track.Title),
			Color:       colorPink,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "⏱️ Duration", Value: track.Duration, Inline: true},
				{Name: "🎧 Requested by", Value: i.Member.User.Mention(), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: "Enjoy your music together! 💕"},
		}
		if track.Thumbnail != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.Thumbnail}
		}
		b.followupEmbed(s, i, embed)
		return
	}

	b.followupEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "📝 Added to Queue",
		Description: fmt.Sprintf("**%s** has been added to the queue!", track.Title),
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📍 Position", Value: fmt.Sprintf("%d in queue", position), Inline: true},
			{Name: "🎧 Requested by", Value: i.Member.User.Mention(), Inline: true},
		},
	})
}

func (b *Bot) handleQueue(s *discordgo.Session, i *discordgo.InteractionCreate) {
	state, current, queue := b.music.Snapshot(i.GuildID)

	embed := &discordgo.MessageEmbed{
		Title: "🎵 Music Queue",
		Color: colorPink,
	}

	if current != nil {
		nowPlaying := fmt.Sprintf("**%s** (%s)", current.Track.Title, current.Track.Duration)
		if state == music.StatePaused {
			nowPlaying += " ⏸️"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "🎵 Now Playing", Value: nowPlaying,
		})
		if current.Track.Thumbnail != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: current.Track.Thumbnail}
		}
	}

	switch {
	case len(queue) > 0:
		var upNext string
		for n, entry := range queue {
			if n >= maxDisplayedQueue {
				break
			}
			upNext += fmt.Sprintf("%d. **%s** - <@%s>\n", n+1, entry.Track.Title, entry.Requester)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "📝 Up Next", Value: upNext,
		})
		if len(queue) > maxDisplayedQueue {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Showing first %d of %d songs in queue", maxDisplayedQueue, len(queue)),
			}
		}
	case current == nil:
		embed.Description = "Queue is empty! Use `/play` to add some music! 🎶"
	default:
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "📝 Up Next", Value: "Queue is empty",
		})
	}

	b.respondEmbed(s, i, embed)
}

func (b *Bot) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	state, _, _ := b.music.Snapshot(i.GuildID)
	if state == music.StateIdle {
		b.respondError(s, i, "❌ No music is currently playing!")
		return
	}

	b.music.Stop(i.GuildID)
	b.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🛑 Music Stopped",
		Description: "Music has been stopped and queue cleared!",
		Color:       colorRed,
	})
}

func (b *Bot) handlePause(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := b.music.Pause(i.GuildID); err != nil {
		b.respondError(s, i, "❌ No music is currently playing!")
		return
	}
	b.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "⏸️ Music Paused",
		Description: "Music has been paused. Use `/resume` to continue!",
		Color:       colorOrange,
	})
}

func (b *Bot) handleResume(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := b.music.Resume(i.GuildID); err != nil {
		b.respondError(s, i, "❌ No music is currently paused!")
		return
	}
	b.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "▶️ Music Resumed",
		Description: "Music has been resumed!",
		Color:       colorGreen,
	})
}

func (b *Bot) handleSkip(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := b.music.Skip(i.GuildID); err != nil {
		b.respondError(s, i, "❌ No music is currently playing!")
		return
	}
	b.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "⏭️ Song Skipped",
		Description: "Skipped to the next song!",
		Color:       colorGreen,
	})
}

func (b *Bot) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.voice.Connected(i.GuildID) {
		b.respondError(s, i, "❌ I'm not in a voice channel!")
		return
	}

	b.music.Leave(i.GuildID)
	b.respondEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "👋 Left Voice Channel",
		Description: "See you later lovebirds! 💕",
		Color:       colorPink,
	})
}
