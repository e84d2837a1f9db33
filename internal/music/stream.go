package music

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// frameBytes is one 20ms stereo frame: 960 samples x 2 channels x 2 bytes.
const frameBytes = 960 * 2 * 2

// VoiceStreamer streams tracks into Discord voice connections. It owns the
// per-guild voice connections; the manager owns everything else.
type VoiceStreamer struct {
	session *discordgo.Session
	log     *slog.Logger

	mu    sync.Mutex
	conns map[string]*discordgo.VoiceConnection
}

// NewVoiceStreamer creates a streamer bound to a Discord session.
func NewVoiceStreamer(session *discordgo.Session, log *slog.Logger) *VoiceStreamer {
	return &VoiceStreamer{
		session: session,
		log:     log,
		conns:   make(map[string]*discordgo.VoiceConnection),
	}
}

// Join connects to a guild's voice channel, reusing an existing connection
// when there is one.
func (v *VoiceStreamer) Join(guildID, channelID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if vc, ok := v.conns[guildID]; ok && vc.ChannelID == channelID {
		return nil
	}

	vc, err := v.session.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return fmt.Errorf("joining voice channel: %w", err)
	}
	v.conns[guildID] = vc
	return nil
}

// Connected reports whether the streamer holds a voice connection for the
// guild.
func (v *VoiceStreamer) Connected(guildID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.conns[guildID]
	return ok
}

// Disconnect drops the guild's voice connection, if any.
func (v *VoiceStreamer) Disconnect(guildID string) {
	v.mu.Lock()
	vc := v.conns[guildID]
	delete(v.conns, guildID)
	v.mu.Unlock()

	if vc != nil {
		if err := vc.Disconnect(); err != nil {
			v.log.Warn("voice disconnect failed", "guild_id", guildID, "error", err)
		}
	}
}

// Play spawns ffmpeg for the track's stream URL and pushes Opus frames to
// the guild's voice connection on a fresh goroutine. The returned session's
// Stop kills the decode; onFinish fires exactly once when the goroutine
// winds down.
func (v *VoiceStreamer) Play(guildID string, track *Track, onFinish func()) (Session, error) {
	v.mu.Lock()
	vc := v.conns[guildID]
	v.mu.Unlock()

	if vc == nil {
		return nil, errors.New("not connected to a voice channel")
	}

	ss := &streamSession{
		vc:       vc,
		track:    track,
		log:      v.log,
		onFinish: onFinish,
	}
	go ss.run()
	return ss, nil
}

// streamSession is one ffmpeg decode piped into one voice connection.
type streamSession struct {
	vc       *discordgo.VoiceConnection
	track    *Track
	log      *slog.Logger
	onFinish func()

	mu      sync.Mutex
	paused  bool
	stopped bool
	cmd     *exec.Cmd

	finishOnce sync.Once
}

func (ss *streamSession) Pause() {
	ss.mu.Lock()
	ss.paused = true
	ss.mu.Unlock()
}

func (ss *streamSession) Resume() {
	ss.mu.Lock()
	ss.paused = false
	ss.mu.Unlock()
}

func (ss *streamSession) Stop() {
	ss.mu.Lock()
	ss.stopped = true
	if ss.cmd != nil && ss.cmd.Process != nil {
		_ = ss.cmd.Process.Kill()
	}
	ss.mu.Unlock()
}

func (ss *streamSession) run() {
	defer ss.finishOnce.Do(ss.onFinish)

	cmd := exec.Command("ffmpeg",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", ss.track.StreamURL,
		"-vn",
		"-ac", "2",
		"-ar", "48000",
		"-f", "s16le",
		"pipe:1",
	)

	out, err := cmd.StdoutPipe()
	if err != nil {
		ss.log.Error("ffmpeg stdout pipe failed", "error", err)
		return
	}
	if err := cmd.Start(); err != nil {
		ss.log.Error("starting ffmpeg failed", "title", ss.track.Title, "error", err)
		return
	}

	ss.mu.Lock()
	ss.cmd = cmd
	alreadyStopped := ss.stopped
	ss.mu.Unlock()
	if alreadyStopped {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return
	}

	_ = ss.vc.Speaking(true)
	defer func() {
		_ = ss.vc.Speaking(false)
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	encoder, err := newOpusEncoder()
	if err != nil {
		ss.log.Error("creating opus encoder failed", "error", err)
		return
	}

	buf := make([]byte, frameBytes)
	for {
		ss.mu.Lock()
		paused, stopped := ss.paused, ss.stopped
		ss.mu.Unlock()

		if stopped {
			return
		}
		if paused {
			// ffmpeg blocks on pipe backpressure while we wait.
			time.Sleep(20 * time.Millisecond)
			continue
		}

		if _, err := io.ReadFull(out, buf); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				ss.log.Warn("reading ffmpeg output failed", "title", ss.track.Title, "error", err)
			}
			return
		}

		frame, err := encoder.encode(buf)
		if err != nil {
			ss.log.Error("opus encode failed", "error", err)
			return
		}
		ss.vc.OpusSend <- frame
	}
}
