package music

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrStateConflict is returned when an operation is invoked from a queue
// state that does not permit it.
var ErrStateConflict = errors.New("operation not valid in current playback state")

// State is a guild's playback state.
type State int

const (
	// StateIdle: no track active, empty queue.
	StateIdle State = iota
	// StatePlaying: one track active, zero or more queued.
	StatePlaying
	// StatePaused: one track active but suspended.
	StatePaused
)

// QueueEntry is one pending track and who asked for it.
type QueueEntry struct {
	Track     *Track
	Requester string
}

// NowPlaying is the active track.
type NowPlaying struct {
	Track     *Track
	Requester string
	StartedAt time.Time
}

// Session controls one active stream. Stop is non-blocking; the stream's
// finish callback fires asynchronously afterwards.
type Session interface {
	Pause()
	Resume()
	Stop()
}

// Streamer starts playback of a track on a guild's voice connection.
// onFinish must be invoked exactly once when the stream ends, naturally or
// via Stop, and never synchronously from within Play.
type Streamer interface {
	Play(guildID string, track *Track, onFinish func()) (Session, error)
	Disconnect(guildID string)
}

// Manager owns every guild's queue state. All mutation goes through its
// operations; command handlers and the finish callback are serialized per
// guild by the guild's own mutex.
type Manager struct {
	streamer Streamer
	log      *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	guilds map[string]*guildState
}

type guildState struct {
	mu      sync.Mutex
	state   State
	queue   []QueueEntry
	current *NowPlaying
	session Session
	// gen increments whenever the active session changes or is torn down,
	// so a finish callback from a superseded session is ignored.
	gen uint64
}

// NewManager creates a music queue manager.
func NewManager(streamer Streamer, log *slog.Logger) *Manager {
	return &Manager{
		streamer: streamer,
		log:      log,
		now:      time.Now,
		guilds:   make(map[string]*guildState),
	}
}

// guild returns the guild's state, creating it lazily.
func (m *Manager) guild(guildID string) *guildState {
	m.mu.Lock()
	defer m.mu.Unlock()
	gs, ok := m.guilds[guildID]
	if !ok {
		gs = &guildState{}
		m.guilds[guildID] = gs
	}
	return gs
}

// lookup returns the guild's state without creating it.
func (m *Manager) lookup(guildID string) *guildState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.guilds[guildID]
}

// EnqueueOrPlay starts the track immediately when the guild is idle, or
// appends it to the queue otherwise. Returns the 1-based queue position of
// an appended entry, or 0 when playback started directly. On a streamer
// failure nothing is enqueued and any current playback is undisturbed.
func (m *Manager) EnqueueOrPlay(guildID string, track *Track, requester string) (int, error) {
	gs := m.guild(guildID)
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != StateIdle {
		gs.queue = append(gs.queue, QueueEntry{Track: track, Requester: requester})
		return len(gs.queue), nil
	}

	if err := m.startLocked(guildID, gs, track, requester); err != nil {
		return 0, err
	}
	return 0, nil
}

// startLocked begins streaming a track. Caller holds gs.mu.
func (m *Manager) startLocked(guildID string, gs *guildState, track *Track, requester string) error {
	gs.gen++
	gen := gs.gen

	session, err := m.streamer.Play(guildID, track, func() {
		m.trackFinished(guildID, gen)
	})
	if err != nil {
		return err
	}

	gs.session = session
	gs.current = &NowPlaying{Track: track, Requester: requester, StartedAt: m.now()}
	gs.state = StatePlaying
	m.log.Info("playback started", "guild_id", guildID, "title", track.Title)
	return nil
}

// trackFinished advances the queue when a stream ends. Stale callbacks from
// superseded sessions are dropped by the generation check. Starting the
// next stream is fire-and-forget: the streamer spawns its own goroutine.
func (m *Manager) trackFinished(guildID string, gen uint64) {
	gs := m.lookup(guildID)
	if gs == nil {
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.gen != gen {
		return
	}

	for len(gs.queue) > 0 {
		next := gs.queue[0]
		gs.queue = gs.queue[1:]
		if err := m.startLocked(guildID, gs, next.Track, next.Requester); err != nil {
			m.log.Error("starting next track failed",
				"guild_id", guildID, "title", next.Track.Title, "error", err)
			continue
		}
		return
	}

	gs.session = nil
	gs.current = nil
	gs.state = StateIdle
	m.log.Info("queue drained", "guild_id", guildID)
}

// Pause suspends the active track. Valid only while playing.
func (m *Manager) Pause(guildID string) error {
	gs := m.guild(guildID)
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != StatePlaying {
		return ErrStateConflict
	}
	gs.session.Pause()
	gs.state = StatePaused
	return nil
}

// Resume continues a suspended track. Valid only while paused.
func (m *Manager) Resume(guildID string) error {
	gs := m.guild(guildID)
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.state != StatePaused {
		return ErrStateConflict
	}
	gs.session.Resume()
	gs.state = StatePlaying
	return nil
}

// Skip forcibly ends the current stream; the finish callback then advances
// the queue exactly once. Valid while playing or paused.
func (m *Manager) Skip(guildID string) error {
	gs := m.guild(guildID)
	gs.mu.Lock()

	if gs.state == StateIdle {
		gs.mu.Unlock()
		return ErrStateConflict
	}
	session := gs.session
	gs.mu.Unlock()

	// Stop outside the lock: the finish callback re-acquires it.
	session.Stop()
	return nil
}

// Stop ends any active stream, empties the queue, and returns the guild to
// idle. The voice connection is kept.
func (m *Manager) Stop(guildID string) {
	gs := m.guild(guildID)
	gs.mu.Lock()

	// Invalidate the pending finish callback before stopping the session,
	// so it cannot race a track enqueued right after this call.
	gs.gen++
	session := gs.session
	gs.session = nil
	gs.current = nil
	gs.queue = nil
	gs.state = StateIdle
	gs.mu.Unlock()

	if session != nil {
		session.Stop()
	}
	m.log.Info("playback stopped", "guild_id", guildID)
}

// Leave stops playback, releases the voice connection, and discards the
// guild's state entirely. The next EnqueueOrPlay recreates it fresh.
func (m *Manager) Leave(guildID string) {
	m.Stop(guildID)
	m.streamer.Disconnect(guildID)

	m.mu.Lock()
	delete(m.guilds, guildID)
	m.mu.Unlock()
}

// Snapshot returns the guild's state, active track, and a copy of the
// pending queue for display.
func (m *Manager) Snapshot(guildID string) (State, *NowPlaying, []QueueEntry) {
	gs := m.lookup(guildID)
	if gs == nil {
		return StateIdle, nil, nil
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()

	queue := make([]QueueEntry, len(gs.queue))
	copy(queue, gs.queue)

	var current *NowPlaying
	if gs.current != nil {
		c := *gs.current
		current = &c
	}
	return gs.state, current, queue
}
