package music

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeStreamer records started sessions; tests drive finish callbacks by
// hand through end().
type fakeStreamer struct {
	mu           sync.Mutex
	started      []*fakeSession
	playErr      error
	disconnected []string
}

type fakeSession struct {
	track    *Track
	onFinish func()
	paused   bool
	stopped  bool
	once     sync.Once
}

func (f *fakeStreamer) Play(_ string, track *Track, onFinish func()) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return nil, f.playErr
	}
	ss := &fakeSession{track: track, onFinish: onFinish}
	f.started = append(f.started, ss)
	return ss, nil
}

func (f *fakeStreamer) Disconnect(guildID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = append(f.disconnected, guildID)
}

func (f *fakeStreamer) last() *fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started[len(f.started)-1]
}

func (f *fakeStreamer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.started)
}

func (ss *fakeSession) Pause()  { ss.paused = true }
func (ss *fakeSession) Resume() { ss.paused = false }
func (ss *fakeSession) Stop()   { ss.stopped = true }

// end simulates the stream winding down, naturally or after Stop.
func (ss *fakeSession) end() {
	ss.once.Do(ss.onFinish)
}

func track(title string) *Track {
	return &Track{Title: title, StreamURL: "https://cdn.example/" + title}
}

func newTestManager(streamer Streamer) *Manager {
	return NewManager(streamer, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEnqueueOrPlay_IdleStartsImmediately(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	position, err := m.EnqueueOrPlay("g1", track("first"), "100")
	require.NoError(t, err)
	require.Equal(t, 0, position)
	require.Equal(t, 1, streamer.count())

	state, current, queue := m.Snapshot("g1")
	require.Equal(t, StatePlaying, state)
	require.Equal(t, "first", current.Track.Title)
	require.Equal(t, "100", current.Requester)
	require.Empty(t, queue)
}

func TestEnqueueOrPlay_PlayingAppends(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	_, err := m.EnqueueOrPlay("g1", track("first"), "100")
	require.NoError(t, err)

	position, err := m.EnqueueOrPlay("g1", track("second"), "200")
	require.NoError(t, err)
	require.Equal(t, 1, position)

	position, err = m.EnqueueOrPlay("g1", track("third"), "100")
	require.NoError(t, err)
	require.Equal(t, 2, position)

	// Nothing new started; the first stream is still the only one.
	require.Equal(t, 1, streamer.count())
}

func TestFinishedCallback_PopsQueueHead(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	_, _ = m.EnqueueOrPlay("g1", track("first"), "100")
	_, _ = m.EnqueueOrPlay("g1", track("second"), "200")

	streamer.last().end()

	require.Equal(t, 2, streamer.count())
	state, current, queue := m.Snapshot("g1")
	require.Equal(t, StatePlaying, state)
	require.Equal(t, "second", current.Track.Title)
	require.Equal(t, "200", current.Requester)
	require.Empty(t, queue)
}

func TestFinishedCallback_EmptyQueueGoesIdle(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	_, _ = m.EnqueueOrPlay("g1", track("only"), "100")
	streamer.last().end()

	state, current, queue := m.Snapshot("g1")
	require.Equal(t, StateIdle, state)
	require.Nil(t, current)
	require.Empty(t, queue)
}

func TestPauseResume(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	// Nothing playing yet.
	require.ErrorIs(t, m.Pause("g1"), ErrStateConflict)
	require.ErrorIs(t, m.Resume("g1"), ErrStateConflict)

	_, _ = m.EnqueueOrPlay("g1", track("first"), "100")

	require.ErrorIs(t, m.Resume("g1"), ErrStateConflict)
	require.NoError(t, m.Pause("g1"))
	require.True(t, streamer.last().paused)

	state, _, _ := m.Snapshot("g1")
	require.Equal(t, StatePaused, state)

	require.ErrorIs(t, m.Pause("g1"), ErrStateConflict)
	require.NoError(t, m.Resume("g1"))
	require.False(t, streamer.last().paused)
}

func TestSkip_AdvancesToNextTrack(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	_, _ = m.EnqueueOrPlay("g1", track("first"), "100")
	_, _ = m.EnqueueOrPlay("g1", track("second"), "200")

	first := streamer.last()
	require.NoError(t, m.Skip("g1"))
	require.True(t, first.stopped)

	// The stopped stream's finish callback fires once.
	first.end()
	first.end()

	require.Equal(t, 2, streamer.count())
	state, current, _ := m.Snapshot("g1")
	require.Equal(t, StatePlaying, state)
	require.Equal(t, "second", current.Track.Title)
}

func TestSkip_WhilePausedResumesPlaying(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	_, _ = m.EnqueueOrPlay("g1", track("first"), "100")
	_, _ = m.EnqueueOrPlay("g1", track("second"), "200")
	require.NoError(t, m.Pause("g1"))

	first := streamer.last()
	require.NoError(t, m.Skip("g1"))
	first.end()

	// The fresh stream starts unpaused.
	state, current, _ := m.Snapshot("g1")
	require.Equal(t, StatePlaying, state)
	require.Equal(t, "second", current.Track.Title)
	require.False(t, streamer.last().paused)
}

func TestSkip_WhilePausedEmptyQueueGoesIdle(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	_, _ = m.EnqueueOrPlay("g1", track("only"), "100")
	require.NoError(t, m.Pause("g1"))

	require.NoError(t, m.Skip("g1"))
	streamer.last().end()

	state, current, _ := m.Snapshot("g1")
	require.Equal(t, StateIdle, state)
	require.Nil(t, current)
}

func TestSkip_IdleIsAConflict(t *testing.T) {
	m := newTestManager(&fakeStreamer{})
	require.ErrorIs(t, m.Skip("g1"), ErrStateConflict)
}

func TestStop_ClearsEverythingButKeepsVoice(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	_, _ = m.EnqueueOrPlay("g1", track("first"), "100")
	_, _ = m.EnqueueOrPlay("g1", track("second"), "200")

	first := streamer.last()
	m.Stop("g1")
	require.True(t, first.stopped)

	state, current, queue := m.Snapshot("g1")
	require.Equal(t, StateIdle, state)
	require.Nil(t, current)
	require.Empty(t, queue)
	require.Empty(t, streamer.disconnected)

	// The stale callback from the stopped stream must not disturb a track
	// started after the Stop.
	_, err := m.EnqueueOrPlay("g1", track("fresh"), "100")
	require.NoError(t, err)
	first.end()

	state, current, _ = m.Snapshot("g1")
	require.Equal(t, StatePlaying, state)
	require.Equal(t, "fresh", current.Track.Title)
}

func TestLeave_DisconnectsAndDiscardsState(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	_, _ = m.EnqueueOrPlay("g1", track("first"), "100")
	m.Leave("g1")

	require.Equal(t, []string{"g1"}, streamer.disconnected)
	state, current, queue := m.Snapshot("g1")
	require.Equal(t, StateIdle, state)
	require.Nil(t, current)
	require.Empty(t, queue)

	// Fresh state: the next play starts immediately again.
	position, err := m.EnqueueOrPlay("g1", track("again"), "100")
	require.NoError(t, err)
	require.Equal(t, 0, position)
}

func TestEnqueueOrPlay_StreamerFailureLeavesStateUnchanged(t *testing.T) {
	streamer := &fakeStreamer{playErr: errors.New("no voice connection")}
	m := newTestManager(streamer)

	_, err := m.EnqueueOrPlay("g1", track("first"), "100")
	require.Error(t, err)

	state, current, queue := m.Snapshot("g1")
	require.Equal(t, StateIdle, state)
	require.Nil(t, current)
	require.Empty(t, queue)
}

func TestGuildsAreIndependent(t *testing.T) {
	streamer := &fakeStreamer{}
	m := newTestManager(streamer)

	_, _ = m.EnqueueOrPlay("g1", track("one"), "100")
	position, err := m.EnqueueOrPlay("g2", track("two"), "200")
	require.NoError(t, err)
	require.Equal(t, 0, position, "a different guild starts from idle")

	require.NoError(t, m.Pause("g1"))
	state, _, _ := m.Snapshot("g2")
	require.Equal(t, StatePlaying, state)
}
