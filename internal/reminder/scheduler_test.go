package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Koi199/TogetherBot/internal/store"
)

type fakeEventSource struct {
	due     []store.Event
	listErr error
	marked  []int64
	markErr error
}

func (f *fakeEventSource) ListDueReminders(_ context.Context, _ time.Time) ([]store.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.due, nil
}

func (f *fakeEventSource) MarkReminderSent(_ context.Context, id int64) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	f.marked = append(f.marked, id)
	return true, nil
}

type fakeResolver struct {
	missing map[string]bool
}

func (f *fakeResolver) ResolveChannel(_, channelID string) bool {
	return !f.missing[channelID]
}

type fakeNotifier struct {
	sent    []int64
	failFor map[int64]bool
}

func (f *fakeNotifier) SendReminder(event store.Event) error {
	if f.failFor[event.ID] {
		return errors.New("send failed")
	}
	f.sent = append(f.sent, event.ID)
	return nil
}

func dueEvent(id int64, channelID string) store.Event {
	return store.Event{
		ID:        id,
		GuildID:   "g1",
		UserID:    "100",
		ChannelID: channelID,
		Title:     "Dinner",
		EventDate: time.Now().Add(23 * time.Hour),
	}
}

func newTestScheduler(events EventSource, resolver ChannelResolver, notifier Notifier) *Scheduler {
	return New(events, resolver, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTick_DeliversAndMarks(t *testing.T) {
	events := &fakeEventSource{due: []store.Event{dueEvent(1, "c1"), dueEvent(2, "c2")}}
	notifier := &fakeNotifier{}
	s := newTestScheduler(events, &fakeResolver{}, notifier)

	s.Tick(context.Background())

	require.Equal(t, []int64{1, 2}, notifier.sent)
	require.Equal(t, []int64{1, 2}, events.marked)
}

func TestTick_UnresolvableDestinationLeftUnsent(t *testing.T) {
	events := &fakeEventSource{due: []store.Event{dueEvent(1, "gone"), dueEvent(2, "c2")}}
	notifier := &fakeNotifier{}
	s := newTestScheduler(events, &fakeResolver{missing: map[string]bool{"gone": true}}, notifier)

	s.Tick(context.Background())

	// Event 1 is skipped without being marked, so the next tick retries it.
	require.Equal(t, []int64{2}, notifier.sent)
	require.Equal(t, []int64{2}, events.marked)
}

func TestTick_DeliveryFailureDoesNotAbortScan(t *testing.T) {
	events := &fakeEventSource{due: []store.Event{dueEvent(1, "c1"), dueEvent(2, "c2"), dueEvent(3, "c3")}}
	notifier := &fakeNotifier{failFor: map[int64]bool{2: true}}
	s := newTestScheduler(events, &fakeResolver{}, notifier)

	s.Tick(context.Background())

	// Event 2 failed and stays unmarked; 1 and 3 still went out.
	require.Equal(t, []int64{1, 3}, notifier.sent)
	require.Equal(t, []int64{1, 3}, events.marked)
}

func TestTick_MarkFailureLeavesOthersAlone(t *testing.T) {
	events := &fakeEventSource{
		due:     []store.Event{dueEvent(1, "c1")},
		markErr: errors.New("store unavailable"),
	}
	notifier := &fakeNotifier{}
	s := newTestScheduler(events, &fakeResolver{}, notifier)

	// Must not panic; the event is retried next tick.
	s.Tick(context.Background())
	require.Equal(t, []int64{1}, notifier.sent)
	require.Empty(t, events.marked)
}

func TestTick_ScanFailureIsSwallowed(t *testing.T) {
	events := &fakeEventSource{listErr: errors.New("store unavailable")}
	notifier := &fakeNotifier{}
	s := newTestScheduler(events, &fakeResolver{}, notifier)

	// The tick logs and returns; the cron entry stays alive for the next
	// interval.
	s.Tick(context.Background())
	require.Empty(t, notifier.sent)
}
