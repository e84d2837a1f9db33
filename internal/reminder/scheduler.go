// Package reminder runs the hourly scan that delivers one-time event
// reminders 24 hours before each event is due.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Koi199/TogetherBot/internal/store"
)

// EventSource is the store surface the scheduler polls.
type EventSource interface {
	ListDueReminders(ctx context.Context, now time.Time) ([]store.Event, error)
	MarkReminderSent(ctx context.Context, id int64) (bool, error)
}

// ChannelResolver reports whether a reminder's destination still exists.
// Backed by the gateway's guild/channel state.
type ChannelResolver interface {
	ResolveChannel(guildID, channelID string) bool
}

// Notifier delivers one reminder to its destination channel.
type Notifier interface {
	SendReminder(event store.Event) error
}

// Scheduler fires one scan per hour for the lifetime of the process.
// Overlapping ticks are never run: if a scan is still in flight when the
// next interval elapses, that interval is skipped.
type Scheduler struct {
	events   EventSource
	resolver ChannelResolver
	notifier Notifier
	log      *slog.Logger
	cron     *cron.Cron
	now      func() time.Time
}

// New creates a reminder scheduler. Start must be called separately, after
// the surrounding service has finished its own startup.
func New(events EventSource, resolver ChannelResolver, notifier Notifier, log *slog.Logger) *Scheduler {
	return &Scheduler{
		events:   events,
		resolver: resolver,
		notifier: notifier,
		log:      log,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		now:      time.Now,
	}
}

// Start begins the hourly scan.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 1h", func() {
		s.Tick(context.Background())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("reminder scheduler started")
	return nil
}

// Stop shuts the scheduler down, draining any tick still in flight.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("reminder scheduler stopped")
}

// Tick runs one scan. A failure while processing one event never aborts the
// rest of the scan, and a failure of the scan itself only logs: the next
// interval still fires.
func (s *Scheduler) Tick(ctx context.Context) {
	due, err := s.events.ListDueReminders(ctx, s.now())
	if err != nil {
		s.log.Error("reminder scan failed", "error", err)
		return
	}

	for _, event := range due {
		s.deliver(ctx, event)
	}
}

// deliver sends one reminder and marks it sent. An unresolvable destination
// leaves the event unsent; it is retried each tick until its event time
// passes, after which the due-window query drops it for good.
func (s *Scheduler) deliver(ctx context.Context, event store.Event) {
	if !s.resolver.ResolveChannel(event.GuildID, event.ChannelID) {
		s.log.Warn("reminder destination gone, skipping",
			"event_id", event.ID, "guild_id", event.GuildID, "channel_id", event.ChannelID)
		return
	}

	if err := s.notifier.SendReminder(event); err != nil {
		s.log.Error("reminder delivery failed",
			"event_id", event.ID, "error", err)
		return
	}

	flipped, err := s.events.MarkReminderSent(ctx, event.ID)
	if err != nil {
		s.log.Error("marking reminder sent failed",
			"event_id", event.ID, "error", err)
		return
	}
	if !flipped {
		// Another tick got here first; nothing to do.
		return
	}
	s.log.Info("reminder sent", "event_id", event.ID, "title", event.Title)
}
