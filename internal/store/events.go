package store

import (
	"context"
	"fmt"
	"time"
)

// Event is a row in calendar_events.
type Event struct {
	ID           int64
	GuildID      string
	UserID       string
	ChannelID    string
	Title        string
	Description  string
	EventDate    time.Time
	CreatedAt    time.Time
	ReminderSent bool
}

// EventRepository provides data access for calendar events.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert stores a new calendar event and returns its assigned id.
// The reminder flag always starts out false.
func (r *EventRepository) Insert(ctx context.Context, e *Event) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO calendar_events
			(guild_id, user_id, channel_id, title, description, event_date, created_at, reminder_sent)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`,
		e.GuildID, e.UserID, e.ChannelID, e.Title, e.Description,
		e.EventDate.UTC(), e.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading event id: %w", err)
	}
	e.ID = id
	return id, nil
}

// ListUpcoming returns a guild's events with now < event_date <= now+days,
// ascending by event date.
func (r *EventRepository) ListUpcoming(ctx context.Context, guildID string, now time.Time, days int) ([]Event, error) {
	until := now.Add(time.Duration(days) * 24 * time.Hour)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, guild_id, user_id, channel_id, title, description, event_date, created_at, reminder_sent
		FROM calendar_events
		WHERE guild_id = ? AND event_date > ? AND event_date <= ?
		ORDER BY event_date ASC
	`, guildID, now.UTC(), until.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying upcoming events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListDueReminders returns events across all guilds that are due within the
// next 24 hours, not yet past, and whose reminder has not been sent.
func (r *EventRepository) ListDueReminders(ctx context.Context, now time.Time) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, guild_id, user_id, channel_id, title, description, event_date, created_at, reminder_sent
		FROM calendar_events
		WHERE reminder_sent = 0 AND event_date <= ? AND event_date > ?
		ORDER BY event_date ASC
	`, now.UTC().Add(24*time.Hour), now.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying due reminders: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// MarkReminderSent flips reminder_sent from false to true for one event.
// The check-then-set is a single statement, so two concurrent callers cannot
// both observe a flip. Returns whether this call performed the transition.
func (r *EventRepository) MarkReminderSent(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE calendar_events SET reminder_sent = 1
		WHERE id = ? AND reminder_sent = 0
	`, id)
	if err != nil {
		return false, fmt.Errorf("marking reminder sent: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteByCreator removes an event only if it belongs to the given user.
// Returns whether a row was removed; a miss is not an error.
func (r *EventRepository) DeleteByCreator(ctx context.Context, id int64, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM calendar_events WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEvents(rows rowScanner) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID, &e.GuildID, &e.UserID, &e.ChannelID, &e.Title,
			&e.Description, &e.EventDate, &e.CreatedAt, &e.ReminderSent,
		); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
