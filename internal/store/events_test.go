package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	raw, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	db := NewWithDB(raw)
	require.NoError(t, db.migrate())
	return db
}

func testEvent(guildID string, eventDate time.Time) *Event {
	return &Event{
		GuildID:     guildID,
		UserID:      "100",
		ChannelID:   "200",
		Title:       "Dinner",
		Description: "Fancy dinner downtown",
		EventDate:   eventDate,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestEventRepository_InsertAndListUpcoming(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Inserted out of order on purpose; listing must sort ascending.
	later := testEvent("g1", now.Add(72*time.Hour))
	later.Title = "Anniversary dinner"
	sooner := testEvent("g1", now.Add(24*time.Hour))
	sooner.Title = "Movie night"

	id1, err := repo.Insert(ctx, later)
	require.NoError(t, err)
	id2, err := repo.Insert(ctx, sooner)
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)

	// Outside the window and outside the guild.
	_, err = repo.Insert(ctx, testEvent("g1", now.Add(30*24*time.Hour)))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testEvent("g2", now.Add(24*time.Hour)))
	require.NoError(t, err)

	events, err := repo.ListUpcoming(ctx, "g1", now, 7)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "Movie night", events[0].Title)
	require.Equal(t, "Anniversary dinner", events[1].Title)
	require.False(t, events[0].ReminderSent)
	require.True(t, events[0].EventDate.After(now))
}

func TestEventRepository_ListUpcomingWindowBounds(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Already past: excluded even though the row exists.
	_, err := repo.Insert(ctx, testEvent("g1", now.Add(-time.Hour)))
	require.NoError(t, err)
	// Exactly at the window edge: included (event_date <= now+days).
	edge := testEvent("g1", now.Add(7*24*time.Hour))
	edge.Title = "Edge"
	_, err = repo.Insert(ctx, edge)
	require.NoError(t, err)

	events, err := repo.ListUpcoming(ctx, "g1", now, 7)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Edge", events[0].Title)
}

func TestEventRepository_DeleteByCreator(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t))

	event := testEvent("g1", time.Now().Add(48*time.Hour))
	id, err := repo.Insert(ctx, event)
	require.NoError(t, err)

	// Wrong user: nothing happens, no error.
	deleted, err := repo.DeleteByCreator(ctx, id, "someone-else")
	require.NoError(t, err)
	require.False(t, deleted)

	// Creator deletes once, then the second attempt misses.
	deleted, err = repo.DeleteByCreator(ctx, id, event.UserID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.DeleteByCreator(ctx, id, event.UserID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestEventRepository_DueRemindersAndMarkSent(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestDB(t))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	due := testEvent("g1", now.Add(23*time.Hour))
	due.Title = "Due soon"
	dueID, err := repo.Insert(ctx, due)
	require.NoError(t, err)

	// Too far out, already past: both excluded.
	_, err = repo.Insert(ctx, testEvent("g1", now.Add(48*time.Hour)))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testEvent("g1", now.Add(-time.Hour)))
	require.NoError(t, err)

	reminders, err := repo.ListDueReminders(ctx, now)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	require.Equal(t, "Due soon", reminders[0].Title)

	flipped, err := repo.MarkReminderSent(ctx, dueID)
	require.NoError(t, err)
	require.True(t, flipped)

	// The flag transition is monotonic: a second mark does not flip again,
	// and a re-scan no longer includes the event.
	flipped, err = repo.MarkReminderSent(ctx, dueID)
	require.NoError(t, err)
	require.False(t, flipped)

	reminders, err = repo.ListDueReminders(ctx, now)
	require.NoError(t, err)
	require.Empty(t, reminders)
}

func TestEventRepository_DriverErrors(t *testing.T) {
	ctx := context.Background()

	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	repo := NewEventRepository(NewWithDB(raw))

	mock.ExpectExec(`INSERT INTO calendar_events`).WillReturnError(sql.ErrConnDone)
	_, err = repo.Insert(ctx, testEvent("g1", time.Now().Add(time.Hour)))
	require.Error(t, err)

	mock.ExpectExec(`UPDATE calendar_events SET reminder_sent = 1`).WillReturnError(sql.ErrConnDone)
	_, err = repo.MarkReminderSent(ctx, 1)
	require.Error(t, err)

	mock.ExpectQuery(`FROM calendar_events`).WillReturnError(sql.ErrConnDone)
	_, err = repo.ListDueReminders(ctx, time.Now())
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
