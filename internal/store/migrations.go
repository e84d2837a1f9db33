package store

import "fmt"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS calendar_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		event_date DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		reminder_sent BOOLEAN DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_events_guild_date
		ON calendar_events (guild_id, event_date)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_events_reminder
		ON calendar_events (reminder_sent, event_date)`,
	`CREATE TABLE IF NOT EXISTS couple_milestones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		user1_id TEXT NOT NULL,
		user2_id TEXT NOT NULL,
		milestone_type TEXT NOT NULL,
		milestone_date DATETIME NOT NULL,
		description TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_couple_milestones_guild
		ON couple_milestones (guild_id, milestone_date)`,
}

// migrate creates the schema. Statements are idempotent so this can run on
// every startup.
func (db *DB) migrate() error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("running migration %d: %w", i, err)
		}
	}
	return nil
}
