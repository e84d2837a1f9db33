package store

import (
	"context"
	"fmt"
	"time"
)

// Milestone is a row in couple_milestones. User1ID always holds the lower
// id of the pair; milestones are immutable once written.
type Milestone struct {
	ID            int64
	GuildID       string
	User1ID       string
	User2ID       string
	MilestoneType string
	MilestoneDate time.Time
	Description   string
	CreatedAt     time.Time
}

// MilestoneRepository provides data access for couple milestones.
type MilestoneRepository struct {
	db *DB
}

// NewMilestoneRepository creates a new milestone repository.
func NewMilestoneRepository(db *DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// Insert stores a new milestone and returns its assigned id.
func (r *MilestoneRepository) Insert(ctx context.Context, m *Milestone) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO couple_milestones
			(guild_id, user1_id, user2_id, milestone_type, milestone_date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		m.GuildID, m.User1ID, m.User2ID, m.MilestoneType,
		m.MilestoneDate.UTC(), m.Description, m.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting milestone: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading milestone id: %w", err)
	}
	m.ID = id
	return id, nil
}

// ListByGuild returns all of a guild's milestones, newest first.
func (r *MilestoneRepository) ListByGuild(ctx context.Context, guildID string) ([]Milestone, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, guild_id, user1_id, user2_id, milestone_type, milestone_date, description, created_at
		FROM couple_milestones
		WHERE guild_id = ?
		ORDER BY milestone_date DESC
	`, guildID)
	if err != nil {
		return nil, fmt.Errorf("querying milestones: %w", err)
	}
	defer rows.Close()

	var milestones []Milestone
	for rows.Next() {
		var m Milestone
		if err := rows.Scan(
			&m.ID, &m.GuildID, &m.User1ID, &m.User2ID,
			&m.MilestoneType, &m.MilestoneDate, &m.Description, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}
