// Package couple implements relationship milestones and the lightweight
// games: compatibility score, quotes, questions, date-night ideas.
package couple

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Koi199/TogetherBot/internal/store"
)

var (
	// ErrInvalidFormat is returned for dates not matching YYYY-MM-DD.
	ErrInvalidFormat = errors.New("invalid date format")
	// ErrFutureDate is returned when an anniversary date lies in the future.
	ErrFutureDate = errors.New("anniversary date must not be in the future")
	// ErrSelfPair is returned when both users of a pair are the same.
	ErrSelfPair = errors.New("a milestone needs two different users")
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// MilestoneStore is the persistence surface the service needs.
type MilestoneStore interface {
	Insert(ctx context.Context, m *store.Milestone) (int64, error)
	ListByGuild(ctx context.Context, guildID string) ([]store.Milestone, error)
}

// Service owns milestone rules and the game content.
type Service struct {
	milestones MilestoneStore
	now        func() time.Time
}

// NewService creates a couple service.
func NewService(milestones MilestoneStore) *Service {
	return &Service{milestones: milestones, now: time.Now}
}

// Anniversary is the result of setting an anniversary milestone.
type Anniversary struct {
	Milestone store.Milestone
	// Together is the elapsed time since the anniversary date.
	Together time.Duration
	// Next is the upcoming yearly recurrence of the date.
	Next time.Time
}

// SetAnniversary records an anniversary between two users. The pair is
// stored in canonical (low, high) order so it is represented once no matter
// who invokes the command. The date must be in the past.
func (s *Service) SetAnniversary(ctx context.Context, guildID, userA, userB, rawDate, description string) (*Anniversary, error) {
	if userA == userB {
		return nil, ErrSelfPair
	}
	if !datePattern.MatchString(rawDate) {
		return nil, fmt.Errorf("%w: date %q does not match YYYY-MM-DD", ErrInvalidFormat, rawDate)
	}
	date, err := time.ParseInLocation("2006-01-02", rawDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	now := s.now()
	if date.After(now) {
		return nil, ErrFutureDate
	}

	low, high := orderPair(userA, userB)
	m := store.Milestone{
		GuildID:       guildID,
		User1ID:       low,
		User2ID:       high,
		MilestoneType: "anniversary",
		MilestoneDate: date,
		Description:   description,
		CreatedAt:     now,
	}
	if _, err := s.milestones.Insert(ctx, &m); err != nil {
		return nil, fmt.Errorf("adding milestone: %w", err)
	}

	next := time.Date(now.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	if next.Before(now) {
		next = next.AddDate(1, 0, 0)
	}

	return &Anniversary{
		Milestone: m,
		Together:  now.Sub(date),
		Next:      next,
	}, nil
}

// Milestones returns all of a guild's milestones, newest first.
func (s *Service) Milestones(ctx context.Context, guildID string) ([]store.Milestone, error) {
	milestones, err := s.milestones.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	return milestones, nil
}

// orderPair returns the two ids with the numerically lower one first.
// Snowflake ids are decimal strings, so a shorter string is always the
// smaller number and equal lengths compare lexicographically.
func orderPair(a, b string) (low, high string) {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return a, b
		}
		return b, a
	}
	if strings.Compare(a, b) <= 0 {
		return a, b
	}
	return b, a
}

// CompatibilityScore derives a stable 60-100% score from a pair of user
// ids. The same pair always scores the same, in either argument order.
func CompatibilityScore(userA, userB string) (int, string) {
	a, _ := strconv.ParseUint(userA, 10, 64)
	b, _ := strconv.ParseUint(userB, 10, 64)
	score := int((a+b)%41) + 60

	var message string
	switch {
	case score >= 95:
		message = "Perfect match! You two are soulmates! ✨"
	case score >= 85:
		message = "Amazing compatibility! Your love is strong! 💪"
	case score >= 75:
		message = "Great match! You complement each other well! 🌟"
	case score >= 65:
		message = "Good compatibility! Keep nurturing your love! 🌱"
	default:
		message = "Every relationship takes work! Communication is key! 💬"
	}
	return score, message
}
