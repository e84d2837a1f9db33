// Package calendar validates and mutates a guild's shared calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Koi199/TogetherBot/internal/store"
)

var (
	// ErrInvalidFormat is returned for malformed titles, dates, or times.
	ErrInvalidFormat = errors.New("invalid date or time format")
	// ErrPastDate is returned when the event timestamp is not in the future.
	ErrPastDate = errors.New("event date must be in the future")
	// ErrRange is returned when a lookahead is outside [1, 365] days.
	ErrRange = errors.New("days must be between 1 and 365")
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// EventStore is the persistence surface the service needs.
type EventStore interface {
	Insert(ctx context.Context, e *store.Event) (int64, error)
	ListUpcoming(ctx context.Context, guildID string, now time.Time, days int) ([]store.Event, error)
	DeleteByCreator(ctx context.Context, id int64, userID string) (bool, error)
}

// Service owns calendar business rules on top of the event store.
type Service struct {
	events EventStore
	now    func() time.Time
}

// NewService creates a calendar service.
func NewService(events EventStore) *Service {
	return &Service{events: events, now: time.Now}
}

// AddEventInput carries the demarshalled arguments of an add_date command.
type AddEventInput struct {
	GuildID     string
	CreatorID   string
	ChannelID   string
	Title       string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM, optional
	Description string // optional
}

// AddEvent validates the input, combines date and optional time into one
// timestamp, and persists a new event with the reminder not yet sent.
// Returns the store-assigned event id.
func (s *Service) AddEvent(ctx context.Context, in AddEventInput) (int64, error) {
	if in.Title == "" {
		return 0, fmt.Errorf("%w: title must not be empty", ErrInvalidFormat)
	}
	if !datePattern.MatchString(in.Date) {
		return 0, fmt.Errorf("%w: date %q does not match YYYY-MM-DD", ErrInvalidFormat, in.Date)
	}

	var (
		eventDate time.Time
		err       error
	)
	if in.Time != "" {
		if !timePattern.MatchString(in.Time) {
			return 0, fmt.Errorf("%w: time %q does not match HH:MM", ErrInvalidFormat, in.Time)
		}
		eventDate, err = time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, time.Local)
	} else {
		eventDate, err = time.ParseInLocation("2006-01-02", in.Date, time.Local)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	now := s.now()
	if !eventDate.After(now) {
		return 0, ErrPastDate
	}

	description := in.Description
	if description == "" {
		description = "No description provided"
	}

	id, err := s.events.Insert(ctx, &store.Event{
		GuildID:     in.GuildID,
		UserID:      in.CreatorID,
		ChannelID:   in.ChannelID,
		Title:       in.Title,
		Description: description,
		EventDate:   eventDate,
		CreatedAt:   now,
	})
	if err != nil {
		return 0, fmt.Errorf("adding event: %w", err)
	}
	return id, nil
}

// ListUpcoming returns the guild's events due within the next `days` days,
// ascending by event date. The full matching set is returned; display
// truncation is the caller's concern.
func (s *Service) ListUpcoming(ctx context.Context, guildID string, days int) ([]store.Event, error) {
	if days < 1 || days > 365 {
		return nil, ErrRange
	}
	events, err := s.events.ListUpcoming(ctx, guildID, s.now(), days)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming events: %w", err)
	}
	return events, nil
}

// DeleteEvent removes an event if, and only if, the requester created it.
// A non-existent or non-owned event yields false, not an error.
func (s *Service) DeleteEvent(ctx context.Context, eventID int64, requestingUserID string) (bool, error) {
	deleted, err := s.events.DeleteByCreator(ctx, eventID, requestingUserID)
	if err != nil {
		return false, fmt.Errorf("deleting event: %w", err)
	}
	return deleted, nil
}
