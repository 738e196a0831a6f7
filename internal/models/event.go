package models

import "time"

// EventCategory tags a social event.
type EventCategory string

const (
	EventCategoryStudy    EventCategory = "study"
	EventCategorySport    EventCategory = "sport"
	EventCategorySocial   EventCategory = "social"
	EventCategoryGaming   EventCategory = "gaming"
	EventCategoryFood     EventCategory = "food"
	EventCategoryCreative EventCategory = "creative"
	EventCategoryOther    EventCategory = "other"
)

var categoryEmojis = map[EventCategory]string{
	EventCategoryStudy:    "📚",
	EventCategorySport:    "⚽",
	EventCategorySocial:   "🎉",
	EventCategoryGaming:   "🎮",
	EventCategoryFood:     "🍕",
	EventCategoryCreative: "🎨",
	EventCategoryOther:    "💼",
}

// Emoji returns the display glyph, falling back to the "other" one.
func (c EventCategory) Emoji() string {
	if e, ok := categoryEmojis[c]; ok {
		return e
	}
	return categoryEmojis[EventCategoryOther]
}

// Event list sort keys.
const (
	EventSortDate       = "date"
	EventSortRecent     = "recent"
	EventSortPopularity = "popularity"
)

// Event is a user-created gathering others can join.
type Event struct {
	ID               string        `db:"id" json:"id"`
	CreatorID        string        `db:"creator_id" json:"creator_id"`
	Title            string        `db:"title" json:"title"`
	Description      *string       `db:"description" json:"description,omitempty"`
	Category         EventCategory `db:"category" json:"category"`
	DayOfWeek        string        `db:"day_of_week" json:"day_of_week"`
	StartTime        string        `db:"start_time" json:"start_time"`
	EndTime          string        `db:"end_time" json:"end_time"`
	EventDate        *time.Time    `db:"event_date" json:"event_date,omitempty"`
	Location         *string       `db:"location" json:"location,omitempty"`
	MaxParticipants  *int          `db:"max_participants" json:"max_participants,omitempty"`
	IsPublic         bool          `db:"is_public" json:"is_public"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	ParticipantCount int           `db:"participant_count" json:"participant_count"`
}

// IsFull reports whether the capacity is reached; nil capacity means unlimited.
func (e Event) IsFull() bool {
	if e.MaxParticipants == nil {
		return false
	}
	return e.ParticipantCount >= *e.MaxParticipants
}

// EventParticipant links a user to a joined event.
type EventParticipant struct {
	ID       string    `db:"id" json:"id"`
	EventID  string    `db:"event_id" json:"event_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// EventFilter describes public event listing params.
type EventFilter struct {
	Category EventCategory
	Sort     string
}

// EventDetail is the display projection of an event for a viewer.
type EventDetail struct {
	Event
	Emoji         string           `json:"emoji"`
	Full          bool             `json:"is_full"`
	IsCreator     bool             `json:"is_creator"`
	IsParticipant bool             `json:"is_participant"`
	Conflicts     []ConflictReport `json:"conflicts"`
}

// JoinEventResult returns the participation plus advisory conflicts.
type JoinEventResult struct {
	Participant EventParticipant `json:"participant"`
	Conflicts   []ConflictReport `json:"conflicts"`
}

// CreateEventRequest is the payload for a new event.
type CreateEventRequest struct {
	Title           string        `json:"title" validate:"required,max=200"`
	Description     *string       `json:"description"`
	Category        EventCategory `json:"category" validate:"omitempty,oneof=study sport social gaming food creative other"`
	DayOfWeek       string        `json:"day_of_week" validate:"required,weekday"`
	StartTime       string        `json:"start_time" validate:"required,hhmm"`
	EndTime         string        `json:"end_time" validate:"required,hhmm"`
	EventDate       *time.Time    `json:"event_date"`
	Location        *string       `json:"location" validate:"omitempty,max=200"`
	MaxParticipants *int          `json:"max_participants"`
	IsPublic        *bool         `json:"is_public"`
}

// EventListItem is the listing projection of an event.
type EventListItem struct {
	Event
	Emoji string `json:"emoji"`
	Full  bool   `json:"is_full"`
}
