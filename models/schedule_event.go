package models

type EventType string

const (
	EventTypeMatch    EventType = "match"
	EventTypeCeremony EventType = "ceremony"
	EventTypeBreak    EventType = "break"
	EventTypeOther    EventType = "other"
)

const (
	CourtA   = "A"
	CourtB   = "B"
	CourtAll = "ALL"
)

// ScheduleEvent is a fixed, time-pinned item such as an opening ceremony or a lunch break.
type ScheduleEvent struct {
	ID           string    `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	Type         EventType `json:"type" db:"type"`
	Title        string    `json:"title" db:"title"`
	StartTime    string    `json:"start_time" db:"start_time"`
	EndTime      *string   `json:"end_time,omitempty" db:"end_time"`
	Court        string    `json:"court" db:"court"`
}

func (e ScheduleEvent) BlocksAllCourts() bool {
	return e.Court == CourtAll
}

func IsValidEventType(t EventType) bool {
	switch t {
	case EventTypeMatch, EventTypeCeremony, EventTypeBreak, EventTypeOther:
		return true
	}
	return false
}

func IsValidEventCourt(c string) bool {
	return c == CourtA || c == CourtB || c == CourtAll
}
