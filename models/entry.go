package models

import "time"

type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "draft"
	EntryStatusSubmitted EntryStatus = "submitted"
)

// Entry представляет заявку команды на конкретный турнир.
type Entry struct {
	ID                       string      `json:"id" db:"id"`
	UserID                   string      `json:"user_id" db:"user_id"`
	TournamentID             string      `json:"tournament_id" db:"tournament_id"`
	TeamName                 string      `json:"team_name" db:"team_name"`
	TeamNameKana             string      `json:"team_name_kana" db:"team_name_kana"`
	Introduction             string      `json:"introduction" db:"introduction"`
	BeginnerFriendlyAccepted bool        `json:"beginner_friendly_accepted" db:"beginner_friendly_accepted"`
	Status                   EntryStatus `json:"status" db:"status"`
	IsPaid                   bool        `json:"is_paid" db:"is_paid"`
	Group                    string      `json:"group" db:"group_label"` // "" means ungrouped
	PreliminaryNumber        *int        `json:"preliminary_number,omitempty" db:"preliminary_number"`
	CreatedAt                time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at" db:"updated_at"`

	Players []Player `json:"players" db:"-"`
}

func (e Entry) IsSubmitted() bool {
	return e.Status == EntryStatusSubmitted
}

// Representative returns the player flagged as the team representative, if any.
func (e Entry) Representative() *Player {
	for i := range e.Players {
		if e.Players[i].IsRepresentative {
			return &e.Players[i]
		}
	}
	return nil
}

type Player struct {
	ID               string `json:"id" db:"id"`
	EntryID          string `json:"entry_id" db:"entry_id"`
	Name             string `json:"name" db:"name"`
	Furigana         string `json:"furigana" db:"furigana"`
	WristbandColor   string `json:"wristband_color,omitempty" db:"wristband_color"`
	Insurance        bool   `json:"insurance" db:"insurance"`
	IsRepresentative bool   `json:"is_representative" db:"is_representative"`
	Position         int    `json:"-" db:"position"`
}
