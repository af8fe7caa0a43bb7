package models

import "time"

// Tournament — проект (сезон кубка): окно приёма заявок и взносы.
type Tournament struct {
	ID               string     `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	EntryStartAt     *time.Time `json:"entry_start_at,omitempty" db:"entry_start_at"`
	EntryEndAt       *time.Time `json:"entry_end_at,omitempty" db:"entry_end_at"`
	ParticipationFee int        `json:"participation_fee" db:"participation_fee"`
	InsuranceFee     int        `json:"insurance_fee" db:"insurance_fee"`
	LineOpenChatLink string     `json:"line_open_chat_link,omitempty" db:"line_open_chat_link"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// AcceptsEntries reports whether teams may register or edit entries at now.
// Both window bounds are inclusive; a missing bound is open.
func (t Tournament) AcceptsEntries(now time.Time) bool {
	if !t.IsActive {
		return false
	}
	if t.EntryStartAt != nil && now.Before(*t.EntryStartAt) {
		return false
	}
	if t.EntryEndAt != nil && now.After(*t.EntryEndAt) {
		return false
	}
	return true
}

// EntryFee is the amount owed by an entry: participation plus insurance per insured player.
func (t Tournament) EntryFee(e Entry) int {
	insured := 0
	for _, p := range e.Players {
		if p.Insurance {
			insured++
		}
	}
	return t.ParticipationFee + insured*t.InsuranceFee
}
