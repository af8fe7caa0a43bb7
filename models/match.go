package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusPlaying   MatchStatus = "playing"
	MatchStatusFinished  MatchStatus = "finished"
)

// ByeTeamID is the sentinel opponent meaning "no real opponent".
const ByeTeamID = "Bye"

type Match struct {
	ID            string      `json:"id" db:"id"`
	TournamentID  string      `json:"tournament_id" db:"tournament_id"`
	TeamIDA       string      `json:"team_id_a" db:"team_id_a"`
	TeamIDB       string      `json:"team_id_b" db:"team_id_b"`
	ScoreA        *int        `json:"score_a,omitempty" db:"score_a"`
	ScoreB        *int        `json:"score_b,omitempty" db:"score_b"`
	Status        MatchStatus `json:"status" db:"status"`
	Court         string      `json:"court" db:"court"`
	Time          string      `json:"time" db:"match_time"` // HH:MM
	Round         int         `json:"round" db:"round"`
	MatchNumber   string      `json:"match_number" db:"match_number"`
	WinnerID      *string     `json:"winner_id,omitempty" db:"winner_id"`
	RefereeTeamID *string     `json:"referee_team_id,omitempty" db:"referee_team_id"`
	Sequence      int         `json:"sequence" db:"sequence"` // generation order inside the tournament
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

func (m Match) HasBye() bool {
	return m.TeamIDA == ByeTeamID || m.TeamIDB == ByeTeamID
}

func IsValidMatchStatus(s MatchStatus) bool {
	switch s {
	case MatchStatusScheduled, MatchStatusPlaying, MatchStatusFinished:
		return true
	}
	return false
}
