package models

type TournamentOverview struct {
	TournamentID     string `json:"tournament_id"`
	EntriesTotal     int    `json:"entries_total"`
	EntriesSubmitted int    `json:"entries_submitted"`
	EntriesPaid      int    `json:"entries_paid"`
	PlayersTotal     int    `json:"players_total"`
	PlayersInsured   int    `json:"players_insured"`
	GroupsTotal      int    `json:"groups_total"`
	MatchesTotal     int    `json:"matches_total"`
	MatchesFinished  int    `json:"matches_finished"`
	EventsTotal      int    `json:"events_total"`
	ParticipationFee int    `json:"participation_fee"`
	InsuranceFee     int    `json:"insurance_fee"`
	ExpectedFees     int    `json:"expected_fees"`
	CollectedFees    int    `json:"collected_fees"`
}
