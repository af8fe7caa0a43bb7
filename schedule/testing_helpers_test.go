package schedule

import (
	"time"

	"github.com/mituwo-320/asket-entry/models"
)

var baseTime = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func submittedEntry(id, group string, minute int) models.Entry {
	return models.Entry{
		ID:           id,
		TournamentID: "2026-spring",
		TeamName:     "Team " + id,
		Status:       models.EntryStatusSubmitted,
		Group:        group,
		CreatedAt:    baseTime.Add(time.Duration(minute) * time.Minute),
	}
}

func numbered(id string, minute, requested int) models.Entry {
	e := submittedEntry(id, "", minute)
	e.PreliminaryNumber = &requested
	return e
}

func strPtr(s string) *string { return &s }
