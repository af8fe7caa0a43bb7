package schedule

import (
	"context"

	"github.com/mituwo-320/asket-entry/models"
)

type GenerateParams struct {
	TournamentID string
	Entries      []models.Entry
}

type ScheduleGenerator interface {
	Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error)

	GetName() string
}

type GenerateResult struct {
	Matches []models.Match
	// Unpaired holds ids of ungrouped entries left without an opponent.
	Unpaired []string
}
