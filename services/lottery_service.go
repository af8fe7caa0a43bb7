package services

import (
	"context"

	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/repositories"
	"github.com/mituwo-320/asket-entry/schedule"
)

// LotteryRow — результат жеребьёвки для одной заявки в порядке подачи.
type LotteryRow struct {
	models.LotteryAssignment
	TeamName string `json:"team_name"`
}

type LotteryService interface {
	Assignments(ctx context.Context, tournamentID string) ([]LotteryRow, error)
}

type lotteryService struct {
	entryRepo repositories.EntryRepository
}

func NewLotteryService(entryRepo repositories.EntryRepository) LotteryService {
	return &lotteryService{entryRepo: entryRepo}
}

// Assignments пересчитывает номера при каждом вызове, результат не кэшируется.
func (s *lotteryService) Assignments(ctx context.Context, tournamentID string) ([]LotteryRow, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}
	entries, err := s.entryRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load entries")
	}

	assignments := schedule.ComputeLotteryAssignments(entries)

	// репозиторий отдаёт заявки по created_at, этого порядка достаточно для вывода
	rows := make([]LotteryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, LotteryRow{
			LotteryAssignment: assignments[e.ID],
			TeamName:          e.TeamName,
		})
	}
	return rows, nil
}
