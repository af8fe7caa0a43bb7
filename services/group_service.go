package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/repositories"
	"github.com/mituwo-320/asket-entry/schedule"
)

type GroupSaveResult struct {
	Updated  int      `json:"updated"`
	Warnings []string `json:"warnings"`
}

type GroupService interface {
	SaveGroups(ctx context.Context, tournamentID string, assignments []schedule.GroupAssignment) (*GroupSaveResult, error)
	AutoAssign(ctx context.Context, tournamentID string, groupCount int, seed *int64) ([]models.Entry, error)
}

type groupService struct {
	entryRepo repositories.EntryRepository
	tx        repositories.Transactor
	logger    *slog.Logger
}

func NewGroupService(entryRepo repositories.EntryRepository, tx repositories.Transactor, logger *slog.Logger) GroupService {
	return &groupService{
		entryRepo: entryRepo,
		tx:        tx,
		logger:    logger,
	}
}

// SaveGroups сохраняет группы частично: неизвестные заявки попадают в предупреждения.
func (s *groupService) SaveGroups(ctx context.Context, tournamentID string, assignments []schedule.GroupAssignment) (*GroupSaveResult, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}

	entries, err := s.entryRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load entries")
	}

	changed, missing := schedule.ApplyGroups(entries, assignments)

	result := &GroupSaveResult{Warnings: []string{}}
	for _, id := range missing {
		result.Warnings = append(result.Warnings, fmt.Sprintf("entry %s not found in tournament %s", id, tournamentID))
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, e := range changed {
			if err := s.entryRepo.UpdateGroup(ctx, exec, e.ID, e.Group); err != nil {
				if errors.Is(err, repositories.ErrEntryNotFound) {
					result.Warnings = append(result.Warnings, fmt.Sprintf("entry %s disappeared while saving", e.ID))
					continue
				}
				return err
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, "failed to save groups")
	}

	s.logger.InfoContext(ctx, "groups saved",
		slog.String("tournament_id", tournamentID),
		slog.Int("updated", result.Updated),
		slog.Int("warnings", len(result.Warnings)))
	return result, nil
}

func (s *groupService) AutoAssign(ctx context.Context, tournamentID string, groupCount int, seed *int64) ([]models.Entry, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}

	submitted := models.EntryStatusSubmitted
	entries, err := s.entryRepo.ListByTournament(ctx, tournamentID, &submitted)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load entries")
	}

	assigned, err := schedule.AutoAssignGroups(entries, groupCount, newRand(seed))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, e := range assigned {
			if err := s.entryRepo.UpdateGroup(ctx, exec, e.ID, e.Group); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, "failed to persist group assignment")
	}

	s.logger.InfoContext(ctx, "groups auto-assigned",
		slog.String("tournament_id", tournamentID),
		slog.Int("entries", len(assigned)),
		slog.Int("groups", groupCount))
	return assigned, nil
}
