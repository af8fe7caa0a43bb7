package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/repositories"
)

type PlayerInput struct {
	Name             string `json:"name"`
	Furigana         string `json:"furigana"`
	WristbandColor   string `json:"wristband_color"`
	Insurance        bool   `json:"insurance"`
	IsRepresentative bool   `json:"is_representative"`
}

type EntryInput struct {
	UserID                   string             `json:"user_id"`
	TournamentID             string             `json:"tournament_id"`
	TeamName                 string             `json:"team_name"`
	TeamNameKana             string             `json:"team_name_kana"`
	Introduction             string             `json:"introduction"`
	BeginnerFriendlyAccepted bool               `json:"beginner_friendly_accepted"`
	Status                   models.EntryStatus `json:"status"`
	PreliminaryNumber        *int               `json:"preliminary_number"`
	Players                  []PlayerInput      `json:"players"`
}

type EntryService interface {
	Register(ctx context.Context, input EntryInput) (*models.Entry, error)
	Update(ctx context.Context, id string, input EntryInput) (*models.Entry, error)
	Get(ctx context.Context, id string) (*models.Entry, error)
	ListByTournament(ctx context.Context, tournamentID string, status *models.EntryStatus) ([]models.Entry, error)
	SetPaid(ctx context.Context, id string, paid bool) error
	SetPreliminaryNumber(ctx context.Context, id string, number *int) error
}

type entryService struct {
	entryRepo      repositories.EntryRepository
	tournamentRepo repositories.TournamentRepository
	tx             repositories.Transactor
	logger         *slog.Logger
	now            func() time.Time
}

func NewEntryService(entryRepo repositories.EntryRepository, tournamentRepo repositories.TournamentRepository, tx repositories.Transactor, logger *slog.Logger) EntryService {
	return &entryService{
		entryRepo:      entryRepo,
		tournamentRepo: tournamentRepo,
		tx:             tx,
		logger:         logger,
		now:            time.Now,
	}
}

// checkEntryOpen проверяет, что турнир существует и сейчас принимает заявки.
func (s *entryService) checkEntryOpen(ctx context.Context, tournamentID string) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return handleRepositoryError(err, "failed to load tournament")
	}
	if !tournament.AcceptsEntries(s.now()) {
		return ErrEntryClosed
	}
	return nil
}

func (s *entryService) Register(ctx context.Context, input EntryInput) (*models.Entry, error) {
	if strings.TrimSpace(input.TournamentID) == "" {
		return nil, ErrTournamentRequired
	}
	if err := validateEntryInput(&input); err != nil {
		return nil, err
	}
	tournamentID := strings.TrimSpace(input.TournamentID)
	if err := s.checkEntryOpen(ctx, tournamentID); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		ID:                uuid.NewString(),
		UserID:            input.UserID,
		TournamentID:      tournamentID,
		PreliminaryNumber: input.PreliminaryNumber,
	}
	applyEntryInput(entry, input)

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.entryRepo.Create(ctx, exec, entry)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "failed to register entry")
	}

	s.logger.InfoContext(ctx, "entry registered",
		slog.String("tournament_id", entry.TournamentID),
		slog.String("entry_id", entry.ID),
		slog.String("status", string(entry.Status)),
		slog.Int("players", len(entry.Players)))
	return entry, nil
}

func (s *entryService) Update(ctx context.Context, id string, input EntryInput) (*models.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load entry")
	}
	if err := validateEntryInput(&input); err != nil {
		return nil, err
	}
	if err := s.checkEntryOpen(ctx, entry.TournamentID); err != nil {
		return nil, err
	}

	applyEntryInput(entry, input)
	// nil оставляет номер, выставленный ранее
	if input.PreliminaryNumber != nil {
		entry.PreliminaryNumber = input.PreliminaryNumber
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.entryRepo.Update(ctx, exec, entry)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "failed to update entry")
	}

	s.logger.InfoContext(ctx, "entry updated",
		slog.String("tournament_id", entry.TournamentID),
		slog.String("entry_id", entry.ID),
		slog.String("status", string(entry.Status)))
	return entry, nil
}

func (s *entryService) Get(ctx context.Context, id string) (*models.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to get entry")
	}
	return entry, nil
}

func (s *entryService) ListByTournament(ctx context.Context, tournamentID string, status *models.EntryStatus) ([]models.Entry, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}
	if status != nil && *status != models.EntryStatusDraft && *status != models.EntryStatusSubmitted {
		return nil, validationError("unknown entry status %q", *status)
	}
	entries, err := s.entryRepo.ListByTournament(ctx, tournamentID, status)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to list entries")
	}
	return entries, nil
}

func (s *entryService) SetPaid(ctx context.Context, id string, paid bool) error {
	if err := s.entryRepo.UpdatePaid(ctx, id, paid); err != nil {
		return handleRepositoryError(err, "failed to update payment")
	}
	s.logger.InfoContext(ctx, "entry payment updated", slog.String("entry_id", id), slog.Bool("paid", paid))
	return nil
}

func (s *entryService) SetPreliminaryNumber(ctx context.Context, id string, number *int) error {
	if err := validatePreliminaryNumber(number); err != nil {
		return err
	}
	if err := s.entryRepo.UpdatePreliminaryNumber(ctx, id, number); err != nil {
		return handleRepositoryError(err, "failed to update preliminary number")
	}
	return nil
}

func validateEntryInput(input *EntryInput) error {
	input.TeamName = strings.TrimSpace(input.TeamName)
	if input.TeamName == "" {
		return fmt.Errorf("%w: %w", ErrValidationFailed, ErrTeamNameRequired)
	}

	switch input.Status {
	case "":
		input.Status = models.EntryStatusDraft
	case models.EntryStatusDraft, models.EntryStatusSubmitted:
	default:
		return validationError("unknown entry status %q", input.Status)
	}

	representatives := 0
	for i, p := range input.Players {
		if strings.TrimSpace(p.Name) == "" {
			return validationError("player #%d has no name", i+1)
		}
		if p.IsRepresentative {
			representatives++
		}
	}
	if representatives > 1 {
		return fmt.Errorf("%w: %w", ErrValidationFailed, ErrMultipleDelegates)
	}
	if input.Status == models.EntryStatusSubmitted && len(input.Players) == 0 {
		return validationError("a submitted entry needs at least one player")
	}
	return validatePreliminaryNumber(input.PreliminaryNumber)
}

func validatePreliminaryNumber(number *int) error {
	if number != nil && (*number < 1 || *number > models.LotteryPoolSize) {
		return validationError("preliminary number must be between 1 and %d", models.LotteryPoolSize)
	}
	return nil
}

func applyEntryInput(entry *models.Entry, input EntryInput) {
	entry.TeamName = input.TeamName
	entry.TeamNameKana = strings.TrimSpace(input.TeamNameKana)
	entry.Introduction = input.Introduction
	entry.BeginnerFriendlyAccepted = input.BeginnerFriendlyAccepted
	entry.Status = input.Status

	players := make([]models.Player, 0, len(input.Players))
	for i, p := range input.Players {
		players = append(players, models.Player{
			ID:               uuid.NewString(),
			EntryID:          entry.ID,
			Name:             strings.TrimSpace(p.Name),
			Furigana:         strings.TrimSpace(p.Furigana),
			WristbandColor:   p.WristbandColor,
			Insurance:        p.Insurance,
			IsRepresentative: p.IsRepresentative,
			Position:         i,
		})
	}
	entry.Players = players
}
