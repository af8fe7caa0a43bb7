package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/repositories"
)

const maxTournamentIDLength = 64

// FeeSchedule задаёт взносы для новых турниров, если они не указаны явно.
type FeeSchedule struct {
	Participation int
	Insurance     int
}

type TournamentInput struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	IsActive         *bool      `json:"is_active"`
	EntryStartAt     *time.Time `json:"entry_start_at"`
	EntryEndAt       *time.Time `json:"entry_end_at"`
	ParticipationFee *int       `json:"participation_fee"`
	InsuranceFee     *int       `json:"insurance_fee"`
	LineOpenChatLink string     `json:"line_open_chat_link"`
}

// FeesInput: nil оставляет текущее значение.
type FeesInput struct {
	ParticipationFee *int `json:"participation_fee"`
	InsuranceFee     *int `json:"insurance_fee"`
}

type TournamentService interface {
	Create(ctx context.Context, input TournamentInput) (*models.Tournament, error)
	Update(ctx context.Context, id string, input TournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	ListOpen(ctx context.Context) ([]models.Tournament, error)
	UpdateFees(ctx context.Context, id string, input FeesInput) (*models.Tournament, error)
}

type tournamentService struct {
	repo        repositories.TournamentRepository
	defaultFees FeeSchedule
	logger      *slog.Logger
	now         func() time.Time
}

func NewTournamentService(repo repositories.TournamentRepository, defaultFees FeeSchedule, logger *slog.Logger) TournamentService {
	return &tournamentService{
		repo:        repo,
		defaultFees: defaultFees,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *tournamentService) Create(ctx context.Context, input TournamentInput) (*models.Tournament, error) {
	t := &models.Tournament{
		ID:               strings.TrimSpace(input.ID),
		IsActive:         true,
		ParticipationFee: s.defaultFees.Participation,
		InsuranceFee:     s.defaultFees.Insurance,
	}
	if t.ID == "" {
		t.ID = "proj_" + uuid.NewString()
	} else if err := validateTournamentID(t.ID); err != nil {
		return nil, err
	}
	if err := applyTournamentInput(t, input); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, handleRepositoryError(err, "failed to create tournament")
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.String("tournament_id", t.ID),
		slog.Bool("active", t.IsActive))
	return t, nil
}

// Update перезаписывает название, окно приёма и ссылку; nil в is_active и взносах сохраняет текущие значения.
func (s *tournamentService) Update(ctx context.Context, id string, input TournamentInput) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load tournament")
	}
	if err := applyTournamentInput(t, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, handleRepositoryError(err, "failed to update tournament")
	}

	s.logger.InfoContext(ctx, "tournament updated",
		slog.String("tournament_id", t.ID),
		slog.Bool("active", t.IsActive))
	return t, nil
}

func (s *tournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to get tournament")
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.repo.List(ctx)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to list tournaments")
	}
	return tournaments, nil
}

// ListOpen возвращает турниры, которые принимают заявки прямо сейчас.
func (s *tournamentService) ListOpen(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	open := make([]models.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		if t.AcceptsEntries(now) {
			open = append(open, t)
		}
	}
	return open, nil
}

func (s *tournamentService) UpdateFees(ctx context.Context, id string, input FeesInput) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load tournament")
	}
	if err := applyFees(t, input.ParticipationFee, input.InsuranceFee); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFees(ctx, t.ID, t.ParticipationFee, t.InsuranceFee); err != nil {
		return nil, handleRepositoryError(err, "failed to update fees")
	}

	s.logger.InfoContext(ctx, "tournament fees updated",
		slog.String("tournament_id", t.ID),
		slog.Int("participation_fee", t.ParticipationFee),
		slog.Int("insurance_fee", t.InsuranceFee))
	return t, nil
}

func applyTournamentInput(t *models.Tournament, input TournamentInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return validationError("tournament name is required")
	}
	if input.EntryStartAt != nil && input.EntryEndAt != nil && !input.EntryEndAt.After(*input.EntryStartAt) {
		return validationError("entry end must be after entry start")
	}
	if err := applyFees(t, input.ParticipationFee, input.InsuranceFee); err != nil {
		return err
	}

	t.Name = name
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}
	t.EntryStartAt = input.EntryStartAt
	t.EntryEndAt = input.EntryEndAt
	t.LineOpenChatLink = strings.TrimSpace(input.LineOpenChatLink)
	return nil
}

func applyFees(t *models.Tournament, participation, insurance *int) error {
	if (participation != nil && *participation < 0) || (insurance != nil && *insurance < 0) {
		return validationError("fees must not be negative")
	}
	if participation != nil {
		t.ParticipationFee = *participation
	}
	if insurance != nil {
		t.InsuranceFee = *insurance
	}
	return nil
}

func validateTournamentID(id string) error {
	if len(id) > maxTournamentIDLength {
		return validationError("tournament id must be at most %d characters", maxTournamentIDLength)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return validationError("tournament id may contain only letters, digits, '-' and '_'")
		}
	}
	return nil
}
