package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mituwo-320/asket-entry/live"
	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/repositories"
	"github.com/mituwo-320/asket-entry/schedule"
	"github.com/mituwo-320/asket-entry/storage"
	"golang.org/x/sync/errgroup"
)

type GenerateInput struct {
	Seed           *int64 `json:"seed,omitempty"`
	ByeForUnpaired bool   `json:"bye_for_unpaired"`
}

type GenerateOutput struct {
	Generator string         `json:"generator"`
	Matches   []models.Match `json:"matches"`
	Unpaired  []string       `json:"unpaired"`
}

// AllocateInput: nil fields fall back to the configured defaults.
type AllocateInput struct {
	DayStart      *string  `json:"day_start,omitempty"`
	MatchDuration *int     `json:"match_duration,omitempty"`
	Interval      *int     `json:"interval,omitempty"`
	Courts        []string `json:"courts,omitempty"`
	MatchOrder    []string `json:"match_order,omitempty"`
}

type AllocateOutput struct {
	Matches     []models.Match         `json:"matches"`
	Events      []models.ScheduleEvent `json:"events"`
	SnapshotURL string                 `json:"snapshot_url,omitempty"`
}

// MatchPatch — частичное обновление матча, nil означает "не менять".
type MatchPatch struct {
	ScoreA        *int                `json:"score_a,omitempty"`
	ScoreB        *int                `json:"score_b,omitempty"`
	Status        *models.MatchStatus `json:"status,omitempty"`
	Court         *string             `json:"court,omitempty"`
	Time          *string             `json:"time,omitempty"`
	RefereeTeamID *string             `json:"referee_team_id,omitempty"`
	WinnerID      *string             `json:"winner_id,omitempty"`
}

type ScheduleService interface {
	Generate(ctx context.Context, tournamentID string, input GenerateInput) (*GenerateOutput, error)
	Allocate(ctx context.Context, tournamentID string, input AllocateInput) (*AllocateOutput, error)
	UpdateMatch(ctx context.Context, matchID string, patch MatchPatch) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID string) ([]models.Match, error)
}

type scheduleService struct {
	entryRepo repositories.EntryRepository
	matchRepo repositories.MatchRepository
	eventRepo repositories.EventRepository
	tx        repositories.Transactor
	hub       Broadcaster
	publisher storage.SnapshotPublisher
	defaults  schedule.AllocateOptions
	logger    *slog.Logger
	now       func() time.Time
}

func NewScheduleService(
	entryRepo repositories.EntryRepository,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.EventRepository,
	tx repositories.Transactor,
	hub Broadcaster,
	publisher storage.SnapshotPublisher,
	defaults schedule.AllocateOptions,
	logger *slog.Logger,
) ScheduleService {
	if publisher == nil {
		publisher = storage.NewSnapshotPublisher(nil)
	}
	return &scheduleService{
		entryRepo: entryRepo,
		matchRepo: matchRepo,
		eventRepo: eventRepo,
		tx:        tx,
		hub:       hub,
		publisher: publisher,
		defaults:  defaults,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate заменяет расписание турнира новым круговым расписанием.
func (s *scheduleService) Generate(ctx context.Context, tournamentID string, input GenerateInput) (*GenerateOutput, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}

	submitted := models.EntryStatusSubmitted
	entries, err := s.entryRepo.ListByTournament(ctx, tournamentID, &submitted)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load entries")
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w: tournament %s has %d", ErrNotEnoughEntries, tournamentID, len(entries))
	}

	generator := schedule.NewRoundRobinGenerator(schedule.GenerateOptions{
		Rand:           newRand(input.Seed),
		ByeForUnpaired: input.ByeForUnpaired,
	})
	result, err := generator.Generate(ctx, schedule.GenerateParams{TournamentID: tournamentID, Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("schedule generation failed: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.ReplaceForTournament(ctx, exec, tournamentID, result.Matches)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "failed to store generated matches")
	}

	// у новых матчей ещё нет времени и площадок, старый снапшот больше не актуален
	if err := s.publisher.Withdraw(ctx, tournamentID); err != nil {
		s.logger.WarnContext(ctx, "failed to withdraw schedule snapshot",
			slog.String("tournament_id", tournamentID), slog.Any("error", err))
	}

	out := &GenerateOutput{
		Generator: generator.GetName(),
		Matches:   result.Matches,
		Unpaired:  result.Unpaired,
	}
	if out.Unpaired == nil {
		out.Unpaired = []string{}
	}

	s.logger.InfoContext(ctx, "schedule generated",
		slog.String("tournament_id", tournamentID),
		slog.Int("entries", len(entries)),
		slog.Int("matches", len(out.Matches)),
		slog.Int("unpaired", len(out.Unpaired)))
	broadcast(s.hub, tournamentID, live.MessageScheduleGenerated, out)
	return out, nil
}

func (s *scheduleService) Allocate(ctx context.Context, tournamentID string, input AllocateInput) (*AllocateOutput, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}

	matches, events, err := s.loadSchedule(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	ordered, err := orderMatches(matches, input.MatchOrder)
	if err != nil {
		return nil, err
	}

	opts := s.allocateOptions(input)
	placed, err := schedule.AllocateTimeSlots(ordered, events, opts)
	if err != nil {
		if isScheduleInputError(err) {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("time slot allocation failed: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.UpdateSlots(ctx, exec, placed)
	})
	if err != nil {
		return nil, handleRepositoryError(err, "failed to store allocated slots")
	}

	out := &AllocateOutput{
		Matches:     placed,
		Events:      events,
		SnapshotURL: s.publishSnapshot(ctx, tournamentID, placed, events),
	}

	s.logger.InfoContext(ctx, "schedule allocated",
		slog.String("tournament_id", tournamentID),
		slog.Int("matches", len(placed)),
		slog.Int("events", len(events)),
		slog.String("day_start", opts.DayStart))
	broadcast(s.hub, tournamentID, live.MessageScheduleAllocated, out)
	return out, nil
}

func (s *scheduleService) loadSchedule(ctx context.Context, tournamentID string) ([]models.Match, []models.ScheduleEvent, error) {
	var (
		matches []models.Match
		events  []models.ScheduleEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.ListByTournament(gctx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, handleRepositoryError(err, "failed to load schedule")
	}
	return matches, events, nil
}

// publishSnapshot выгружает расписание; ошибка только логируется, данные уже сохранены.
func (s *scheduleService) publishSnapshot(ctx context.Context, tournamentID string, matches []models.Match, events []models.ScheduleEvent) string {
	location, err := s.publisher.Publish(ctx, storage.ScheduleSnapshot{
		TournamentID: tournamentID,
		GeneratedAt:  s.now().UTC(),
		Matches:      matches,
		Events:       events,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish schedule snapshot",
			slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return ""
	}
	return location
}

func (s *scheduleService) allocateOptions(input AllocateInput) schedule.AllocateOptions {
	opts := s.defaults
	if input.DayStart != nil {
		opts.DayStart = *input.DayStart
	}
	if input.MatchDuration != nil {
		opts.MatchDuration = *input.MatchDuration
	}
	if input.Interval != nil {
		opts.Interval = *input.Interval
	}
	if len(input.Courts) > 0 {
		opts.Courts = input.Courts
	}
	return opts
}

// orderMatches ставит явно перечисленные матчи первыми, остальные идут в порядке генерации.
func orderMatches(matches []models.Match, order []string) ([]models.Match, error) {
	if len(order) == 0 {
		return matches, nil
	}

	byID := make(map[string]int, len(matches))
	for i, m := range matches {
		byID[m.ID] = i
	}

	used := make(map[string]bool, len(order))
	ordered := make([]models.Match, 0, len(matches))
	for _, id := range order {
		i, ok := byID[id]
		if !ok {
			return nil, validationError("match %s does not belong to this tournament", id)
		}
		if used[id] {
			return nil, validationError("match %s listed twice", id)
		}
		used[id] = true
		ordered = append(ordered, matches[i])
	}
	for _, m := range matches {
		if !used[m.ID] {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

func (s *scheduleService) UpdateMatch(ctx context.Context, matchID string, patch MatchPatch) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to load match")
	}

	if err := applyMatchPatch(match, patch); err != nil {
		return nil, err
	}

	if err := s.matchRepo.Update(ctx, match); err != nil {
		return nil, handleRepositoryError(err, "failed to update match")
	}

	if matches, events, err := s.loadSchedule(ctx, match.TournamentID); err != nil {
		s.logger.WarnContext(ctx, "failed to reload schedule for snapshot",
			slog.String("tournament_id", match.TournamentID), slog.Any("error", err))
	} else {
		s.publishSnapshot(ctx, match.TournamentID, matches, events)
	}

	s.logger.InfoContext(ctx, "match updated",
		slog.String("tournament_id", match.TournamentID),
		slog.String("match_id", match.ID),
		slog.String("status", string(match.Status)))
	broadcast(s.hub, match.TournamentID, live.MessageMatchUpdated, match)
	return match, nil
}

func applyMatchPatch(match *models.Match, patch MatchPatch) error {
	if patch.Status != nil {
		if !models.IsValidMatchStatus(*patch.Status) {
			return validationError("unknown match status %q", *patch.Status)
		}
		match.Status = *patch.Status
	}
	if patch.ScoreA != nil {
		if *patch.ScoreA < 0 {
			return validationError("score cannot be negative")
		}
		match.ScoreA = patch.ScoreA
	}
	if patch.ScoreB != nil {
		if *patch.ScoreB < 0 {
			return validationError("score cannot be negative")
		}
		match.ScoreB = patch.ScoreB
	}
	if patch.Time != nil {
		if *patch.Time != "" && !schedule.IsValidClock(*patch.Time) {
			return fmt.Errorf("%w: %w", ErrValidationFailed, schedule.ErrInvalidTime)
		}
		match.Time = *patch.Time
	}
	if patch.Court != nil {
		match.Court = *patch.Court
	}
	if patch.RefereeTeamID != nil {
		if *patch.RefereeTeamID == "" {
			match.RefereeTeamID = nil
		} else {
			match.RefereeTeamID = patch.RefereeTeamID
		}
	}
	if patch.WinnerID != nil {
		w := *patch.WinnerID
		switch {
		case w == "":
			match.WinnerID = nil
		case w == match.TeamIDA || w == match.TeamIDB:
			match.WinnerID = patch.WinnerID
		default:
			return validationError("winner %s does not play in match %s", w, match.ID)
		}
	}

	if match.Status == models.MatchStatusFinished && match.ScoreA != nil && match.ScoreB != nil {
		match.WinnerID = decideWinner(match)
	}
	return nil
}

func decideWinner(m *models.Match) *string {
	switch {
	case *m.ScoreA > *m.ScoreB:
		w := m.TeamIDA
		return &w
	case *m.ScoreB > *m.ScoreA:
		w := m.TeamIDB
		return &w
	}
	return nil
}

func (s *scheduleService) ListMatches(ctx context.Context, tournamentID string) ([]models.Match, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to list matches")
	}
	return matches, nil
}
