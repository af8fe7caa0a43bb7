package services

import (
	"context"

	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	Overview(ctx context.Context, tournamentID string) (*models.TournamentOverview, error)
}

type dashboardService struct {
	tournamentRepo repositories.TournamentRepository
	entryRepo      repositories.EntryRepository
	matchRepo      repositories.MatchRepository
	eventRepo      repositories.EventRepository
}

func NewDashboardService(
	tournamentRepo repositories.TournamentRepository,
	entryRepo repositories.EntryRepository,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.EventRepository,
) DashboardService {
	return &dashboardService{
		tournamentRepo: tournamentRepo,
		entryRepo:      entryRepo,
		matchRepo:      matchRepo,
		eventRepo:      eventRepo,
	}
}

func (s *dashboardService) Overview(ctx context.Context, tournamentID string) (*models.TournamentOverview, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}

	var (
		tournament *models.Tournament
		entries    []models.Entry
		matches    []models.Match
		events     []models.ScheduleEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournament, err = s.tournamentRepo.GetByID(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.ListByTournament(gctx, tournamentID, nil)
		return err
	})
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
		return nil, handleRepositoryError(err, "failed to load overview")
	}

	overview := &models.TournamentOverview{
		TournamentID:     tournamentID,
		ParticipationFee: tournament.ParticipationFee,
		InsuranceFee:     tournament.InsuranceFee,
		EntriesTotal:     len(entries),
		MatchesTotal:     len(matches),
		EventsTotal:      len(events),
	}

	groups := make(map[string]struct{})
	for _, e := range entries {
		insured := 0
		for _, p := range e.Players {
			if p.Insurance {
				insured++
			}
		}
		overview.PlayersTotal += len(e.Players)
		overview.PlayersInsured += insured
		if e.Group != "" {
			groups[e.Group] = struct{}{}
		}

		fee := tournament.EntryFee(e)
		if e.IsSubmitted() {
			overview.EntriesSubmitted++
			overview.ExpectedFees += fee
		}
		if e.IsPaid {
			overview.EntriesPaid++
			overview.CollectedFees += fee
		}
	}
	overview.GroupsTotal = len(groups)

	for _, m := range matches {
		if m.Status == models.MatchStatusFinished {
			overview.MatchesFinished++
		}
	}
	return overview, nil
}
