package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/repositories"
	"github.com/mituwo-320/asket-entry/schedule"
)

type EventService interface {
	List(ctx context.Context, tournamentID string) ([]models.ScheduleEvent, error)
	Save(ctx context.Context, tournamentID string, events []models.ScheduleEvent) ([]models.ScheduleEvent, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	eventRepo repositories.EventRepository
	tx        repositories.Transactor
	logger    *slog.Logger
}

func NewEventService(eventRepo repositories.EventRepository, tx repositories.Transactor, logger *slog.Logger) EventService {
	return &eventService{eventRepo: eventRepo, tx: tx, logger: logger}
}

func (s *eventService) List(ctx context.Context, tournamentID string) ([]models.ScheduleEvent, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}
	events, err := s.eventRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "failed to list events")
	}
	return events, nil
}

// Save валидирует все события до записи, затем сохраняет их одной транзакцией (upsert по id).
// Событие с id из другого турнира даёт ErrEventNotFound, и весь пакет откатывается.
func (s *eventService) Save(ctx context.Context, tournamentID string, events []models.ScheduleEvent) ([]models.ScheduleEvent, error) {
	if tournamentID == "" {
		return nil, ErrTournamentRequired
	}

	prepared := make([]models.ScheduleEvent, 0, len(events))
	for i, e := range events {
		e.TournamentID = tournamentID
		e.Title = strings.TrimSpace(e.Title)
		if e.ID == "" {
			e.ID = "ev_" + uuid.NewString()
		}
		if e.Court == "" {
			e.Court = models.CourtAll
		}
		if e.EndTime != nil && *e.EndTime == "" {
			e.EndTime = nil
		}
		if err := validateEvent(e); err != nil {
			return nil, validationError("event #%d: %v", i+1, err)
		}
		prepared = append(prepared, e)
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for i := range prepared {
			if err := s.eventRepo.Upsert(ctx, exec, &prepared[i]); err != nil {
				return fmt.Errorf("event %s: %w", prepared[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, "failed to save events")
	}

	s.logger.InfoContext(ctx, "schedule events saved",
		slog.String("tournament_id", tournamentID),
		slog.Int("events", len(prepared)))
	return prepared, nil
}

func validateEvent(e models.ScheduleEvent) error {
	if e.Title == "" {
		return errors.New("title is required")
	}
	if !models.IsValidEventType(e.Type) {
		return fmt.Errorf("unknown type %q", e.Type)
	}
	if !models.IsValidEventCourt(e.Court) {
		return fmt.Errorf("unknown court %q", e.Court)
	}
	start, err := schedule.ParseClock(e.StartTime)
	if err != nil {
		return err
	}
	if e.EndTime != nil {
		end, err := schedule.ParseClock(*e.EndTime)
		if err != nil {
			return err
		}
		if end <= start {
			return errors.New("end time must be after start time")
		}
	}
	return nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError(err, "failed to delete event")
	}
	s.logger.InfoContext(ctx, "schedule event deleted", slog.String("event_id", id))
	return nil
}
