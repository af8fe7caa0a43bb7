package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mituwo-320/asket-entry/models"
)

var (
	ErrEventNotFound = errors.New("schedule event not found")
	ErrEventInvalid  = errors.New("schedule event violates a database constraint")
)

type EventRepository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]models.ScheduleEvent, error)
	// Upsert не переносит существующее событие в другой турнир: такой id даёт ErrEventNotFound.
	Upsert(ctx context.Context, exec SQLExecutor, event *models.ScheduleEvent) error
	Delete(ctx context.Context, id string) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.ScheduleEvent, error) {
	query := `
		SELECT id, tournament_id, type, title, start_time, end_time, court
		FROM schedule_events
		WHERE tournament_id = $1
		ORDER BY start_time ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events of tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	events := make([]models.ScheduleEvent, 0)
	for rows.Next() {
		var e models.ScheduleEvent
		if scanErr := rows.Scan(&e.ID, &e.TournamentID, &e.Type, &e.Title, &e.StartTime, &e.EndTime, &e.Court); scanErr != nil {
			return nil, fmt.Errorf("failed to scan event: %w", scanErr)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *postgresEventRepository) Upsert(ctx context.Context, exec SQLExecutor, event *models.ScheduleEvent) error {
	query := `
		INSERT INTO schedule_events (id, tournament_id, type, title, start_time, end_time, court)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET type = EXCLUDED.type, title = EXCLUDED.title,
			start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, court = EXCLUDED.court
		WHERE schedule_events.tournament_id = EXCLUDED.tournament_id`

	result, err := pick(r.db, exec).ExecContext(ctx, query,
		event.ID,
		event.TournamentID,
		event.Type,
		event.Title,
		event.StartTime,
		event.EndTime,
		event.Court,
	)
	if err != nil {
		if code, constraint, ok := pqCode(err); ok && code == pqCheckViolation {
			return fmt.Errorf("%w: %s", ErrEventInvalid, constraint)
		}
		return fmt.Errorf("failed to save event %s: %w", event.ID, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}
