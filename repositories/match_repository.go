package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mituwo-320/asket-entry/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchInvalid  = errors.New("match violates a database constraint")
)

type MatchRepository interface {
	ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID string, matches []models.Match) error
	ListByTournament(ctx context.Context, tournamentID string) ([]models.Match, error)
	GetByID(ctx context.Context, id string) (*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	UpdateSlots(ctx context.Context, exec SQLExecutor, matches []models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, team_id_a, team_id_b, score_a, score_b, status, court,
	match_time, round, match_number, winner_id, referee_team_id, sequence, created_at`

// ReplaceForTournament удаляет все матчи турнира и вставляет новые. Вызывать внутри транзакции.
func (r *postgresMatchRepository) ReplaceForTournament(ctx context.Context, exec SQLExecutor, tournamentID string, matches []models.Match) error {
	exec = pick(r.db, exec)

	if _, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID); err != nil {
		return fmt.Errorf("failed to delete matches of tournament %s: %w", tournamentID, err)
	}

	query := `
		INSERT INTO matches
			(id, tournament_id, team_id_a, team_id_b, score_a, score_b, status, court,
			 match_time, round, match_number, winner_id, referee_team_id, sequence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	for i := range matches {
		m := &matches[i]
		if _, err := exec.ExecContext(ctx, query,
			m.ID,
			tournamentID,
			m.TeamIDA,
			m.TeamIDB,
			m.ScoreA,
			m.ScoreB,
			m.Status,
			m.Court,
			m.Time,
			m.Round,
			m.MatchNumber,
			m.WinnerID,
			m.RefereeTeamID,
			m.Sequence,
		); err != nil {
			return r.handleMatchError(fmt.Errorf("failed to insert match %s: %w", m.ID, err))
		}
	}
	return nil
}

func scanMatch(rowScanner interface {
	Scan(dest ...interface{}) error
}, m *models.Match) error {
	return rowScanner.Scan(
		&m.ID,
		&m.TournamentID,
		&m.TeamIDA,
		&m.TeamIDB,
		&m.ScoreA,
		&m.ScoreB,
		&m.Status,
		&m.Court,
		&m.Time,
		&m.Round,
		&m.MatchNumber,
		&m.WinnerID,
		&m.RefereeTeamID,
		&m.Sequence,
		&m.CreatedAt,
	)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY sequence ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := scanMatch(rows, &m); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	if err := scanMatch(r.db.QueryRowContext(ctx, query, id), match); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET score_a = $1, score_b = $2, status = $3, court = $4, match_time = $5,
			winner_id = $6, referee_team_id = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		match.ScoreA,
		match.ScoreB,
		match.Status,
		match.Court,
		match.Time,
		match.WinnerID,
		match.RefereeTeamID,
		match.ID,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// UpdateSlots сохраняет только время и корт, назначенные аллокатором.
func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, exec SQLExecutor, matches []models.Match) error {
	exec = pick(r.db, exec)
	query := `UPDATE matches SET match_time = $1, court = $2 WHERE id = $3`

	for _, m := range matches {
		result, err := exec.ExecContext(ctx, query, m.Time, m.Court, m.ID)
		if err != nil {
			return fmt.Errorf("failed to update slot of match %s: %w", m.ID, err)
		}
		if err := checkAffectedRows(result, ErrMatchNotFound); err != nil {
			return fmt.Errorf("match %s: %w", m.ID, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqCode(err); ok && code == pqCheckViolation {
		return fmt.Errorf("%w: %s", ErrMatchInvalid, constraint)
	}
	return err
}
