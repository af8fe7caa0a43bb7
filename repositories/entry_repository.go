package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mituwo-320/asket-entry/models"
)

var (
	ErrEntryNotFound         = errors.New("entry not found")
	ErrEntryTeamNameConflict = errors.New("team name already registered for this tournament")
	ErrEntryInvalid          = errors.New("entry violates a database constraint")
)

type EntryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.Entry) error
	Update(ctx context.Context, exec SQLExecutor, entry *models.Entry) error
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	ListByTournament(ctx context.Context, tournamentID string, statusFilter *models.EntryStatus) ([]models.Entry, error)
	UpdateGroup(ctx context.Context, exec SQLExecutor, id string, group string) error
	UpdatePaid(ctx context.Context, id string, paid bool) error
	UpdatePreliminaryNumber(ctx context.Context, id string, number *int) error
}

type postgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) EntryRepository {
	return &postgresEntryRepository{db: db}
}

const entryColumns = `id, user_id, tournament_id, team_name, team_name_kana, introduction,
	beginner_friendly_accepted, status, is_paid, group_label, preliminary_number, created_at, updated_at`

func (r *postgresEntryRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.Entry) error {
	exec = pick(r.db, exec)
	query := `
		INSERT INTO entries
			(id, user_id, tournament_id, team_name, team_name_kana, introduction,
			 beginner_friendly_accepted, status, is_paid, group_label, preliminary_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := exec.QueryRowContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.TournamentID,
		entry.TeamName,
		entry.TeamNameKana,
		entry.Introduction,
		entry.BeginnerFriendlyAccepted,
		entry.Status,
		entry.IsPaid,
		entry.Group,
		entry.PreliminaryNumber,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return r.handleEntryError(err)
	}

	return r.replacePlayers(ctx, exec, entry)
}

func (r *postgresEntryRepository) Update(ctx context.Context, exec SQLExecutor, entry *models.Entry) error {
	exec = pick(r.db, exec)
	query := `
		UPDATE entries
		SET team_name = $1, team_name_kana = $2, introduction = $3, beginner_friendly_accepted = $4,
			status = $5, preliminary_number = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := exec.QueryRowContext(ctx, query,
		entry.TeamName,
		entry.TeamNameKana,
		entry.Introduction,
		entry.BeginnerFriendlyAccepted,
		entry.Status,
		entry.PreliminaryNumber,
		entry.ID,
	).Scan(&entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEntryNotFound
		}
		return r.handleEntryError(err)
	}

	return r.replacePlayers(ctx, exec, entry)
}

func (r *postgresEntryRepository) replacePlayers(ctx context.Context, exec SQLExecutor, entry *models.Entry) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM players WHERE entry_id = $1`, entry.ID); err != nil {
		return fmt.Errorf("failed to clear players of entry %s: %w", entry.ID, err)
	}

	query := `
		INSERT INTO players (id, entry_id, name, furigana, wristband_color, insurance, is_representative, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range entry.Players {
		p := &entry.Players[i]
		p.EntryID = entry.ID
		p.Position = i
		if _, err := exec.ExecContext(ctx, query,
			p.ID, p.EntryID, p.Name, p.Furigana, p.WristbandColor, p.Insurance, p.IsRepresentative, p.Position,
		); err != nil {
			return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *postgresEntryRepository) scanEntry(rowScanner interface {
	Scan(dest ...interface{}) error
}, e *models.Entry) error {
	var number sql.NullInt64
	err := rowScanner.Scan(
		&e.ID,
		&e.UserID,
		&e.TournamentID,
		&e.TeamName,
		&e.TeamNameKana,
		&e.Introduction,
		&e.BeginnerFriendlyAccepted,
		&e.Status,
		&e.IsPaid,
		&e.Group,
		&number,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if number.Valid {
		n := int(number.Int64)
		e.PreliminaryNumber = &n
	}
	return nil
}

func (r *postgresEntryRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	entry := &models.Entry{}
	if err := r.scanEntry(r.db.QueryRowContext(ctx, query, id), entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry %s: %w", id, err)
	}

	players, err := r.loadPlayers(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	entry.Players = nonNilPlayers(players[id])
	return entry, nil
}

func (r *postgresEntryRepository) ListByTournament(ctx context.Context, tournamentID string, statusFilter *models.EntryStatus) ([]models.Entry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + entryColumns + ` FROM entries WHERE tournament_id = $1`)
	args := []interface{}{tournamentID}

	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $2")
		args = append(args, *statusFilter)
	}
	queryBuilder.WriteString(" ORDER BY created_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	entries := make([]models.Entry, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var e models.Entry
		if err := r.scanEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return entries, nil
	}
	players, err := r.loadPlayers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Players = nonNilPlayers(players[entries[i].ID])
	}
	return entries, nil
}

func (r *postgresEntryRepository) loadPlayers(ctx context.Context, entryIDs []string) (map[string][]models.Player, error) {
	query := `
		SELECT id, entry_id, name, furigana, wristband_color, insurance, is_representative, position
		FROM players
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, position`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(entryIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	defer rows.Close()

	byEntry := make(map[string][]models.Player, len(entryIDs))
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.EntryID, &p.Name, &p.Furigana, &p.WristbandColor, &p.Insurance, &p.IsRepresentative, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		byEntry[p.EntryID] = append(byEntry[p.EntryID], p)
	}
	return byEntry, rows.Err()
}

func (r *postgresEntryRepository) UpdateGroup(ctx context.Context, exec SQLExecutor, id string, group string) error {
	exec = pick(r.db, exec)
	result, err := exec.ExecContext(ctx, `UPDATE entries SET group_label = $1, updated_at = NOW() WHERE id = $2`, group, id)
	if err != nil {
		return fmt.Errorf("failed to update group of entry %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}

func (r *postgresEntryRepository) UpdatePaid(ctx context.Context, id string, paid bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE entries SET is_paid = $1, updated_at = NOW() WHERE id = $2`, paid, id)
	if err != nil {
		return fmt.Errorf("failed to update payment of entry %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}

func (r *postgresEntryRepository) UpdatePreliminaryNumber(ctx context.Context, id string, number *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE entries SET preliminary_number = $1, updated_at = NOW() WHERE id = $2`, number, id)
	if err != nil {
		return r.handleEntryError(err)
	}
	return checkAffectedRows(result, ErrEntryNotFound)
}

func (r *postgresEntryRepository) handleEntryError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqCode(err); ok {
		switch code {
		case pqUniqueViolation:
			if constraint == "entries_tournament_team_name_key" {
				return ErrEntryTeamNameConflict
			}
		case pqCheckViolation, pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrEntryInvalid, constraint)
		}
	}
	return err
}

func nonNilPlayers(p []models.Player) []models.Player {
	if p == nil {
		return []models.Player{}
	}
	return p
}
