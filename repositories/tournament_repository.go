package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mituwo-320/asket-entry/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentConflict = errors.New("tournament with this id already exists")
	ErrTournamentInvalid  = errors.New("tournament violates a database constraint")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateFees(ctx context.Context, id string, participationFee, insuranceFee int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, is_active, entry_start_at, entry_end_at,
	participation_fee, insurance_fee, line_open_chat_link, created_at, updated_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(id, name, is_active, entry_start_at, entry_end_at, participation_fee, insurance_fee, line_open_chat_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Name, t.IsActive, t.EntryStartAt, t.EntryEndAt,
		t.ParticipationFee, t.InsuranceFee, t.LineOpenChatLink,
	).Scan(&t.CreatedAt, &t.UpdatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := r.scanTournament(r.db.QueryRowContext(ctx, query, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := r.scanTournament(rows, &t); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $1, is_active = $2, entry_start_at = $3, entry_end_at = $4,
			participation_fee = $5, insurance_fee = $6, line_open_chat_link = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.IsActive, t.EntryStartAt, t.EntryEndAt,
		t.ParticipationFee, t.InsuranceFee, t.LineOpenChatLink, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTournamentNotFound
	}
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) UpdateFees(ctx context.Context, id string, participationFee, insuranceFee int) error {
	query := `UPDATE tournaments SET participation_fee = $1, insurance_fee = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, participationFee, insuranceFee, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface {
	Scan(dest ...interface{}) error
}, t *models.Tournament) error {
	var start, end sql.NullTime
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.IsActive, &start, &end,
		&t.ParticipationFee, &t.InsuranceFee, &t.LineOpenChatLink, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	t.EntryStartAt, t.EntryEndAt = nil, nil
	if start.Valid {
		v := start.Time
		t.EntryStartAt = &v
	}
	if end.Valid {
		v := end.Time
		t.EntryEndAt = &v
	}
	return nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqCode(err); ok {
		switch code {
		case pqUniqueViolation:
			return ErrTournamentConflict
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", ErrTournamentInvalid, constraint)
		}
	}
	return err
}
