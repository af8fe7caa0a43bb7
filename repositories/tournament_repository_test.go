package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/mituwo-320/asket-entry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tournamentRowColumns = []string{
	"id", "name", "is_active", "entry_start_at", "entry_end_at",
	"participation_fee", "insurance_fee", "line_open_chat_link", "created_at", "updated_at",
}

func TestTournamentRepositoryGetByID(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 30, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery("FROM tournaments WHERE id").
		WithArgs("2026-spring").
		WillReturnRows(sqlmock.NewRows(tournamentRowColumns).
			AddRow("2026-spring", "春季大会", true, nil, end, 15000, 800, "", created, created))

	got, err := repo.GetByID(context.Background(), "2026-spring")
	require.NoError(t, err)
	assert.Equal(t, "春季大会", got.Name)
	assert.Nil(t, got.EntryStartAt)
	require.NotNil(t, got.EntryEndAt)
	assert.Equal(t, end, *got.EntryEndAt)
	assert.Equal(t, 15000, got.ParticipationFee)
	assert.Equal(t, 800, got.InsuranceFee)
}

func TestTournamentRepositoryGetByIDNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)

	mock.ExpectQuery("FROM tournaments WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(tournamentRowColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTournamentRepositoryCreateDuplicate(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)

	mock.ExpectQuery("INSERT INTO tournaments").
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "tournaments_pkey"})

	err := repo.Create(context.Background(), &models.Tournament{ID: "2026-spring", Name: "x"})
	assert.ErrorIs(t, err, ErrTournamentConflict)
}

func TestTournamentRepositoryUpdateFeesNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)

	mock.ExpectExec("UPDATE tournaments SET participation_fee").
		WithArgs(15000, 800, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFees(context.Background(), "missing", 15000, 800)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTournamentRepositoryList(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM tournaments ORDER BY").
		WillReturnRows(sqlmock.NewRows(tournamentRowColumns).
			AddRow("2026-autumn", "秋季大会", false, nil, nil, 0, 0, "", created, created).
			AddRow("2026-spring", "春季大会", true, nil, nil, 15000, 800, "https://line.me/x", created, created))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.False(t, got[0].IsActive)
	assert.Equal(t, "https://line.me/x", got[1].LineOpenChatLink)
}
