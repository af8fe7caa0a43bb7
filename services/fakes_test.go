package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/repositories"
	"github.com/mituwo-320/asket-entry/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var baseTime = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments []models.Tournament
	getErr      error
}

// openTournament accepts entries with no window bounds.
func openTournament(id string) models.Tournament {
	return models.Tournament{ID: id, Name: "Cup " + id, IsActive: true}
}

func newTournamentRepo(ts ...models.Tournament) *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: ts}
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tournaments {
		if existing.ID == t.ID {
			return repositories.ErrTournamentConflict
		}
	}
	t.CreatedAt, t.UpdatedAt = baseTime, baseTime
	r.tournaments = append(r.tournaments, *t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tournaments {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) List(_ context.Context) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Tournament{}, r.tournaments...), nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tournaments {
		if r.tournaments[i].ID == t.ID {
			r.tournaments[i] = *t
			return nil
		}
	}
	return repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepo) UpdateFees(_ context.Context, id string, participation, insurance int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tournaments {
		if r.tournaments[i].ID == id {
			r.tournaments[i].ParticipationFee = participation
			r.tournaments[i].InsuranceFee = insurance
			return nil
		}
	}
	return repositories.ErrTournamentNotFound
}

type fakeEntryRepo struct {
	mu        sync.Mutex
	entries   []models.Entry
	createErr error
	listErr   error
}

func (r *fakeEntryRepo) Create(_ context.Context, _ repositories.SQLExecutor, e *models.Entry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e.CreatedAt = baseTime.Add(time.Duration(len(r.entries)) * time.Minute)
	e.UpdatedAt = e.CreatedAt
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeEntryRepo) Update(_ context.Context, _ repositories.SQLExecutor, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == e.ID {
			r.entries[i] = *e
			return nil
		}
	}
	return repositories.ErrEntryNotFound
}

func (r *fakeEntryRepo) GetByID(_ context.Context, id string) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, repositories.ErrEntryNotFound
}

func (r *fakeEntryRepo) ListByTournament(_ context.Context, tournamentID string, status *models.EntryStatus) ([]models.Entry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Entry{}
	for _, e := range r.entries {
		if e.TournamentID != tournamentID {
			continue
		}
		if status != nil && e.Status != *status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEntryRepo) UpdateGroup(_ context.Context, _ repositories.SQLExecutor, id, group string) error {
	return r.mutate(id, func(e *models.Entry) { e.Group = group })
}

func (r *fakeEntryRepo) UpdatePaid(_ context.Context, id string, paid bool) error {
	return r.mutate(id, func(e *models.Entry) { e.IsPaid = paid })
}

func (r *fakeEntryRepo) UpdatePreliminaryNumber(_ context.Context, id string, n *int) error {
	return r.mutate(id, func(e *models.Entry) { e.PreliminaryNumber = n })
}

func (r *fakeEntryRepo) mutate(id string, fn func(*models.Entry)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			fn(&r.entries[i])
			return nil
		}
	}
	return repositories.ErrEntryNotFound
}

func (r *fakeEntryRepo) group(id string) string {
	e, _ := r.GetByID(context.Background(), id)
	if e == nil {
		return ""
	}
	return e.Group
}

type fakeMatchRepo struct {
	mu       sync.Mutex
	matches  []models.Match
	replaced int
}

func (r *fakeMatchRepo) ReplaceForTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID string, matches []models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := []models.Match{}
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			kept = append(kept, m)
		}
	}
	r.matches = append(kept, matches...)
	r.replaced++
	return nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID string) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Match{}
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id string) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) Update(_ context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.matches {
		if r.matches[i].ID == match.ID {
			r.matches[i] = *match
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) UpdateSlots(_ context.Context, _ repositories.SQLExecutor, matches []models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range matches {
		found := false
		for i := range r.matches {
			if r.matches[i].ID == m.ID {
				r.matches[i].Time = m.Time
				r.matches[i].Court = m.Court
				found = true
			}
		}
		if !found {
			return repositories.ErrMatchNotFound
		}
	}
	return nil
}

type fakeEventRepo struct {
	mu        sync.Mutex
	events    []models.ScheduleEvent
	upsertErr map[string]error
}

func (r *fakeEventRepo) ListByTournament(_ context.Context, tournamentID string) ([]models.ScheduleEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ScheduleEvent{}
	for _, e := range r.events {
		if e.TournamentID == tournamentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, e *models.ScheduleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.upsertErr[e.ID]; err != nil {
		return err
	}
	for i := range r.events {
		if r.events[i].ID == e.ID {
			if r.events[i].TournamentID != e.TournamentID {
				return repositories.ErrEventNotFound
			}
			r.events[i] = *e
			return nil
		}
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		if r.events[i].ID == id {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return nil
		}
	}
	return repositories.ErrEventNotFound
}

type sentMessage struct {
	room    string
	message interface{}
}

type recordingBroadcaster struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (b *recordingBroadcaster) BroadcastToRoom(room string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, sentMessage{room: room, message: message})
}

type recordingPublisher struct {
	snapshots   []storage.ScheduleSnapshot
	withdrawn   []string
	err         error
	withdrawErr error
}

func (p *recordingPublisher) Withdraw(_ context.Context, tournamentID string) error {
	if p.withdrawErr != nil {
		return p.withdrawErr
	}
	p.withdrawn = append(p.withdrawn, tournamentID)
	return nil
}

func (p *recordingPublisher) Publish(_ context.Context, snap storage.ScheduleSnapshot) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.snapshots = append(p.snapshots, snap)
	return "https://cdn.example.com/" + storage.SnapshotKey(snap.TournamentID), nil
}

func submittedEntry(id, tournamentID, group string, minute int) models.Entry {
	return models.Entry{
		ID:           id,
		TournamentID: tournamentID,
		TeamName:     "Team " + id,
		Status:       models.EntryStatusSubmitted,
		Group:        group,
		CreatedAt:    baseTime.Add(time.Duration(minute) * time.Minute),
		Players:      []models.Player{{ID: id + "-p1", Name: "Player " + id}},
	}
}
