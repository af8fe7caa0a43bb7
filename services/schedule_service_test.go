package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mituwo-320/asket-entry/live"
	"github.com/mituwo-320/asket-entry/models"
	"github.com/mituwo-320/asket-entry/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleFixture struct {
	svc       *scheduleService
	entries   *fakeEntryRepo
	matches   *fakeMatchRepo
	events    *fakeEventRepo
	hub       *recordingBroadcaster
	publisher *recordingPublisher
}

func newScheduleFixture(entries ...models.Entry) *scheduleFixture {
	f := &scheduleFixture{
		entries:   &fakeEntryRepo{entries: entries},
		matches:   &fakeMatchRepo{},
		events:    &fakeEventRepo{},
		hub:       &recordingBroadcaster{},
		publisher: &recordingPublisher{},
	}
	defaults := schedule.AllocateOptions{DayStart: "10:00", MatchDuration: 15, Interval: 5}
	svc := NewScheduleService(f.entries, f.matches, f.events, &fakeTx{}, f.hub, f.publisher, defaults, discardLogger())
	f.svc = svc.(*scheduleService)
	f.svc.now = func() time.Time { return baseTime }
	return f
}

func TestGenerateRequiresTwoSubmittedEntries(t *testing.T) {
	draft := submittedEntry("e2", "t", "A", 1)
	draft.Status = models.EntryStatusDraft
	f := newScheduleFixture(submittedEntry("e1", "t", "A", 0), draft)

	_, err := f.svc.Generate(context.Background(), "t", GenerateInput{})
	assert.ErrorIs(t, err, ErrNotEnoughEntries)
	assert.Empty(t, f.hub.sent)

	_, err = f.svc.Generate(context.Background(), "", GenerateInput{})
	assert.ErrorIs(t, err, ErrTournamentRequired)
}

func TestGenerateReplacesPreviousSchedule(t *testing.T) {
	f := newScheduleFixture(
		submittedEntry("e1", "t", "A", 0),
		submittedEntry("e2", "t", "A", 1),
		submittedEntry("e3", "t", "A", 2),
	)
	f.matches.matches = []models.Match{
		{ID: "m_old", TournamentID: "t"},
		{ID: "m_keep", TournamentID: "other"},
	}

	out, err := f.svc.Generate(context.Background(), "t", GenerateInput{Seed: int64Ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, "RoundRobin", out.Generator)
	require.Len(t, out.Matches, 3)
	assert.Empty(t, out.Unpaired)

	again, err := f.svc.Generate(context.Background(), "t", GenerateInput{Seed: int64Ptr(1)})
	require.NoError(t, err)

	stored, err := f.matches.ListByTournament(context.Background(), "t")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, again.Matches[0].ID, stored[0].ID)

	_, err = f.matches.GetByID(context.Background(), "m_keep")
	assert.NoError(t, err)

	require.Len(t, f.hub.sent, 2)
	assert.Equal(t, live.RoomForTournament("t"), f.hub.sent[0].room)
	assert.Equal(t, live.MessageScheduleGenerated, f.hub.sent[0].message.(live.Message).Type)
}

func TestGenerateWithdrawsStaleSnapshot(t *testing.T) {
	f := newScheduleFixture(
		submittedEntry("e1", "t", "A", 0),
		submittedEntry("e2", "t", "A", 1),
	)

	_, err := f.svc.Generate(context.Background(), "t", GenerateInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, f.publisher.withdrawn)
	assert.Empty(t, f.publisher.snapshots)

	f.publisher.withdrawErr = errors.New("bucket down")
	out, err := f.svc.Generate(context.Background(), "t", GenerateInput{})
	require.NoError(t, err)
	assert.Len(t, out.Matches, 1)
}

func TestGenerateReportsUnpairedEntry(t *testing.T) {
	f := newScheduleFixture(
		submittedEntry("e1", "t", "", 0),
		submittedEntry("e2", "t", "", 1),
		submittedEntry("e3", "t", "", 2),
	)

	out, err := f.svc.Generate(context.Background(), "t", GenerateInput{Seed: int64Ptr(3)})
	require.NoError(t, err)
	assert.Len(t, out.Matches, 1)
	assert.Len(t, out.Unpaired, 1)

	withBye, err := f.svc.Generate(context.Background(), "t", GenerateInput{Seed: int64Ptr(3), ByeForUnpaired: true})
	require.NoError(t, err)
	require.Len(t, withBye.Matches, 2)
	assert.True(t, withBye.Matches[1].HasBye())
}

func TestGenerateThenAllocateEndToEnd(t *testing.T) {
	f := newScheduleFixture(
		submittedEntry("teamA", "t", "A", 0),
		submittedEntry("teamB", "t", "A", 1),
		submittedEntry("teamC", "t", "A", 2),
	)

	_, err := f.svc.Generate(context.Background(), "t", GenerateInput{})
	require.NoError(t, err)

	out, err := f.svc.Allocate(context.Background(), "t", AllocateInput{Courts: []string{"A", "B"}})
	require.NoError(t, err)
	require.Len(t, out.Matches, 3)

	got := map[string][2]string{}
	for _, m := range out.Matches {
		got[m.MatchNumber] = [2]string{m.Time, m.Court}
	}
	assert.Equal(t, [2]string{"10:00", "A"}, got["A-1"])
	assert.Equal(t, [2]string{"10:00", "B"}, got["A-2"])
	assert.Equal(t, [2]string{"10:20", "A"}, got["A-3"])

	stored, err := f.matches.ListByTournament(context.Background(), "t")
	require.NoError(t, err)
	for _, m := range stored {
		assert.Equal(t, got[m.MatchNumber], [2]string{m.Time, m.Court})
	}

	assert.Equal(t, "https://cdn.example.com/schedules/t.json", out.SnapshotURL)
	require.Len(t, f.publisher.snapshots, 1)
	assert.Equal(t, baseTime, f.publisher.snapshots[0].GeneratedAt)
	assert.Equal(t, live.MessageScheduleAllocated, f.hub.sent[len(f.hub.sent)-1].message.(live.Message).Type)
}

func TestAllocateRespectsEventsAndExplicitOrder(t *testing.T) {
	f := newScheduleFixture()
	f.matches.matches = []models.Match{
		{ID: "m1", TournamentID: "t", Sequence: 1},
		{ID: "m2", TournamentID: "t", Sequence: 2},
		{ID: "m3", TournamentID: "t", Sequence: 3},
	}
	f.events.events = []models.ScheduleEvent{
		{ID: "ev_1", TournamentID: "t", Type: models.EventTypeCeremony, Title: "Opening", StartTime: "10:00", EndTime: strPtr("10:30"), Court: models.CourtAll},
	}

	out, err := f.svc.Allocate(context.Background(), "t", AllocateInput{
		MatchOrder: []string{"m3"},
		Courts:     []string{"A"},
	})
	require.NoError(t, err)

	require.Len(t, out.Matches, 3)
	assert.Equal(t, "m3", out.Matches[0].ID)
	assert.Equal(t, "10:30", out.Matches[0].Time)
	assert.Equal(t, "m1", out.Matches[1].ID)
	assert.Equal(t, "10:50", out.Matches[1].Time)
	assert.Equal(t, f.events.events, out.Events)
}

func TestAllocateValidation(t *testing.T) {
	f := newScheduleFixture()
	f.matches.matches = []models.Match{{ID: "m1", TournamentID: "t"}}

	_, err := f.svc.Allocate(context.Background(), "t", AllocateInput{MatchDuration: intPtr(0)})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorIs(t, err, schedule.ErrInvalidDuration)

	_, err = f.svc.Allocate(context.Background(), "t", AllocateInput{DayStart: strPtr("25:00")})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.Allocate(context.Background(), "t", AllocateInput{MatchOrder: []string{"nope"}})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.Allocate(context.Background(), "t", AllocateInput{MatchOrder: []string{"m1", "m1"}})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Empty(t, f.publisher.snapshots)
}

func TestAllocateSurvivesSnapshotFailure(t *testing.T) {
	f := newScheduleFixture()
	f.matches.matches = []models.Match{{ID: "m1", TournamentID: "t"}}
	f.publisher.err = errors.New("bucket down")

	out, err := f.svc.Allocate(context.Background(), "t", AllocateInput{})
	require.NoError(t, err)
	assert.Empty(t, out.SnapshotURL)
	assert.Equal(t, "10:00", out.Matches[0].Time)
}

func TestUpdateMatchWinnerRule(t *testing.T) {
	f := newScheduleFixture()
	f.matches.matches = []models.Match{{ID: "m1", TournamentID: "t", TeamIDA: "a", TeamIDB: "b", Status: models.MatchStatusScheduled}}

	playing := models.MatchStatusPlaying
	m, err := f.svc.UpdateMatch(context.Background(), "m1", MatchPatch{Status: &playing, ScoreA: intPtr(10)})
	require.NoError(t, err)
	assert.Nil(t, m.WinnerID)

	finished := models.MatchStatusFinished
	m, err = f.svc.UpdateMatch(context.Background(), "m1", MatchPatch{Status: &finished, ScoreB: intPtr(12)})
	require.NoError(t, err)
	require.NotNil(t, m.WinnerID)
	assert.Equal(t, "b", *m.WinnerID)
	assert.Equal(t, 10, *m.ScoreA)

	m, err = f.svc.UpdateMatch(context.Background(), "m1", MatchPatch{ScoreA: intPtr(12)})
	require.NoError(t, err)
	assert.Nil(t, m.WinnerID)

	stored, err := f.matches.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusFinished, stored.Status)

	last := f.hub.sent[len(f.hub.sent)-1].message.(live.Message)
	assert.Equal(t, live.MessageMatchUpdated, last.Type)
}

func TestUpdateMatchRepublishesSnapshot(t *testing.T) {
	f := newScheduleFixture()
	f.matches.matches = []models.Match{
		{ID: "m1", TournamentID: "t", TeamIDA: "a", TeamIDB: "b", Time: "10:00", Court: "A"},
		{ID: "m2", TournamentID: "t", TeamIDA: "c", TeamIDB: "d", Time: "10:00", Court: "B"},
	}
	f.events.events = []models.ScheduleEvent{
		{ID: "ev_1", TournamentID: "t", Type: models.EventTypeBreak, Title: "Lunch", StartTime: "12:00", Court: models.CourtAll},
	}

	finished := models.MatchStatusFinished
	_, err := f.svc.UpdateMatch(context.Background(), "m1", MatchPatch{Status: &finished, ScoreA: intPtr(21), ScoreB: intPtr(15)})
	require.NoError(t, err)

	require.Len(t, f.publisher.snapshots, 1)
	snap := f.publisher.snapshots[0]
	assert.Equal(t, "t", snap.TournamentID)
	require.Len(t, snap.Matches, 2)
	assert.Len(t, snap.Events, 1)
	for _, m := range snap.Matches {
		if m.ID == "m1" {
			require.NotNil(t, m.WinnerID)
			assert.Equal(t, "a", *m.WinnerID)
			assert.Equal(t, 21, *m.ScoreA)
		}
	}

	f.publisher.err = errors.New("bucket down")
	_, err = f.svc.UpdateMatch(context.Background(), "m2", MatchPatch{Court: strPtr("A")})
	assert.NoError(t, err)
}

func TestUpdateMatchRejectsNonCanonicalTime(t *testing.T) {
	f := newScheduleFixture()
	f.matches.matches = []models.Match{{ID: "m1", TournamentID: "t", TeamIDA: "a", TeamIDB: "b", Time: "10:00"}}

	for _, bad := range []string{"+9:30", "-0:30", "9:30", "09:30 "} {
		_, err := f.svc.UpdateMatch(context.Background(), "m1", MatchPatch{Time: strPtr(bad)})
		assert.ErrorIs(t, err, ErrValidationFailed, bad)
	}

	stored, err := f.matches.GetByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "10:00", stored.Time)
}

func TestUpdateMatchValidation(t *testing.T) {
	f := newScheduleFixture()
	f.matches.matches = []models.Match{{ID: "m1", TournamentID: "t", TeamIDA: "a", TeamIDB: "b"}}

	bogus := models.MatchStatus("postponed")
	cases := []MatchPatch{
		{Status: &bogus},
		{ScoreA: intPtr(-1)},
		{Time: strPtr("9:5")},
		{WinnerID: strPtr("c")},
	}
	for _, p := range cases {
		_, err := f.svc.UpdateMatch(context.Background(), "m1", p)
		assert.ErrorIs(t, err, ErrValidationFailed)
	}

	_, err := f.svc.UpdateMatch(context.Background(), "missing", MatchPatch{})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestUpdateMatchManualSlotAndReferee(t *testing.T) {
	f := newScheduleFixture()
	f.matches.matches = []models.Match{{ID: "m1", TournamentID: "t", TeamIDA: "a", TeamIDB: "b", Time: "10:00", Court: "A"}}

	m, err := f.svc.UpdateMatch(context.Background(), "m1", MatchPatch{Time: strPtr("11:40"), Court: strPtr("B"), RefereeTeamID: strPtr("c")})
	require.NoError(t, err)
	assert.Equal(t, "11:40", m.Time)
	assert.Equal(t, "B", m.Court)
	assert.Equal(t, "c", *m.RefereeTeamID)

	m, err = f.svc.UpdateMatch(context.Background(), "m1", MatchPatch{RefereeTeamID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, m.RefereeTeamID)
}
