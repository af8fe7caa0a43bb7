package schedule

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/mituwo-320/asket-entry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func TestRoundRobinCompleteness(t *testing.T) {
	entries := make([]models.Entry, 0, 6)
	for i := 0; i < 6; i++ {
		entries = append(entries, submittedEntry(string(rune('a'+i)), "A", i))
	}

	res := GenerateRoundRobin(entries, "2026-spring", GenerateOptions{Rand: rand.New(rand.NewSource(1))})

	require.Len(t, res.Matches, 6*5/2)
	seen := make(map[string]bool)
	for _, m := range res.Matches {
		assert.NotEqual(t, m.TeamIDA, m.TeamIDB)
		key := pairKey(m.TeamIDA, m.TeamIDB)
		assert.False(t, seen[key], "pair %s generated twice", key)
		seen[key] = true
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		assert.Equal(t, 1, m.Round)
		assert.Equal(t, "10:00", m.Time)
		assert.Equal(t, "A", m.Court)
		assert.True(t, strings.HasPrefix(m.ID, "m_"))
	}
	assert.Empty(t, res.Unpaired)
}

func TestRoundRobinGroupIsolationAndNumbering(t *testing.T) {
	entries := []models.Entry{
		submittedEntry("x1", "X", 0),
		submittedEntry("y1", "Y", 1),
		submittedEntry("x2", "X", 2),
		submittedEntry("y2", "Y", 3),
		submittedEntry("x3", "X", 4),
		submittedEntry("y3", "Y", 5),
		submittedEntry("z1", "Z", 6),
	}
	groupOf := map[string]string{}
	for _, e := range entries {
		groupOf[e.ID] = e.Group
	}

	res := GenerateRoundRobin(entries, "2026-spring", GenerateOptions{Rand: rand.New(rand.NewSource(1))})

	require.Len(t, res.Matches, 6)
	numbers := make([]string, 0, len(res.Matches))
	for _, m := range res.Matches {
		assert.Equal(t, groupOf[m.TeamIDA], groupOf[m.TeamIDB])
		numbers = append(numbers, m.MatchNumber)
	}
	// X is seen first, so its matches come first.
	assert.Equal(t, []string{"X-1", "X-2", "X-3", "Y-1", "Y-2", "Y-3"}, numbers)
	for i, m := range res.Matches {
		assert.Equal(t, i+1, m.Sequence)
	}
}

func TestRoundRobinSkipsForeignAndDraftEntries(t *testing.T) {
	draft := submittedEntry("d", "A", 0)
	draft.Status = models.EntryStatusDraft
	foreign := submittedEntry("f", "A", 1)
	foreign.TournamentID = "2025-autumn"

	entries := []models.Entry{draft, foreign, submittedEntry("a", "A", 2), submittedEntry("b", "A", 3)}
	res := GenerateRoundRobin(entries, "2026-spring", GenerateOptions{})

	require.Len(t, res.Matches, 1)
	assert.Equal(t, "a", res.Matches[0].TeamIDA)
	assert.Equal(t, "b", res.Matches[0].TeamIDB)
	assert.Equal(t, "2026-spring", res.Matches[0].TournamentID)
}

func TestRoundRobinSingleTeamGroup(t *testing.T) {
	res := GenerateRoundRobin([]models.Entry{submittedEntry("solo", "A", 0)}, "2026-spring", GenerateOptions{})
	assert.Empty(t, res.Matches)
	assert.Empty(t, res.Unpaired)
}

func TestRoundRobinUngroupedPairing(t *testing.T) {
	entries := []models.Entry{
		submittedEntry("u1", "", 0),
		submittedEntry("u2", "", 1),
		submittedEntry("u3", "", 2),
		submittedEntry("u4", "", 3),
		submittedEntry("u5", "", 4),
	}

	res := GenerateRoundRobin(entries, "2026-spring", GenerateOptions{Rand: rand.New(rand.NewSource(7))})

	require.Len(t, res.Matches, 2)
	require.Len(t, res.Unpaired, 1)
	used := map[string]bool{res.Unpaired[0]: true}
	for i, m := range res.Matches {
		assert.Equal(t, "B", m.Court)
		assert.Equal(t, "Ex-"+string(rune('1'+i)), m.MatchNumber)
		assert.False(t, used[m.TeamIDA])
		assert.False(t, used[m.TeamIDB])
		used[m.TeamIDA], used[m.TeamIDB] = true, true
	}
	assert.Len(t, used, 5)
}

func TestRoundRobinUngroupedPairingIsSeedable(t *testing.T) {
	entries := []models.Entry{
		submittedEntry("u1", "", 0),
		submittedEntry("u2", "", 1),
		submittedEntry("u3", "", 2),
		submittedEntry("u4", "", 3),
	}
	pairs := func() []string {
		res := GenerateRoundRobin(entries, "2026-spring", GenerateOptions{Rand: rand.New(rand.NewSource(42))})
		out := make([]string, 0, len(res.Matches))
		for _, m := range res.Matches {
			out = append(out, m.TeamIDA+"-"+m.TeamIDB)
		}
		return out
	}
	assert.Equal(t, pairs(), pairs())
}

func TestRoundRobinByeForUnpaired(t *testing.T) {
	entries := []models.Entry{
		submittedEntry("u1", "", 0),
		submittedEntry("u2", "", 1),
		submittedEntry("u3", "", 2),
	}

	res := GenerateRoundRobin(entries, "2026-spring", GenerateOptions{Rand: rand.New(rand.NewSource(3)), ByeForUnpaired: true})

	require.Len(t, res.Matches, 2)
	assert.Empty(t, res.Unpaired)
	bye := res.Matches[1]
	assert.True(t, bye.HasBye())
	assert.Equal(t, models.ByeTeamID, bye.TeamIDB)
	assert.Equal(t, "Ex-2", bye.MatchNumber)
}

func TestRoundRobinProducesFreshIDs(t *testing.T) {
	entries := []models.Entry{submittedEntry("a", "A", 0), submittedEntry("b", "A", 1)}
	first := GenerateRoundRobin(entries, "2026-spring", GenerateOptions{})
	second := GenerateRoundRobin(entries, "2026-spring", GenerateOptions{})
	assert.NotEqual(t, first.Matches[0].ID, second.Matches[0].ID)
}

func TestRoundRobinGeneratorHonoursContext(t *testing.T) {
	g := NewRoundRobinGenerator(GenerateOptions{})
	assert.Equal(t, "RoundRobin", g.GetName())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Generate(ctx, GenerateParams{TournamentID: "2026-spring"})
	assert.ErrorIs(t, err, context.Canceled)
}
