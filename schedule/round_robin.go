package schedule

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mituwo-320/asket-entry/models"
)

const (
	defaultMatchTime    = "10:00"
	ungroupedLabel      = "U"
	exhibitionPrefix    = "Ex"
	groupedDefaultCourt = models.CourtA
	ungroupedCourt      = models.CourtB
)

type GenerateOptions struct {
	// Rand drives the pairing of ungrouped entries. Nil means a time-seeded source.
	Rand *rand.Rand
	// ByeForUnpaired adds an Ex match against models.ByeTeamID for the odd ungrouped entry.
	ByeForUnpaired bool
}

type RoundRobinGenerator struct {
	opts GenerateOptions
}

func NewRoundRobinGenerator(opts GenerateOptions) ScheduleGenerator {
	return &RoundRobinGenerator{opts: opts}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

func (g *RoundRobinGenerator) Generate(ctx context.Context, params GenerateParams) (*GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := GenerateRoundRobin(params.Entries, params.TournamentID, g.opts)
	return &res, nil
}

// GenerateRoundRobin creates one match for every pair of submitted entries
// sharing a group. Groups are processed in the order they are first seen and
// each match is numbered "<group>-<n>" within its group. Ungrouped entries are
// shuffled and paired off as "Ex-<n>" matches on court B.
//
// Every call produces fresh match ids; replacing a previous schedule is the
// caller's job.
func GenerateRoundRobin(entries []models.Entry, tournamentID string, opts GenerateOptions) GenerateResult {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	var groupOrder []string
	grouped := make(map[string][]models.Entry)
	var ungrouped []models.Entry
	groupOf := make(map[string]string, len(entries))

	for _, e := range entries {
		if e.TournamentID != tournamentID || !e.IsSubmitted() {
			continue
		}
		groupOf[e.ID] = e.Group
		if e.Group == "" {
			ungrouped = append(ungrouped, e)
			continue
		}
		if _, seen := grouped[e.Group]; !seen {
			groupOrder = append(groupOrder, e.Group)
		}
		grouped[e.Group] = append(grouped[e.Group], e)
	}

	matches := make([]models.Match, 0)
	for _, group := range groupOrder {
		teams := grouped[group]
		for i := 0; i < len(teams); i++ {
			for j := i + 1; j < len(teams); j++ {
				matches = append(matches, newMatch(tournamentID, teams[i].ID, teams[j].ID, groupedDefaultCourt))
			}
		}
	}

	// Numbering follows the group of team A, counted per group in generation order.
	counters := make(map[string]int)
	for i := range matches {
		group := groupOf[matches[i].TeamIDA]
		if group == "" {
			group = ungroupedLabel
		}
		counters[group]++
		matches[i].MatchNumber = fmt.Sprintf("%s-%d", group, counters[group])
	}

	result := GenerateResult{}
	if len(ungrouped) > 0 {
		shuffled := make([]models.Entry, len(ungrouped))
		copy(shuffled, ungrouped)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		pairs := len(shuffled) / 2
		for i := 0; i < pairs; i++ {
			m := newMatch(tournamentID, shuffled[i*2].ID, shuffled[i*2+1].ID, ungroupedCourt)
			m.MatchNumber = fmt.Sprintf("%s-%d", exhibitionPrefix, i+1)
			matches = append(matches, m)
		}

		if len(shuffled)%2 == 1 {
			last := shuffled[len(shuffled)-1]
			if opts.ByeForUnpaired {
				m := newMatch(tournamentID, last.ID, models.ByeTeamID, ungroupedCourt)
				m.MatchNumber = fmt.Sprintf("%s-%d", exhibitionPrefix, pairs+1)
				matches = append(matches, m)
			} else {
				result.Unpaired = append(result.Unpaired, last.ID)
			}
		}
	}

	for i := range matches {
		matches[i].Sequence = i + 1
	}
	result.Matches = matches
	return result
}

func newMatch(tournamentID, teamA, teamB, court string) models.Match {
	return models.Match{
		ID:           "m_" + uuid.NewString(),
		TournamentID: tournamentID,
		TeamIDA:      teamA,
		TeamIDB:      teamB,
		Status:       models.MatchStatusScheduled,
		Round:        1,
		Time:         defaultMatchTime,
		Court:        court,
	}
}
