package schedule

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/mituwo-320/asket-entry/models"
)

const maxGroups = 26

var ErrInvalidGroupCount = errors.New("group count must be between 1 and 26")

type GroupAssignment struct {
	EntryID string `json:"entry_id"`
	Group   string `json:"group"`
}

// GroupLabels returns "A", "B", ... for n groups.
func GroupLabels(n int) []string {
	labels := make([]string, 0, n)
	for i := 0; i < n; i++ {
		labels = append(labels, string(rune('A'+i)))
	}
	return labels
}

// ApplyGroups sets the group of every listed entry; an empty group clears it.
// It returns the changed entries and the ids that did not match any entry.
func ApplyGroups(entries []models.Entry, assignments []GroupAssignment) ([]models.Entry, []string) {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.ID] = i
	}

	changed := make([]models.Entry, 0, len(assignments))
	var missing []string
	for _, a := range assignments {
		if a.EntryID == "" {
			continue
		}
		i, ok := index[a.EntryID]
		if !ok {
			missing = append(missing, a.EntryID)
			continue
		}
		entry := entries[i]
		entry.Group = strings.TrimSpace(a.Group)
		changed = append(changed, entry)
	}
	return changed, missing
}

// AutoAssignGroups shuffles the entries and deals them into groupCount groups
// round-robin, so group sizes differ by at most one.
func AutoAssignGroups(entries []models.Entry, groupCount int, rng *rand.Rand) ([]models.Entry, error) {
	if groupCount < 1 || groupCount > maxGroups {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGroupCount, groupCount)
	}
	if rng == nil {
		return nil, errors.New("auto assign requires a random source")
	}

	labels := GroupLabels(groupCount)
	shuffled := make([]models.Entry, len(entries))
	copy(shuffled, entries)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for i := range shuffled {
		shuffled[i].Group = labels[i%groupCount]
	}
	return shuffled, nil
}
