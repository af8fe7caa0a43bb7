package schedule

import (
	"sort"

	"github.com/mituwo-320/asket-entry/models"
)

// ComputeLotteryAssignments resolves requested preliminary numbers on a
// first-come, first-served basis. Entries are processed by CreatedAt; an entry
// whose number is already taken is bumped to the lowest free number in the pool.
// The result is keyed by entry id and must be recomputed whenever entries change.
func ComputeLotteryAssignments(entries []models.Entry) map[string]models.LotteryAssignment {
	sorted := make([]models.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	occupied := make(map[int]bool, models.LotteryPoolSize)
	assignments := make(map[string]models.LotteryAssignment, len(sorted))

	for _, entry := range sorted {
		a := models.LotteryAssignment{EntryID: entry.ID, Status: models.LotteryNotRequested}

		requested := entry.PreliminaryNumber
		if requested == nil || *requested == 0 {
			assignments[entry.ID] = a
			continue
		}
		req := *requested
		a.Requested = &req

		if inPool(req) && !occupied[req] {
			occupied[req] = true
			a.Final = &req
			a.Status = models.LotteryAssigned
			assignments[entry.ID] = a
			continue
		}

		a.Bumped = true
		a.Status = models.LotteryPoolExhausted
		for n := 1; n <= models.LotteryPoolSize; n++ {
			if !occupied[n] {
				occupied[n] = true
				final := n
				a.Final = &final
				a.Status = models.LotteryAssigned
				break
			}
		}
		assignments[entry.ID] = a
	}

	return assignments
}

func inPool(n int) bool {
	return n >= 1 && n <= models.LotteryPoolSize
}
