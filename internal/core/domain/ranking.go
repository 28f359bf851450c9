package domain

import "sort"

// RankByConsistency picks the best and worst habit by consistency percent.
//
// The input is stable-sorted in descending order, so ties keep fetch order:
// among habits sharing the highest score the first fetched is Best, and among
// those sharing the lowest score the last fetched is Worst.
func RankByConsistency(stats []HabitStat) Summary {
	if len(stats) == 0 {
		return Summary{}
	}

	sorted := make([]HabitStat, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ConsistencyPercent > sorted[j].ConsistencyPercent
	})

	best := sorted[0]
	worst := sorted[len(sorted)-1]
	return Summary{Best: &best, Worst: &worst}
}
