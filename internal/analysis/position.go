package analysis

import "sort"

// TeamEntry is the slice of per-player stats the position classifier ranks.
type TeamEntry struct {
	AccountID  int64
	PlayerSlot int
	GoldPerMin int
	LastHits   int
}

// IsPosition1 decides whether the subject played the primary-farm role.
// Roles 4 and 5 are never position 1; otherwise the subject must rank at or
// near the top of their team by gold per minute and last hits, with absolute
// floors that rule out support-profile farm patterns.
func IsPosition1(laneRole, playerSlot, durationSeconds, goldPerMin, lastHits int, accountID int64, team []TeamEntry) bool {
	if laneRole == 4 || laneRole == 5 {
		return false
	}

	isRadiant := playerSlot < 128
	var side []TeamEntry
	for _, p := range team {
		if (p.PlayerSlot < 128) == isRadiant {
			side = append(side, p)
		}
	}

	gpmRank := rankBy(side, accountID, func(p TeamEntry) int { return p.GoldPerMin })
	lhRank := rankBy(side, accountID, func(p TeamEntry) int { return p.LastHits })

	minutes := durationSeconds / 60
	if minutes < 1 {
		minutes = 1
	}
	csPerMin := float64(lastHits) / float64(minutes)

	if goldPerMin < 380 && csPerMin < 3.0 {
		return false
	}

	if gpmRank == 0 && lhRank == 0 {
		return true
	}
	if gpmRank == 0 && goldPerMin >= 480 && csPerMin >= 4.0 {
		return true
	}
	if gpmRank <= 1 && lhRank <= 1 && goldPerMin >= 450 {
		return true
	}
	return false
}

// rankBy returns the subject's 0-based rank when the side is sorted
// descending by the given stat. Ties keep encounter order. Returns a rank
// past the end when the subject is not found.
func rankBy(side []TeamEntry, accountID int64, stat func(TeamEntry) int) int {
	sorted := make([]TeamEntry, len(side))
	copy(sorted, side)
	sort.SliceStable(sorted, func(i, j int) bool {
		return stat(sorted[i]) > stat(sorted[j])
	})
	for i, p := range sorted {
		if p.AccountID == accountID {
			return i
		}
	}
	return len(sorted)
}
