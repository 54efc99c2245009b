package models

// Leaderboard is the ranked list of entries for one game, best first
type Leaderboard []ScoreEntry

// TopScore returns the rank 1 score, or 0 for an empty board
func (lb Leaderboard) TopScore() int64 {
	if len(lb) == 0 {
		return 0
	}
	return lb[0].Score
}

// Clone returns a copy so callers can't modify the ledger's slice.
// A nil board clones to an empty, non-nil one so it encodes as [].
func (lb Leaderboard) Clone() Leaderboard {
	copied := make(Leaderboard, len(lb))
	copy(copied, lb)
	return copied
}
