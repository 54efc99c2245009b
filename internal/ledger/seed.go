package ledger

import (
	"time"

	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/models"
)

type demoScore struct {
	name  string
	score int64
}

var demoScores = map[string][]demoScore{
	"tetris": {
		{"CHAD", 15000}, {"LARS", 12500}, {"ACE", 10000}, {"MAX", 8500}, {"PIXEL", 7000},
	},
	"pole-position": {
		{"SPEEDY", 45000}, {"TURBO", 38000}, {"RACER", 32000}, {"DRIFT", 28000}, {"ZOOM", 25000},
	},
	"monaco-gp": {
		{"MONACO", 35000}, {"GRAND", 30000}, {"PRIX", 25000}, {"FAST", 20000}, {"FURIOUS", 18000},
	},
	"frogger": {
		{"HOPPER", 5000}, {"JUMPER", 4200}, {"CROAKER", 3800}, {"RIBBIT", 3200}, {"LEAP", 2800},
	},
}

// DemoSeeds returns the demo boards for the default games. The entry at
// rank i is dated i days before now.
func DemoSeeds(now time.Time) map[string]models.Leaderboard {
	seeds := make(map[string]models.Leaderboard, len(demoScores))
	for game, scores := range demoScores {
		board := make(models.Leaderboard, 0, len(scores))
		for i, s := range scores {
			at := now.Add(-time.Duration(i+1) * 24 * time.Hour)
			board = append(board, models.NewScoreEntry(s.name, s.score, at))
		}
		seeds[game] = board
	}
	return seeds
}
