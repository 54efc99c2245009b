package main

import (
	"strconv"

	"github.com/pterm/pterm"

	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/models"
)

const dateLayout = "2006-01-02"

func renderLeaderboard(game string, board models.Leaderboard) (string, error) {
	title := pterm.DefaultSection.Sprint(game)
	if len(board) == 0 {
		return title + pterm.Gray("No scores yet!"), nil
	}

	data := pterm.TableData{{"#", "Name", "Score", "Date"}}
	for i, entry := range board {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			entry.Name,
			strconv.FormatInt(entry.Score, 10),
			entry.AchievedAt.Local().Format(dateLayout),
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", err
	}
	return title + table, nil
}
