package models

import (
	"encoding/json"
	"time"
)

// DefaultPlayerName is stored when a score is recorded without a name
const DefaultPlayerName = "Player"

// ScoreEntry represents one player's result on a leaderboard.
// Entries are never mutated once created, only re-ordered or dropped.
type ScoreEntry struct {
	Name       string    // display label
	Score      int64     // points achieved
	AchievedAt time.Time // millisecond precision, serialized as epoch ms
}

// scoreEntryJSON is the persisted shape: {name, score, date}
type scoreEntryJSON struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
	Date  int64  `json:"date"`
}

// NewScoreEntry builds an entry, applying the default name and
// truncating the timestamp to what the store can hold.
func NewScoreEntry(name string, score int64, at time.Time) ScoreEntry {
	if name == "" {
		name = DefaultPlayerName
	}
	return ScoreEntry{
		Name:       name,
		Score:      score,
		AchievedAt: time.UnixMilli(at.UnixMilli()).UTC(),
	}
}

func (e ScoreEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreEntryJSON{
		Name:  e.Name,
		Score: e.Score,
		Date:  e.AchievedAt.UnixMilli(),
	})
}

func (e *ScoreEntry) UnmarshalJSON(data []byte) error {
	var raw scoreEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Name = raw.Name
	e.Score = raw.Score
	e.AchievedAt = time.UnixMilli(raw.Date).UTC()
	return nil
}
