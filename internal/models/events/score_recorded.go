package events

import "time"

// TopicScoreRecorded is the default topic for ScoreRecorded events
const TopicScoreRecorded = "score_recorded"

// ScoreRecorded is emitted after a score has been written to a leaderboard.
// Rank is 1-based; 0 means the entry did not survive truncation.
type ScoreRecorded struct {
	EventID    string    `json:"event_id"`
	Game       string    `json:"game"`
	Name       string    `json:"name"`
	Score      int64     `json:"score"`
	Rank       int       `json:"rank"`
	TopScore   int64     `json:"top_score"`
	OccurredAt time.Time `json:"occurred_at"`
}
