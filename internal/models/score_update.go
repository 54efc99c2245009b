package models

// ScoreUpdateType tags messages sent by embedded games to the host
const ScoreUpdateType = "arcade-score-update"

// ScoreUpdate is the message a game sends when it has a final score.
// Score is left untyped because games report numbers and strings alike;
// it is parsed by ledger.ParseScore.
type ScoreUpdate struct {
	Type       string `json:"type"`
	Game       string `json:"game"`
	Score      any    `json:"score"`
	PlayerName string `json:"playerName,omitempty"`
}
