// Package scoreupdate handles the score reports embedded games send to the
// arcade host: check the score against the board, find a name, record it.
package scoreupdate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/ledger"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/models"
)

var ErrMissingGame = errors.New("score update has no game")

// ScoreLedger is the part of *ledger.Ledger the handler needs.
type ScoreLedger interface {
	Qualifies(ctx context.Context, game string, score int64) bool
	Record(ctx context.Context, game, name string, score int64) (models.Leaderboard, error)
}

// NamePrompter asks for a player name once a score has qualified.
// An empty name means the player declined and nothing is recorded.
type NamePrompter interface {
	PromptName(ctx context.Context, game string, score int64) (string, error)
}

// StaticName answers every prompt with the same name.
type StaticName string

func (s StaticName) PromptName(ctx context.Context, game string, score int64) (string, error) {
	return string(s), nil
}

// Outcome describes what happened to one score update.
type Outcome struct {
	Game        string             `json:"game"`
	Score       int64              `json:"score"`
	Ignored     bool               `json:"ignored,omitempty"`
	Qualified   bool               `json:"qualified"`
	Recorded    bool               `json:"recorded"`
	Name        string             `json:"name,omitempty"`
	Leaderboard models.Leaderboard `json:"leaderboard,omitempty"`
}

type Handler struct {
	ledger   ScoreLedger
	prompter NamePrompter
	logger   *zap.Logger
}

func NewHandler(l ScoreLedger, prompter NamePrompter, logger *zap.Logger) *Handler {
	if prompter == nil {
		prompter = StaticName(models.DefaultPlayerName)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{ledger: l, prompter: prompter, logger: logger}
}

// Handle processes one update. Messages of another type are ignored.
// Scores that don't qualify are reported but not recorded.
func (h *Handler) Handle(ctx context.Context, msg models.ScoreUpdate) (Outcome, error) {
	if msg.Type != "" && msg.Type != models.ScoreUpdateType {
		return Outcome{Game: msg.Game, Ignored: true}, nil
	}
	if msg.Game == "" {
		return Outcome{}, ErrMissingGame
	}

	score, err := ledger.ParseScore(msg.Score)
	if err != nil {
		return Outcome{Game: msg.Game}, err
	}
	outcome := Outcome{Game: msg.Game, Score: score}

	if !h.ledger.Qualifies(ctx, msg.Game, score) {
		h.logger.Debug("Score did not qualify", zap.String("game", msg.Game), zap.Int64("score", score))
		return outcome, nil
	}
	outcome.Qualified = true

	name := msg.PlayerName
	if name == "" {
		name, err = h.prompter.PromptName(ctx, msg.Game, score)
		if err != nil {
			return outcome, fmt.Errorf("prompt for name: %w", err)
		}
		if name == "" {
			h.logger.Info("Player declined to enter a name", zap.String("game", msg.Game))
			return outcome, nil
		}
	}

	board, err := h.ledger.Record(ctx, msg.Game, name, score)
	if err != nil {
		return outcome, err
	}
	outcome.Recorded = true
	outcome.Name = name
	outcome.Leaderboard = board
	return outcome, nil
}
