package ledger

import (
	"time"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/arcade-highscore-ledger/internal/interfaces"
)

type Option func(*Ledger)

// WithNamespace sets the store key prefix.
func WithNamespace(namespace string) Option {
	return func(l *Ledger) {
		if namespace != "" {
			l.namespace = namespace
		}
	}
}

// WithGames replaces the set of known games used by SeedDefaults and Export.
func WithGames(games []string) Option {
	return func(l *Ledger) {
		if len(games) > 0 {
			l.games = append([]string(nil), games...)
		}
	}
}

// WithMaxScores sets how many entries each board keeps.
func WithMaxScores(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.maxScores = n
		}
	}
}

// WithPublisher sends a ScoreRecorded event to topic after each Record.
func WithPublisher(publisher interfaces.EventPublisher, topic string) Option {
	return func(l *Ledger) {
		if publisher != nil {
			l.publisher = publisher
		}
		if topic != "" {
			l.eventsTopic = topic
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}
