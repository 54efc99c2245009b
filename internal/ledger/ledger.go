package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/arcade-highscore-ledger/internal/interfaces"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/models"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/models/events"
)

const (
	// DefaultNamespace prefixes every store key: <namespace>_<game>
	DefaultNamespace = "arcade_highscores"
	// DefaultMaxScores is how many entries a leaderboard keeps
	DefaultMaxScores = 5
)

// DefaultGames are the games the arcade menu ships with
var DefaultGames = []string{"tetris", "pole-position", "monaco-gp", "frogger"}

// Ledger keeps one bounded, ranked leaderboard per game in a key-value store.
// Every mutation is written through to the store immediately and nothing is
// cached between calls.
//
// Writes to the same game from this process are serialized. Writers in
// other processes sharing the store are not coordinated: a concurrent
// Record from elsewhere can be lost.
type Ledger struct {
	store       interfaces.LedgerStore    // where encoded leaderboards live
	publisher   interfaces.EventPublisher // receives ScoreRecorded events
	logger      *zap.Logger
	namespace   string
	games       []string
	maxScores   int
	eventsTopic string
	now         func() time.Time

	muMap   map[string]*sync.Mutex // one *sync.Mutex per known game, fixed after NewLedger
	otherMu sync.Mutex             // shared by every game outside the known set
}

// NewLedger is a constructor function that creates a new Ledger instance
// We pass in a storage implementation (MemoryLedgerStore, Postgres, SQLite)
func NewLedger(store interfaces.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:       store,
		publisher:   interfaces.NopPublisher{},
		logger:      zap.NewNop(),
		namespace:   DefaultNamespace,
		games:       append([]string(nil), DefaultGames...),
		maxScores:   DefaultMaxScores,
		eventsTopic: events.TopicScoreRecorded,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.muMap = make(map[string]*sync.Mutex, len(l.games))
	known := l.games[:0]
	for _, game := range l.games {
		if _, dup := l.muMap[game]; dup {
			continue
		}
		l.muMap[game] = &sync.Mutex{}
		known = append(known, game)
	}
	l.games = known
	return l
}

// Games returns the known game identifiers, in menu order.
func (l *Ledger) Games() []string {
	return append([]string(nil), l.games...)
}

func (l *Ledger) MaxScores() int {
	return l.maxScores
}

func (l *Ledger) key(game string) string {
	return l.namespace + "_" + game
}

// getGameLock never allocates, so arbitrary game ids can't grow the map.
func (l *Ledger) getGameLock(game string) *sync.Mutex {
	if mu, exists := l.muMap[game]; exists {
		return mu
	}
	return &l.otherMu
}

// GetLeaderboard returns the stored board for game. Missing, unreadable or
// corrupt data all come back as an empty board.
func (l *Ledger) GetLeaderboard(ctx context.Context, game string) models.Leaderboard {
	raw, exists, err := l.store.Get(ctx, l.key(game))
	if err != nil {
		l.logger.Warn("Reading leaderboard failed", zap.String("game", game), zap.Error(err))
		return models.Leaderboard{}
	}
	if !exists {
		return models.Leaderboard{}
	}

	var board models.Leaderboard
	if err := json.Unmarshal(raw, &board); err != nil {
		l.logger.Warn("Discarding corrupt leaderboard", zap.String("game", game), zap.Error(err))
		return models.Leaderboard{}
	}
	if board == nil {
		return models.Leaderboard{}
	}
	return board
}

// Record adds a score for game and returns the resulting top entries.
// An empty name is stored as models.DefaultPlayerName. A new entry ranks
// below existing entries with the same score.
func (l *Ledger) Record(ctx context.Context, game, name string, score int64) (models.Leaderboard, error) {
	board, entry, rank, err := l.record(ctx, game, name, score)
	if err != nil {
		return nil, err
	}

	// published outside the game lock so a slow broker doesn't block writers
	l.publishRecorded(ctx, game, entry, rank, board)
	return board.Clone(), nil
}

func (l *Ledger) record(ctx context.Context, game, name string, score int64) (models.Leaderboard, models.ScoreEntry, int, error) {

	mu := l.getGameLock(game)
	mu.Lock()
	defer mu.Unlock()

	current := l.GetLeaderboard(ctx, game)
	entry := models.NewScoreEntry(name, score, l.now())

	// stable sort puts the new entry after every existing score >= its own
	rank := 1
	for _, existing := range current {
		if existing.Score >= score {
			rank++
		}
	}
	if rank > l.maxScores {
		rank = 0
	}

	board := l.normalize(append(current, entry))
	if err := l.save(ctx, game, board); err != nil {
		return nil, entry, 0, fmt.Errorf("record score for %s: %w", game, err)
	}

	l.logger.Info("Score recorded",
		zap.String("game", game),
		zap.String("name", entry.Name),
		zap.Int64("score", score),
		zap.Int("rank", rank))
	return board, entry, rank, nil
}

// TopScore returns the rank 1 score for game, or 0 when it has none.
func (l *Ledger) TopScore(ctx context.Context, game string) int64 {
	return l.GetLeaderboard(ctx, game).TopScore()
}

// Qualifies reports whether score would enter game's current board: either
// the board has a free slot, or score beats the last ranked entry outright.
func (l *Ledger) Qualifies(ctx context.Context, game string, score int64) bool {
	board := l.GetLeaderboard(ctx, game)
	if len(board) < l.maxScores {
		return true
	}
	return score > board[l.maxScores-1].Score
}

// Clear removes everything stored for game.
func (l *Ledger) Clear(ctx context.Context, game string) error {

	mu := l.getGameLock(game)
	mu.Lock()
	defer mu.Unlock()

	if err := l.store.Delete(ctx, l.key(game)); err != nil {
		return fmt.Errorf("clear %s: %w", game, err)
	}
	l.logger.Info("Leaderboard cleared", zap.String("game", game))
	return nil
}

// SeedDefaults installs seeds[game] for every known game whose board is
// empty. Boards that already hold entries are never touched, so this is
// safe to run on every start.
func (l *Ledger) SeedDefaults(ctx context.Context, seeds map[string]models.Leaderboard) error {
	for _, game := range l.games {
		seed, ok := seeds[game]
		if !ok || len(seed) == 0 {
			continue
		}
		if err := l.seedGame(ctx, game, seed); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) seedGame(ctx context.Context, game string, seed models.Leaderboard) error {

	mu := l.getGameLock(game)
	mu.Lock()
	defer mu.Unlock()

	if len(l.GetLeaderboard(ctx, game)) > 0 {
		return nil
	}
	if err := l.save(ctx, game, seed); err != nil {
		return fmt.Errorf("seed %s: %w", game, err)
	}
	l.logger.Debug("Seeded leaderboard", zap.String("game", game), zap.Int("entries", len(seed)))
	return nil
}

// Export serializes the board of every known game into one JSON object.
// Output depends only on store contents: keys are sorted and empty boards
// are written as [].
func (l *Ledger) Export(ctx context.Context) ([]byte, error) {
	all := make(map[string]models.Leaderboard, len(l.games))
	for _, game := range l.games {
		all[game] = l.GetLeaderboard(ctx, game)
	}
	return json.MarshalIndent(all, "", "  ")
}

// Import replaces boards with the ones in blob, a JSON object of game to
// entries as produced by Export. Any game key is accepted. Boards are
// re-ranked and truncated before they are written; an empty board clears
// the game.
//
// It returns false without writing anything when blob does not parse.
// A non-nil error means the store rejected the writes.
func (l *Ledger) Import(ctx context.Context, blob []byte) (bool, error) {
	var all map[string]models.Leaderboard
	if err := json.Unmarshal(blob, &all); err != nil || all == nil {
		l.logger.Warn("Rejecting score import", zap.Error(err))
		return false, nil
	}

	sets := make(map[string][]byte, len(all))
	var deletes []string
	for game, board := range all {
		board = l.normalize(board)
		if len(board) == 0 {
			deletes = append(deletes, l.key(game))
			continue
		}
		data, err := json.Marshal(board)
		if err != nil {
			return false, err
		}
		sets[l.key(game)] = data
	}

	for _, mu := range l.importLocks(all) {
		mu.Lock()
		defer mu.Unlock()
	}

	if err := l.writeBatch(ctx, sets, deletes); err != nil {
		return false, fmt.Errorf("import scores: %w", err)
	}
	l.logger.Info("Scores imported", zap.Int("games", len(all)))
	return true, nil
}

// importLocks returns the locks covering games, each once, in a fixed
// order (known games in menu order, then the shared lock) to avoid deadlocks.
func (l *Ledger) importLocks(games map[string]models.Leaderboard) []*sync.Mutex {
	var locks []*sync.Mutex
	for _, game := range l.games {
		if _, ok := games[game]; ok {
			locks = append(locks, l.muMap[game])
		}
	}
	for game := range games {
		if _, known := l.muMap[game]; !known {
			locks = append(locks, &l.otherMu)
			break
		}
	}
	return locks
}

func (l *Ledger) writeBatch(ctx context.Context, sets map[string][]byte, deletes []string) error {
	if batch, ok := l.store.(interfaces.BatchStore); ok {
		return batch.SetMany(ctx, sets, deletes)
	}
	for key, value := range sets {
		if err := l.store.Set(ctx, key, value); err != nil {
			return err
		}
	}
	for _, key := range deletes {
		if err := l.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// normalize ranks board best first, keeping insertion order among equal
// scores, drops everything past maxScores and fills in missing names.
func (l *Ledger) normalize(board models.Leaderboard) models.Leaderboard {
	ranked := board.Clone()
	for i := range ranked {
		if ranked[i].Name == "" {
			ranked[i].Name = models.DefaultPlayerName
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > l.maxScores {
		ranked = ranked[:l.maxScores]
	}
	return ranked
}

func (l *Ledger) save(ctx context.Context, game string, board models.Leaderboard) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return l.store.Set(ctx, l.key(game), data)
}

func (l *Ledger) publishRecorded(ctx context.Context, game string, entry models.ScoreEntry, rank int, board models.Leaderboard) {
	event := events.ScoreRecorded{
		EventID:    uuid.NewString(),
		Game:       game,
		Name:       entry.Name,
		Score:      entry.Score,
		Rank:       rank,
		TopScore:   board.TopScore(),
		OccurredAt: entry.AchievedAt,
	}
	// the score is already stored; a lost event is only logged
	if err := l.publisher.Publish(ctx, l.eventsTopic, game, event); err != nil {
		l.logger.Warn("Publishing score event failed", zap.String("game", game), zap.Error(err))
	}
}
