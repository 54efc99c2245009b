package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidScore is returned when a reported score is not a number.
var ErrInvalidScore = errors.New("invalid score")

var (
	maxScore = decimal.NewFromInt(math.MaxInt64)
	minScore = decimal.NewFromInt(math.MinInt64)
)

// ParseScore turns a score as reported by a game (JSON number, numeric
// string, Go integer) into an integer score. Fractions are truncated
// toward zero. Anything that is not a finite number is ErrInvalidScore.
func ParseScore(v any) (int64, error) {
	switch s := v.(type) {
	case int:
		return int64(s), nil
	case int32:
		return int64(s), nil
	case int64:
		return s, nil
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidScore, s)
		}
		return fromDecimal(decimal.NewFromFloat(s), v)
	case json.Number:
		return parseScoreString(string(s))
	case string:
		return parseScoreString(s)
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidScore, v)
	}
}

func parseScoreString(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidScore)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, s)
	}
	return fromDecimal(d, s)
}

func fromDecimal(d decimal.Decimal, orig any) (int64, error) {
	d = d.Truncate(0)
	if d.GreaterThan(maxScore) || d.LessThan(minScore) {
		return 0, fmt.Errorf("%w: %v out of range", ErrInvalidScore, orig)
	}
	return d.IntPart(), nil
}
