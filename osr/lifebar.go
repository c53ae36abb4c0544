package osr

import (
	"fmt"
	"strconv"
	"strings"
)

// LifePoint is one sample of the life bar graph.
type LifePoint struct {
	Time int64   // milliseconds into the song
	Life float64 // 0 (empty) to 1 (full)
}

// ParseLifeBar parses the "time|life," pairs of Replay.LifeBar. Empty
// entries, including the usual trailing comma, are skipped.
func ParseLifeBar(s string) ([]LifePoint, error) {
	var points []LifePoint
	for i, pair := range strings.Split(s, ",") {
		if pair == "" {
			continue
		}
		t, l, ok := strings.Cut(pair, "|")
		if !ok {
			return nil, fmt.Errorf("%w: entry %d %q has no separator", ErrMalformedLifeBar, i, pair)
		}
		ms, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d time: %v", ErrMalformedLifeBar, i, err)
		}
		life, err := strconv.ParseFloat(l, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d life: %v", ErrMalformedLifeBar, i, err)
		}
		points = append(points, LifePoint{Time: ms, Life: life})
	}
	return points, nil
}

// FormatLifeBar renders points in the layout ParseLifeBar reads, with a
// trailing comma as the game writes it.
func FormatLifeBar(points []LifePoint) string {
	var sb strings.Builder
	for _, p := range points {
		sb.WriteString(strconv.FormatInt(p.Time, 10))
		sb.WriteByte('|')
		sb.WriteString(strconv.FormatFloat(p.Life, 'f', -1, 64))
		sb.WriteByte(',')
	}
	return sb.String()
}
