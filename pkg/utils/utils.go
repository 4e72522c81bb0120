package utils

import (
	"crypto/rand"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// GroupByGap sorts items by time and splits them wherever two consecutive
// items are more than gap apart.
func GroupByGap[T any](items []T, at func(T) time.Time, gap time.Duration) [][]T {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return at(sorted[i]).Before(at(sorted[j]))
	})

	var groups [][]T
	current := []T{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if at(sorted[i]).Sub(at(sorted[i-1])) > gap {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, sorted[i])
	}
	return append(groups, current)
}

// SplitText cuts text into parts of at most limit runes.
func SplitText(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > 0 {
		n := limit
		if len(runes) < n {
			n = len(runes)
		}
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	return parts
}
