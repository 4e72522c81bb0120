package classifier

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryWork             Category = "work"
	CategoryLocalSuggestions Category = "local_suggestions"
	CategoryGeneralQuestions Category = "general_questions"
	CategoryOther            Category = "other"
)

// Fallback is reported when no category scores above zero.
const Fallback = CategoryOther

// categories is the closed enumeration in priority order. Ties are won by
// the category listed first.
var categories = []Category{
	CategoryWork,
	CategoryLocalSuggestions,
	CategoryGeneralQuestions,
	CategoryOther,
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}
