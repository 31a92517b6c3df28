package pipeline

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`\w+`)

// Keywords is the fixed relevance set entries are matched against. The
// match is a case-insensitive intersection on whole words, so "corona"
// does not match "coronation" but does match "Corona," with punctuation.
type Keywords struct {
	set map[string]struct{}
}

func NewKeywords(words []string) *Keywords {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &Keywords{set: set}
}

// Match reports whether any word of the text is in the keyword set.
func (k *Keywords) Match(text string) bool {
	for _, word := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, ok := k.set[word]; ok {
			return true
		}
	}
	return false
}
