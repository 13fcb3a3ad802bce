package interpreter

import (
	"fmt"
	"strings"
	"unicode"
)

// Matcher reports whether lower-cased text contains any of the phrases.
type Matcher interface {
	Match(text string, phrases []string) bool
}

// SubstringMatcher matches a phrase anywhere in the text, including inside
// other words ("undone" matches "done").
type SubstringMatcher struct{}

func (SubstringMatcher) Match(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// TokenMatcher matches a phrase only as a run of whole words. Punctuation is
// ignored on both sides, so "medicine taken?" matches "Medicine taken ?".
type TokenMatcher struct{}

func (TokenMatcher) Match(text string, phrases []string) bool {
	words := tokenize(text)
	for _, p := range phrases {
		if containsRun(words, tokenize(p)) {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsRun(words, run []string) bool {
	if len(run) == 0 {
		return false
	}
outer:
	for i := 0; i+len(run) <= len(words); i++ {
		for j := range run {
			if words[i+j] != run[j] {
				continue outer
			}
		}
		return true
	}
	return false
}

// Match modes accepted by MatcherFor.
const (
	ModeSubstring = "substring"
	ModeToken     = "token"
)

// MatcherFor returns the matcher for a configured mode.
func MatcherFor(mode string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeSubstring:
		return SubstringMatcher{}, nil
	case ModeToken:
		return TokenMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown match mode %q", mode)
	}
}
