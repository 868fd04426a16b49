package extract

import (
	"sort"
	"strings"
	"unicode"
)

const minKeywordLen = 3

var stopWords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
		the and for are but not you all any can had her was one our out
		has him his how its may new now old see two way who did get let
		put say she too use with this that from they will been have into
		more than then them these those their there what when where which
		while your about after also each other some such only over both
		very just should would could must here were does done using used
		because between before through during without within following
	`) {
		stopWords[w] = true
	}
}

// keywords ranks the words of prose and headings by frequency. Heading words
// count twice. Ties break alphabetically.
func keywords(prose, headings []string) []string {
	counts := map[string]int{}
	for _, p := range prose {
		for _, tok := range tokenize(p) {
			counts[tok]++
		}
	}
	for _, h := range headings {
		for _, tok := range tokenize(h) {
			counts[tok] += 2
		}
	}
	if len(counts) == 0 {
		return nil
	}

	out := make([]string, 0, len(counts))
	for w := range counts {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func tokenize(text string) []string {
	parts := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "-_")
		if len([]rune(p)) < minKeywordLen || stopWords[p] || isNumber(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
