// Package textnorm canonicalizes free-text answers so that equivalent
// phrasings ("Twenty-Seven!", "27") compare equal.
package textnorm

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60,
	"seventy": 70, "eighty": 80, "ninety": 90,
}

var (
	tensPattern  = "twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety"
	onesPattern  = "one|two|three|four|five|six|seven|eight|nine"
	anyPattern   = alternation(numberWords)
	compoundRe   = regexp.MustCompile(`\b(` + tensPattern + `)-+(` + onesPattern + `)\b`)
	singleRe     = regexp.MustCompile(`\b(` + anyPattern + `)\b`)
	tensTokenRe  = regexp.MustCompile(`^(` + tensPattern + `)$`)
	onesTokenRe  = regexp.MustCompile(`^(` + onesPattern + `)\b`)
	parentheses  = regexp.MustCompile(`\([^)]*\)`)
	punctuation  = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()]")
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// alternation builds a regexp alternation with longer words first so
// "seventeen" is tried before "seven".
func alternation(words map[string]int) string {
	keys := make([]string, 0, len(words))
	for k := range words {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return strings.Join(keys, "|")
}

// Normalize returns the canonical form of text used for answer comparison
// and autocomplete.
//
// One pass lowercases and trims, converts number words to digits, drops
// parenthesised content, replaces punctuation with spaces and collapses
// whitespace. Passes repeat until the output is stable: punctuation removal
// can expose new number words ("thirty_five"), and a fixpoint is what makes
// Normalize idempotent. Every pass that changes anything shortens the string,
// so the loop terminates.
func Normalize(text string) string {
	out := pass(text)
	for {
		next := pass(out)
		if next == out {
			return out
		}
		out = next
	}
}

func pass(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = strings.Join(convertNumbers(strings.Fields(s)), " ")
	s = parentheses.ReplaceAllString(s, "")
	s = punctuation.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// convertNumbers rewrites number words in already lowercased tokens.
// Compounds are recognised both inside a token ("twenty-seven") and across
// two adjacent tokens ("twenty seven"); anything left falls back to the
// standalone word table.
func convertNumbers(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if i+1 < len(tokens) && tensTokenRe.MatchString(tok) {
			if m := onesTokenRe.FindString(tokens[i+1]); m != "" {
				sum := numberWords[tok] + numberWords[m]
				out = append(out, strconv.Itoa(sum)+convertWord(tokens[i+1][len(m):]))
				i++
				continue
			}
		}
		out = append(out, convertWord(tok))
	}
	return out
}

func convertWord(tok string) string {
	tok = compoundRe.ReplaceAllStringFunc(tok, func(m string) string {
		parts := compoundRe.FindStringSubmatch(m)
		return strconv.Itoa(numberWords[parts[1]] + numberWords[parts[2]])
	})
	return singleRe.ReplaceAllStringFunc(tok, func(m string) string {
		return strconv.Itoa(numberWords[m])
	})
}

// Equal reports whether a and b normalize to the same string.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
