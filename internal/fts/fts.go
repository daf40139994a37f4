// Package fts turns free-form user input into safe SQLite FTS5 match expressions.
package fts

import (
	"regexp"
	"strings"
)

var (
	unsafeChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Sanitize replaces every character outside word characters, whitespace and
// hyphen with a space, collapses whitespace runs and trims the result.
func Sanitize(raw string) string {
	cleaned := unsafeChars.ReplaceAllString(raw, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(cleaned, " "))
}

// MatchExpression builds the prefix-matching FTS5 query for raw.
//
// For plain words the result is Sanitize(raw) + "*". Tokens that FTS5 would
// parse as syntax are double-quoted: anything containing '-' and boolean
// keywords that have no operand on one side. An empty string means there is
// nothing to search for.
func MatchExpression(raw string) string {
	var tokens []string
	for _, tok := range strings.Split(Sanitize(raw), " ") {
		if strings.Trim(tok, "-") == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return ""
	}

	quoted := make([]string, len(tokens))
	last := len(tokens) - 1
	for i, tok := range tokens {
		switch {
		case strings.Contains(tok, "-"):
			quoted[i] = `"` + tok + `"`
		case isOperator(tok) && (i == 0 || i == last || isOperator(tokens[i-1]) || isOperator(tokens[i+1])):
			quoted[i] = `"` + tok + `"`
		default:
			quoted[i] = tok
		}
	}
	return strings.Join(quoted, " ") + "*"
}

func isOperator(tok string) bool {
	switch tok {
	case "AND", "OR", "NOT":
		return true
	}
	return false
}
