// Package checkers provides the concrete guard checkers evaluated by the
// pipeline: secret detection, dangerous-command detection, shell-tool
// suggestions, import-convention checks, search-query enrichment, audit
// logging, auto-formatting, and dependency auditing.
package checkers

import "strings"

// commandTokens splits a shell command into tokens, respecting quoted
// strings. Quotes are kept in the returned tokens, so a flag inside a
// string literal does not match the bare flag token.
func commandTokens(command string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false

	for i := 0; i < len(command); i++ {
		ch := command[i]

		switch ch {
		case '\'':
			if !inDoubleQuote {
				inSingleQuote = !inSingleQuote
			}
			current.WriteByte(ch)
		case '"':
			if !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
			}
			current.WriteByte(ch)
		case ' ', '\t', '\n', '\r':
			if !inSingleQuote && !inDoubleQuote {
				if current.Len() > 0 {
					tokens = append(tokens, current.String())
					current.Reset()
				}
			} else {
				current.WriteByte(ch)
			}
		default:
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
