// Package flatlist implements the flat-string list encoding used to carry
// variable-length lists of column names and values across a call boundary
// that can only pass scalar arguments. Tokens are joined with "," and there
// is no escaping or quoting: a token containing a comma corrupts the decode.
// That limitation is inherited from the wire format and is deliberately
// preserved; callers are responsible for keeping separators out of tokens.
package flatlist

import "strings"

// Separator is the single token delimiter of the wire format.
const Separator = ","

// Split decodes a flat list into its ordered tokens. No trimming is applied
// and empty tokens between adjacent separators are preserved. An empty input
// decodes to an empty list rather than a single empty token.
func Split(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, Separator)
}

// Join encodes an ordered token list into a flat list string. It is the
// inverse of Split provided no token contains the separator.
func Join(tokens []string) string {
	return strings.Join(tokens, Separator)
}

// InsertClauses builds the column and placeholder fragments for an INSERT
// statement: for ["id", "name"] it returns "id, name" and "?, ?". Column
// names are interpolated verbatim; they are never bound as parameters.
func InsertClauses(columns []string) (colClause string, placeholderClause string) {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "?"
	}
	return strings.Join(columns, ", "), strings.Join(placeholders, ", ")
}
