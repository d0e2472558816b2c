package db

import (
	"fmt"
	"strings"
)

// Dialect describes the token substitutions needed to turn a canonical
// statement (written for the embedded sqlite backend) into one the target
// backend accepts. Translation is a pure string mapping; no backend is
// derived by patching another's output.
type Dialect struct {
	Name string

	// NumberedPlaceholders rewrites every `?` to `$1..$N`.
	NumberedPlaceholders bool

	// AutoIncrement replaces the canonical auto-increment key clause.
	AutoIncrement string

	// Quote is the identifier quoting rune.
	Quote rune

	// Reserved lists identifiers that must always be quoted on this backend.
	Reserved map[string]bool
}

// canonical auto-increment clause as written in the schema statements.
const autoIncrementClause = "INTEGER PRIMARY KEY AUTOINCREMENT"

var SQLite = Dialect{
	Name:          "sqlite",
	AutoIncrement: autoIncrementClause,
	Quote:         '"',
}

var Postgres = Dialect{
	Name:                 "postgres",
	NumberedPlaceholders: true,
	AutoIncrement:        "BIGSERIAL PRIMARY KEY",
	Quote:                '"',
	Reserved: map[string]bool{
		"user":  true,
		"order": true,
		"group": true,
	},
}

// Translate maps a canonical statement into this dialect. Placeholder
// rewriting skips string literals and quoted identifiers.
func (d Dialect) Translate(stmt string) string {
	if d.AutoIncrement != autoIncrementClause {
		stmt = strings.ReplaceAll(stmt, autoIncrementClause, d.AutoIncrement)
	}
	if len(d.Reserved) > 0 {
		stmt = d.quoteReserved(stmt)
	}
	if d.NumberedPlaceholders {
		stmt = numberPlaceholders(stmt)
	}
	return stmt
}

func numberPlaceholders(stmt string) string {
	var b strings.Builder
	b.Grow(len(stmt) + 8)
	n := 0
	inSingle, inDouble := false, false
	for _, r := range stmt {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case r == '?' && !inSingle && !inDouble:
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) quoteReserved(stmt string) string {
	var b strings.Builder
	b.Grow(len(stmt))
	var word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		if d.Reserved[strings.ToLower(w)] {
			b.WriteRune(d.Quote)
			b.WriteString(w)
			b.WriteRune(d.Quote)
		} else {
			b.WriteString(w)
		}
		word.Reset()
	}
	inSingle, inDouble := false, false
	for _, r := range stmt {
		if inSingle || inDouble {
			b.WriteRune(r)
			if r == '\'' {
				inSingle = false
			} else if r == '"' {
				inDouble = false
			}
			continue
		}
		switch {
		case r == '\'':
			flush()
			inSingle = true
			b.WriteRune(r)
		case r == '"':
			flush()
			inDouble = true
			b.WriteRune(r)
		case isWordRune(r):
			word.WriteRune(r)
		default:
			flush()
			b.WriteRune(r)
		}
	}
	flush()
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
