package prune

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Rule describes which INSERTs into one table count as duplicates.
//
// With no key positions the whole table is the key, so only the first
// INSERT survives. Otherwise the key is made of the quoted literals at the
// given 1-based positions of the VALUES clause; NULLs and other unquoted
// values are not counted as positions.
type Rule struct {
	Schema string `mapstructure:"schema"`
	Table  string `mapstructure:"table"`
	Key    []int  `mapstructure:"key"`
}

func (r Rule) String() string {
	name := r.qualifiedName()
	if len(r.Key) == 0 {
		return name + " (single row)"
	}
	return fmt.Sprintf("%s (key literals %v)", name, r.Key)
}

func (r Rule) qualifiedName() string {
	schema := r.Schema
	if schema == "" {
		schema = "public"
	}
	return schema + "." + r.Table
}

// pattern matches one statement plus the whitespace after it. The column
// list is optional so both --inserts and --column-inserts output match.
func (r Rule) pattern() *regexp.Regexp {
	return regexp.MustCompile(`INSERT INTO ` + regexp.QuoteMeta(r.qualifiedName()) +
		`\s*(?:\([^)]*\)\s*)?VALUES\s*\(([^;]*)\);\s*`)
}

// Result reports what one rule did.
type Result struct {
	Rule    Rule
	Matched int
	Removed int
}

type span struct{ start, end int }

// Prune deletes the INSERT statements that repeat an earlier statement's key.
// The first statement in document order wins. Matching runs once against the
// original content and the surviving text is left byte-for-byte intact.
func Prune(content string, rules []Rule) (string, []Result) {
	results := make([]Result, 0, len(rules))
	var drop []span

	for _, r := range rules {
		res := Result{Rule: r}
		seen := make(map[string]bool)

		for _, m := range r.pattern().FindAllStringSubmatchIndex(content, -1) {
			res.Matched++
			key, ok := keyOf(content[m[2]:m[3]], r.Key)
			if !ok {
				continue
			}
			if !seen[key] {
				seen[key] = true
				continue
			}
			drop = append(drop, span{m[0], m[1]})
			res.Removed++
		}
		results = append(results, res)
	}

	return cut(content, drop), results
}

// keyOf joins the literals at the wanted positions. It reports false when
// the statement has fewer literals than a position asks for; such a
// statement is never treated as a duplicate.
func keyOf(values string, positions []int) (string, bool) {
	if len(positions) == 0 {
		return "", true
	}
	lits := quotedLiterals(values)
	parts := make([]string, len(positions))
	for i, p := range positions {
		if p < 1 || p > len(lits) {
			return "", false
		}
		parts[i] = lits[p-1]
	}
	return strings.Join(parts, "\x00"), true
}

// quotedLiterals returns the contents of every '...' literal in order.
// A doubled quote inside a literal is part of the literal.
func quotedLiterals(s string) []string {
	var lits []string
	for i := 0; i < len(s); i++ {
		if s[i] != '\'' {
			continue
		}
		var b strings.Builder
		j := i + 1
		for ; j < len(s); j++ {
			if s[j] != '\'' {
				b.WriteByte(s[j])
				continue
			}
			if j+1 < len(s) && s[j+1] == '\'' {
				b.WriteByte('\'')
				j++
				continue
			}
			break
		}
		lits = append(lits, b.String())
		i = j
	}
	return lits
}

func cut(content string, drop []span) string {
	if len(drop) == 0 {
		return content
	}
	sort.Slice(drop, func(i, j int) bool { return drop[i].start < drop[j].start })

	var b strings.Builder
	b.Grow(len(content))
	pos := 0
	for _, s := range drop {
		if s.start < pos {
			// overlaps a span already removed
			if s.end > pos {
				pos = s.end
			}
			continue
		}
		b.WriteString(content[pos:s.start])
		pos = s.end
	}
	b.WriteString(content[pos:])
	return b.String()
}
