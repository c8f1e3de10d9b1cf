package pgcopy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// DefaultSchema is the only schema pg_dump uses for application tables in our backups.
const DefaultSchema = "public"

// Header describes the opening line of a COPY block.
type Header struct {
	Schema  string
	Table   string
	Columns []string // unquoted, in header order
}

// HeaderParser recognizes `COPY <schema>.<table> (<cols>) FROM stdin;` lines
// for one fixed schema. Keywords are matched case-sensitively.
type HeaderParser struct {
	schema string
	re     *regexp.Regexp
}

func NewHeaderParser(schema string) *HeaderParser {
	if schema == "" {
		schema = DefaultSchema
	}
	return &HeaderParser{
		schema: schema,
		re:     regexp.MustCompile(`^COPY ` + regexp.QuoteMeta(schema) + `\.([\p{L}\p{N}_]+)\s*\(([^)]+)\)\s+FROM stdin;`),
	}
}

var defaultParser = NewHeaderParser(DefaultSchema)

// ParseHeader is NewHeaderParser(DefaultSchema).Parse.
func ParseHeader(line string) (Header, bool) {
	return defaultParser.Parse(line)
}

// Parse reports whether line opens a COPY block and, if so, what it copies.
// A non-match is not an error: most dump lines are not headers.
func (p *HeaderParser) Parse(line string) (Header, bool) {
	m := p.re.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Header{}, false
	}

	parts := strings.Split(m[2], ",")
	cols := make([]string, 0, len(parts))
	for _, c := range parts {
		cols = append(cols, unquoteIdent(strings.TrimSpace(c)))
	}
	return Header{Schema: p.schema, Table: m[1], Columns: cols}, true
}

// unquoteIdent strips one layer of double quotes, e.g. "time" -> time.
func unquoteIdent(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return strings.TrimSuffix(strings.TrimPrefix(s, `"`), `"`)
}

// InsertStatement builds the single-line INSERT for one row of a COPY block.
// values must already be SQL literals (see QuoteLiteral).
func InsertStatement(h Header, values []string) string {
	cols := make([]string, len(h.Columns))
	for i, c := range h.Columns {
		cols[i] = pq.QuoteIdentifier(c)
	}
	return fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES (%s);",
		h.Schema, h.Table, strings.Join(cols, ", "), strings.Join(values, ", "))
}
