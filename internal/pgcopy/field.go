package pgcopy

import "strings"

const (
	// NullSentinel marks a SQL NULL inside COPY text data.
	NullSentinel = `\N`
	// Terminator ends a COPY block when it stands alone on a line.
	Terminator = `\.`
)

// Unescape decodes the backslash escapes of a single COPY text field.
// Only \\, \n, \t and \r are translated; any other escape pair is kept as is.
// Empty fields and the NULL sentinel are returned unchanged.
func Unescape(field string) string {
	if field == "" || field == NullSentinel {
		return field
	}
	if !strings.Contains(field, `\`) {
		return field
	}

	var b strings.Builder
	b.Grow(len(field))
	for i := 0; i < len(field); {
		c := field[i]
		if c != '\\' || i+1 == len(field) {
			b.WriteByte(c)
			i++
			continue
		}

		switch next := field[i+1]; next {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte('\\')
			b.WriteByte(next)
		}
		i += 2
	}
	return b.String()
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// Escape is the inverse of Unescape for the characters it understands.
// It is what pg_dump applies when writing a text value into a COPY row.
func Escape(value string) string {
	return escaper.Replace(value)
}

// QuoteLiteral renders a raw COPY field as a SQL literal for a VALUES clause.
// The NULL sentinel becomes the bare NULL keyword.
func QuoteLiteral(field string) string {
	if field == NullSentinel {
		return "NULL"
	}
	s := strings.ReplaceAll(Unescape(field), "'", "''")
	return "'" + s + "'"
}
