package transcode

import (
	"strings"

	"dump-migrate/internal/pgcopy"

	log "github.com/sirupsen/logrus"
)

// Options tunes a Transcode run.
type Options struct {
	Schema string // schema of the COPY headers to convert, "public" when empty
	OnLine func() // called once per consumed input line
}

// Stats counts what happened to the input. Only for reporting.
type Stats struct {
	Lines        int
	Blocks       int
	Statements   int
	Dropped      int // data rows with fewer fields than header columns
	MetaCommands int
	Unterminated int
}

// Transcode rewrites pg_dump text output so every COPY block becomes one
// INSERT statement per row. Other SQL lines are copied through, psql
// meta-commands are dropped. Malformed rows and blocks degrade silently.
func Transcode(lines []string, opts Options) ([]string, Stats) {
	parser := pgcopy.NewHeaderParser(opts.Schema)
	tick := opts.OnLine
	if tick == nil {
		tick = func() {}
	}

	var st Stats
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		// 1. psql meta-commands (\restrict, \connect ...) and stray terminators
		if strings.HasPrefix(trimmed, `\`) {
			if trimmed != pgcopy.Terminator {
				st.MetaCommands++
			}
			i++
			tick()
			continue
		}

		// 2. COPY block
		if h, ok := parser.Parse(line); ok {
			i++
			tick()
			st.Blocks++

			emitted, dropped, terminated := 0, 0, false
			for i < len(lines) {
				data := lines[i]
				i++
				tick()

				t := strings.TrimSpace(data)
				if t == pgcopy.Terminator {
					terminated = true
					break
				}
				if t == "" {
					continue
				}

				stmt, ok := rowStatement(h, data)
				if !ok {
					dropped++
					continue
				}
				out = append(out, stmt)
				emitted++
			}
			out = append(out, "")

			st.Statements += emitted
			st.Dropped += dropped
			if !terminated {
				st.Unterminated++
			}
			log.WithFields(log.Fields{
				"table":   h.Table,
				"rows":    emitted,
				"dropped": dropped,
			}).Debug("converted COPY block")
			continue
		}

		// 3. everything else passes through
		out = append(out, line)
		i++
		tick()
	}

	st.Lines = len(lines)
	return out, st
}

// rowStatement converts one tab separated data line. Fields past the last
// column are ignored; a row with fewer fields than columns fails.
func rowStatement(h pgcopy.Header, data string) (string, bool) {
	fields := strings.Split(data, "\t")
	if len(fields) < len(h.Columns) {
		return "", false
	}
	fields = fields[:len(h.Columns)]
	values := make([]string, len(fields))
	for j, f := range fields {
		values[j] = pgcopy.QuoteLiteral(f)
	}
	return pgcopy.InsertStatement(h, values), true
}
