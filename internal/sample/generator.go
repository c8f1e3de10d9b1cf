package sample

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"dump-migrate/internal/pgcopy"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

const timestampLayout = "2006-01-02 15:04:05.000000-07"

// Options controls a generated dump. The same seed always yields the same text.
type Options struct {
	Rows      int      // rows per table
	Seed      int64
	LegacyIDs []string // used as the first user_profiles ids
}

type Generator struct {
	opts   Options
	faker  *gofakeit.Faker
	rnd    *rand.Rand
	pools  map[string][]string // table -> ids generated so far
	window [2]time.Time
}

func NewGenerator(opts Options) *Generator {
	if opts.Rows < 0 {
		opts.Rows = 0
	}
	g := &Generator{
		opts:  opts,
		faker: gofakeit.New(opts.Seed),
		rnd:   rand.New(rand.NewSource(opts.Seed)),
		pools: make(map[string][]string),
		window: [2]time.Time{
			time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	g.pools["company_settings"] = []string{g.newID(), g.newID()}
	return g
}

func (g *Generator) newID() string {
	id, err := uuid.NewRandomFromReader(g.rnd)
	if err != nil {
		// math/rand never fails to read
		panic(err)
	}
	return id.String()
}

// RowCount is the number of rows Rows will produce for t.
func (g *Generator) RowCount(t *Table) int {
	if t.Name == "user_profiles" && len(g.opts.LegacyIDs) > g.opts.Rows {
		return len(g.opts.LegacyIDs)
	}
	return g.opts.Rows
}

// Rows generates COPY encoded data rows for t.
func (g *Generator) Rows(t *Table) [][]string {
	n := g.RowCount(t)
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			v := g.Value(col, t.Name, i)
			if v != pgcopy.NullSentinel {
				v = pgcopy.Escape(v)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows
}

// Value generates one raw (unescaped) value, or the NULL sentinel.
func (g *Generator) Value(col *Column, tableName string, row int) string {
	dataType := strings.ToLower(col.DataType)
	meaning := col.Meaning

	// 1. ids: primary keys are fresh, references come from earlier tables
	if dataType == "uuid" {
		if col.RefTable != "" {
			return g.pick(col.RefTable, tableName, row)
		}
		id := g.newID()
		if tableName == "user_profiles" && row < len(g.opts.LegacyIDs) {
			id = g.opts.LegacyIDs[row]
		}
		if col.IsPK {
			g.pools[tableName] = append(g.pools[tableName], id)
		}
		return id
	}

	if col.IsNullable && g.rnd.Intn(5) == 0 {
		return pgcopy.NullSentinel
	}

	// 2. type driven values
	if strings.Contains(dataType, "bool") {
		if g.faker.Bool() {
			return "t"
		}
		return "f"
	}
	if strings.Contains(dataType, "timestamp") || strings.Contains(dataType, "date") {
		return g.faker.DateRange(g.window[0], g.window[1]).UTC().Format(timestampLayout)
	}

	// 3. text, by meaning
	switch {
	case strings.Contains(meaning, "email"):
		return g.faker.Email()
	case strings.Contains(meaning, "full name"):
		return g.faker.Name()
	case strings.Contains(meaning, "first name"):
		return g.faker.FirstName()
	case strings.Contains(meaning, "last name"):
		return g.faker.LastName()
	case strings.Contains(meaning, "phone"):
		return g.faker.Phone()
	case strings.Contains(meaning, "address"):
		return g.faker.Street() + "\n" + g.faker.Zip() + " " + g.faker.City()
	case strings.Contains(meaning, "role"):
		return g.faker.RandomString([]string{"admin", "member", "viewer"})
	case strings.Contains(meaning, "notes"), strings.Contains(meaning, "description"),
		strings.Contains(meaning, "text"), strings.Contains(meaning, "message"):
		return g.note()
	}
	return g.faker.Word()
}

// pick draws a referenced id. Members cycle through every user before moving
// on to the next company, so legacy users share a company once collapsed.
func (g *Generator) pick(refTable, tableName string, row int) string {
	pool := g.pools[refTable]
	if len(pool) == 0 {
		return g.newID()
	}
	if refTable == "company_settings" && tableName == "company_members" {
		users := len(g.pools["user_profiles"])
		if users == 0 {
			users = 1
		}
		return pool[(row/users)%len(pool)]
	}
	return pool[row%len(pool)]
}

// note is free text carrying the characters COPY has to escape.
func (g *Generator) note() string {
	var b strings.Builder
	b.WriteString(g.faker.Sentence(6))
	if g.rnd.Intn(2) == 0 {
		b.WriteString("\n" + g.faker.Sentence(4))
	}
	if g.rnd.Intn(3) == 0 {
		b.WriteString("\t(ref " + g.faker.Word() + ")")
	}
	if g.rnd.Intn(4) == 0 {
		b.WriteString(` C:\Plans\` + g.faker.Word())
	}
	if g.rnd.Intn(3) == 0 {
		b.WriteString(" it's " + g.faker.Adjective())
	}
	return b.String()
}

// Dump renders a complete pg_dump style text file for all tables.
func (g *Generator) Dump() string {
	token := g.faker.LetterN(32)
	var b strings.Builder

	fmt.Fprintf(&b, "\\restrict %s\n\n", token)
	b.WriteString("--\n-- PostgreSQL database dump\n--\n\n")
	b.WriteString("SET statement_timeout = 0;\n")
	b.WriteString("SET client_encoding = 'UTF8';\n")
	b.WriteString("SET standard_conforming_strings = on;\n")
	b.WriteString("SELECT pg_catalog.set_config('search_path', '', false);\n\n")

	tables := Tables()
	for _, t := range tables {
		writeDDL(&b, t)
	}
	for _, t := range tables {
		fmt.Fprintf(&b, "--\n-- Data for Name: %s; Type: TABLE DATA; Schema: %s; Owner: -\n--\n\n", t.Name, pgcopy.DefaultSchema)
		fmt.Fprintf(&b, "COPY %s.%s (%s) FROM stdin;\n", pgcopy.DefaultSchema, t.Name, strings.Join(t.ColumnNames(), ", "))
		for _, row := range g.Rows(t) {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
		b.WriteString(pgcopy.Terminator + "\n\n\n")
	}

	b.WriteString("--\n-- PostgreSQL database dump complete\n--\n\n")
	fmt.Fprintf(&b, "\\unrestrict %s\n\n", token)
	return b.String()
}

func writeDDL(b *strings.Builder, t *Table) {
	fmt.Fprintf(b, "CREATE TABLE %s.%s (\n", pgcopy.DefaultSchema, t.Name)
	for i, c := range t.Columns {
		fmt.Fprintf(b, "    %s %s", c.Name, c.DataType)
		if !c.IsNullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(t.Columns)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(");\n\n")
}
