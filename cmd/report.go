package cmd

import (
	"fmt"
	"io"

	"dump-migrate/internal/prune"
	"dump-migrate/internal/uuidswap"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/samber/lo"
)

func addHeader(table *uitable.Table, cols ...string) {
	headerfmt := color.New(color.FgGreen, color.Underline).SprintFunc()
	columns := lo.Map(cols, func(col string, _ int) interface{} {
		return headerfmt(col)
	})
	table.AddRow(columns...)
}

func noteString(msg string) string {
	return color.YellowString(msg)
}

// printReplaceReport lists the per-id replacement counts, the total and,
// when pruning ran, what each rule removed.
func printReplaceReport(w io.Writer, res uuidswap.Result, pruned []prune.Result) {
	table := uitable.New()
	table.MaxColWidth = 60

	addHeader(table, "SOURCE ID", "REPLACED")
	for _, c := range res.Counts {
		table.AddRow(c.Source, c.Replaced)
	}
	table.AddRow("TOTAL", res.Total)
	fmt.Fprintln(w, table)

	if len(pruned) == 0 {
		return
	}

	table = uitable.New()
	addHeader(table, "RULE", "MATCHED", "REMOVED")
	for _, p := range pruned {
		table.AddRow(p.Rule.String(), p.Matched, p.Removed)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, table)

	removed := lo.SumBy(pruned, func(p prune.Result) int { return p.Removed })
	fmt.Fprintf(w, "Removed %d duplicate statements\n", removed)
}
