package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"dump-migrate/internal/dumpfile"
	"dump-migrate/internal/pgcopy"
	"dump-migrate/internal/transcode"

	"github.com/gosuri/uiprogress"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func newInsertsCmd(v *viper.Viper) *cobra.Command {
	var progress bool

	cmd := &cobra.Command{
		Use:   "inserts [input]",
		Short: "Convert COPY blocks of a pg_dump file into INSERT statements",
		Long: `Reads a plain-text pg_dump backup and writes it back with every
COPY ... FROM stdin block replaced by one INSERT per row. psql meta-commands
such as \restrict are dropped. Output goes to stdout unless --output is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := v.GetString("inserts.input")
			if len(args) > 0 {
				input = args[0]
			}
			output := v.GetString("inserts.output")

			lines, err := dumpfile.ReadLines(input)
			if err != nil {
				return err
			}
			log.Debugf("Read %d lines from %s", len(lines), input)

			opts := transcode.Options{Schema: v.GetString("inserts.schema")}

			// Progress Bar (stderr only, stdout may carry the SQL)
			showBar := progress || (output != "" && term.IsTerminal(int(os.Stderr.Fd())))
			var p *uiprogress.Progress
			if showBar && len(lines) > 0 {
				p = uiprogress.New()
				p.SetOut(os.Stderr)
				bar := p.AddBar(len(lines)).AppendCompleted().PrependElapsed()
				bar.PrependFunc(func(b *uiprogress.Bar) string {
					return "Converting: "
				})
				opts.OnLine = func() { bar.Incr() }
				p.Start()
			}

			out, st := transcode.Transcode(lines, opts)

			if p != nil {
				p.Stop()
			}

			if err := writeOutput(cmd.OutOrStdout(), output, out); err != nil {
				return err
			}

			entry := log.WithFields(log.Fields{
				"blocks":     st.Blocks,
				"statements": st.Statements,
				"meta":       st.MetaCommands,
			})
			if st.Dropped > 0 || st.Unterminated > 0 {
				entry.WithFields(log.Fields{
					"dropped":      st.Dropped,
					"unterminated": st.Unterminated,
				}).Warn("Some COPY data could not be converted")
			}
			entry.Infof("Converted %s", input)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().String("schema", pgcopy.DefaultSchema, "schema of the COPY blocks to convert")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar on stderr")

	v.BindPFlag("inserts.output", cmd.Flags().Lookup("output"))
	v.BindPFlag("inserts.schema", cmd.Flags().Lookup("schema"))
	return cmd
}

func writeOutput(stdout io.Writer, path string, lines []string) error {
	if path == "" {
		w := bufio.NewWriter(stdout)
		if err := dumpfile.WriteLines(w, lines); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return w.Flush()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := dumpfile.WriteLines(w, lines); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
