package cmd

import (
	"fmt"

	"dump-migrate/internal/dumpfile"
	"dump-migrate/internal/prune"
	"dump-migrate/internal/uuidswap"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newReplaceCmd(v *viper.Viper) *cobra.Command {
	var (
		dryRun  bool
		noPrune bool
	)

	cmd := &cobra.Command{
		Use:   "replace-uuid <destination-uuid> [input] [output]",
		Short: "Replace legacy ids with one UUID and drop the rows that become duplicates",
		Long: `Replaces every configured legacy id (replace.sources) in the input file
with the destination UUID, then removes INSERT statements that now repeat an
earlier one according to replace.dedupe. The result is written to a new file.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Usage errors come before any file I/O
			dest, err := uuidswap.NormalizeDestination(args[0])
			if err != nil {
				return fmt.Errorf("%w\nusage: %s", err, cmd.UseLine())
			}

			cfg, err := GetReplaceConfig(v)
			if err != nil {
				return err
			}
			if len(args) > 1 {
				cfg.Input = args[1]
			}
			if len(args) > 2 {
				cfg.Output = args[2]
			}
			if cfg.Input == cfg.Output {
				return fmt.Errorf("output %s must differ from input", cfg.Output)
			}

			content, err := dumpfile.ReadString(cfg.Input)
			if err != nil {
				return err
			}

			res := uuidswap.Substitute(content, cfg.Sources, dest)
			log.WithField("total", res.Total).Debugf("Replaced legacy ids with %s", dest)

			var pruned []prune.Result
			text := res.Content
			if !noPrune {
				text, pruned = prune.Prune(text, cfg.Dedupe)
			}

			printReplaceReport(cmd.OutOrStdout(), res, pruned)

			if dryRun {
				fmt.Fprintln(cmd.OutOrStdout(), noteString("Dry run: nothing written"))
				return nil
			}
			if err := dumpfile.WriteString(cfg.Output, text); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", cfg.Output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing the output file")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "only replace ids, keep duplicate rows")
	return cmd
}
