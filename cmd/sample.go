package cmd

import (
	"fmt"

	"dump-migrate/internal/dumpfile"
	"dump-migrate/internal/sample"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSampleCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic pg_dump backup for trying the other commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := GetReplaceConfig(v)
			if err != nil {
				return err
			}

			opts := sample.Options{
				Rows:      v.GetInt("sample.rows"),
				Seed:      v.GetInt64("sample.seed"),
				LegacyIDs: cfg.Sources,
			}
			if opts.Rows < 1 {
				return fmt.Errorf("rows must be positive, got %d", opts.Rows)
			}

			output := v.GetString("sample.output")
			if err := dumpfile.WriteString(output, sample.NewGenerator(opts).Dump()); err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"rows":   opts.Rows,
				"seed":   opts.Seed,
				"legacy": len(opts.LegacyIDs),
			}).Infof("Sample written to %s", output)
			return nil
		},
	}

	cmd.Flags().Int("rows", 0, "rows per table (overrides config)")
	cmd.Flags().Int64("seed", 0, "random seed; the same seed gives the same file")
	cmd.Flags().StringP("output", "o", "", "file to write")

	v.BindPFlag("sample.rows", cmd.Flags().Lookup("rows"))
	v.BindPFlag("sample.seed", cmd.Flags().Lookup("seed"))
	v.BindPFlag("sample.output", cmd.Flags().Lookup("output"))
	return cmd
}
