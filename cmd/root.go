package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configName = "dump-migrate"

// NewRootCmd builds the command tree around its own viper instance, so every
// invocation (and every test) starts from clean configuration.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	setDefaults(v)

	var cfgFile string

	root := &cobra.Command{
		Use:   "dump-migrate",
		Short: "One-off migration helpers for PostgreSQL logical backups",
		Long: `
dump-migrate prepares a pg_dump text backup for a SQL editor that cannot run COPY:

  inserts        convert COPY blocks into INSERT statements
  replace-uuid   collapse legacy ids onto one id and drop the duplicate rows
  sample         write a synthetic backup to try the other two on
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			if err := initLogging(cmd.ErrOrStderr(), v.GetString("log.level")); err != nil {
				return err
			}
			if f := v.ConfigFileUsed(); f != "" {
				log.Infof("Using config file: %s", f)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dump-migrate.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newInsertsCmd(v))
	root.AddCommand(newReplaceCmd(v))
	root.AddCommand(newSampleCmd(v))
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// initConfig reads the config file and DUMP_MIGRATE_* environment variables.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		v.AddConfigPath(".")

		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DUMP_MIGRATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func initLogging(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	return nil
}
