package cmd

import (
	"fmt"

	"dump-migrate/internal/pgcopy"
	"dump-migrate/internal/prune"
	"dump-migrate/internal/uuidswap"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Ids of the accounts created before the tenant migration. They all belong
// to the same person and are collapsed onto the id given on the command line.
var defaultSourceIDs = []string{
	"3f6c1a52-8d1e-4c2b-9a57-0e4b6f2d9c11",
	"a9e27d40-15b3-4f86-8c0d-7b52e19f3a64",
	"c04b8e1f-6a29-4d73-b1e5-92f8d0c7a3b5",
	"e7d95f08-2c41-4a1b-8f36-5d0e7a9b4c82",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("inserts.input", "backup.sql")
	v.SetDefault("inserts.schema", pgcopy.DefaultSchema)

	v.SetDefault("replace.input", "backup_inserts.sql")
	v.SetDefault("replace.output", "backup_inserts_replaced.sql")
	v.SetDefault("replace.sources", defaultSourceIDs)
	v.SetDefault("replace.dedupe", []map[string]interface{}{
		{"schema": pgcopy.DefaultSchema, "table": "user_profiles"},
		{"schema": pgcopy.DefaultSchema, "table": "company_members", "key": []int{2, 3}},
	})

	v.SetDefault("sample.rows", 25)
	v.SetDefault("sample.seed", 1)
	v.SetDefault("sample.output", "sample.sql")
}

type ReplaceConfig struct {
	Input   string
	Output  string
	Sources []string
	Dedupe  []prune.Rule
}

// GetReplaceConfig loads and validates the replace-uuid settings.
func GetReplaceConfig(v *viper.Viper) (*ReplaceConfig, error) {
	cfg := &ReplaceConfig{
		Input:  v.GetString("replace.input"),
		Output: v.GetString("replace.output"),
	}

	for _, s := range v.GetStringSlice("replace.sources") {
		id, err := uuidswap.NormalizeDestination(s)
		if err != nil {
			return nil, fmt.Errorf("invalid replace.sources entry: %w", err)
		}
		cfg.Sources = append(cfg.Sources, id)
	}
	cfg.Sources = lo.Uniq(cfg.Sources)

	if err := v.UnmarshalKey("replace.dedupe", &cfg.Dedupe); err != nil {
		return nil, fmt.Errorf("failed to parse replace.dedupe config: %w", err)
	}
	for i, r := range cfg.Dedupe {
		if r.Table == "" {
			return nil, fmt.Errorf("replace.dedupe[%d]: table is required", i)
		}
		if r.Schema == "" {
			cfg.Dedupe[i].Schema = pgcopy.DefaultSchema
		}
		if lo.SomeBy(r.Key, func(p int) bool { return p < 1 }) {
			return nil, fmt.Errorf("replace.dedupe[%d]: key positions start at 1, got %v", i, r.Key)
		}
	}

	return cfg, nil
}
