package cmd

import (
	"testing"

	"dump-migrate/internal/prune"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReplaceConfig_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := GetReplaceConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "backup_inserts.sql", cfg.Input)
	assert.Equal(t, "backup_inserts_replaced.sql", cfg.Output)
	assert.Equal(t, defaultSourceIDs, cfg.Sources)
	assert.Equal(t, []prune.Rule{
		{Schema: "public", Table: "user_profiles"},
		{Schema: "public", Table: "company_members", Key: []int{2, 3}},
	}, cfg.Dedupe)
}

func TestGetReplaceConfig_NormalizesSources(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("replace.sources", []string{
		"3F6C1A52-8D1E-4C2B-9A57-0E4B6F2D9C11",
		"3f6c1a52-8d1e-4c2b-9a57-0e4b6f2d9c11",
	})

	cfg, err := GetReplaceConfig(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"3f6c1a52-8d1e-4c2b-9a57-0e4b6f2d9c11"}, cfg.Sources)
}

func TestGetReplaceConfig_Invalid(t *testing.T) {
	cases := map[string]func(v *viper.Viper){
		"bad source": func(v *viper.Viper) {
			v.Set("replace.sources", []string{"legacy-user"})
		},
		"missing table": func(v *viper.Viper) {
			v.Set("replace.dedupe", []map[string]interface{}{{"key": []int{1}}})
		},
		"zero position": func(v *viper.Viper) {
			v.Set("replace.dedupe", []map[string]interface{}{{"table": "t", "key": []int{0, 2}}})
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			mutate(v)
			_, err := GetReplaceConfig(v)
			assert.Error(t, err)
		})
	}
}

func TestGetReplaceConfig_DefaultSchemaFilledIn(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("replace.dedupe", []map[string]interface{}{{"table": "t"}})

	cfg, err := GetReplaceConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Dedupe[0].Schema)
}
