package cmd_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dump-migrate/cmd"
	"dump-migrate/internal/uuidswap"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backup = `\restrict Xyz
SET client_encoding = 'UTF8';

COPY public.accounts (id, name) FROM stdin;
1	Anne
2	\N
3
\.

\unrestrict Xyz
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCapture(t, args...)
	return out, err
}

// runCapture returns stdout and stderr (where the logs go) separately.
func runCapture(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestInserts_Stdout(t *testing.T) {
	in := writeFile(t, t.TempDir(), "backup.sql", backup)

	out, err := run(t, "inserts", in)
	require.NoError(t, err)
	assert.Equal(t, "SET client_encoding = 'UTF8';\n"+
		"\n"+
		`INSERT INTO public.accounts ("id", "name") VALUES ('1', 'Anne');`+"\n"+
		`INSERT INTO public.accounts ("id", "name") VALUES ('2', NULL);`+"\n"+
		"\n"+
		"\n", out)
}

func TestInserts_OutputFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "backup.sql", backup)
	target := filepath.Join(dir, "inserts.sql")

	out, err := run(t, "inserts", in, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `VALUES ('1', 'Anne');`)
	assert.NotContains(t, string(data), `\restrict`)
}

func TestInserts_MissingInput(t *testing.T) {
	_, err := run(t, "inserts", filepath.Join(t.TempDir(), "nope.sql"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReplace_RejectsMalformedDestination(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.sql", "SELECT 1;\n")
	target := filepath.Join(dir, "out.sql")

	_, err := run(t, "replace-uuid", "not-a-uuid", in, target)
	require.Error(t, err)
	assert.True(t, errors.Is(err, uuidswap.ErrMalformedUUID))
	assert.Contains(t, err.Error(), "usage:")
	assert.NoFileExists(t, target)
}

func TestReplace_RequiresDestination(t *testing.T) {
	_, err := run(t, "replace-uuid")
	assert.Error(t, err)
}

func TestReplace_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	a, b := uuid.NewString(), uuid.NewString()
	dest := uuid.NewString()
	cfg := writeFile(t, dir, "dump-migrate.yaml", "replace:\n"+
		"  sources:\n"+
		"    - "+a+"\n"+
		"    - "+strings.ToUpper(b)+"\n"+
		"  dedupe:\n"+
		"    - table: user_profiles\n"+
		"    - table: company_members\n"+
		"      key: [2, 3]\n")

	content := strings.Join([]string{
		`INSERT INTO public.user_profiles ("id", "email") VALUES ('` + a + `', 'a@example.com');`,
		`INSERT INTO public.user_profiles ("id", "email") VALUES ('` + b + `', 'b@example.com');`,
		`INSERT INTO public.company_members ("id", "company_id", "user_id") VALUES ('m1', 'c1', '` + a + `');`,
		`INSERT INTO public.company_members ("id", "company_id", "user_id") VALUES ('m2', 'c1', '` + b + `');`,
		`INSERT INTO public.company_members ("id", "company_id", "user_id") VALUES ('m3', 'c2', '` + b + `');`,
		"",
	}, "\n")
	in := writeFile(t, dir, "in.sql", content)
	target := filepath.Join(dir, "out.sql")

	out, err := run(t, "--config", cfg, "replace-uuid", strings.ToUpper(dest), in, target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		`INSERT INTO public.user_profiles ("id", "email") VALUES ('` + dest + `', 'a@example.com');`,
		`INSERT INTO public.company_members ("id", "company_id", "user_id") VALUES ('m1', 'c1', '` + dest + `');`,
		`INSERT INTO public.company_members ("id", "company_id", "user_id") VALUES ('m3', 'c2', '` + dest + `');`,
		"",
	}, "\n"), string(data))

	assert.Contains(t, out, a)
	assert.Contains(t, out, b)
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "Removed 2 duplicate statements")
	assert.Contains(t, out, "Output: "+target)

	original, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, content, string(original))
}

func TestReplace_DryRun(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.sql", "SELECT 1;\n")
	target := filepath.Join(dir, "out.sql")

	out, err := run(t, "replace-uuid", "--dry-run", uuid.NewString(), in, target)
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
	assert.NoFileExists(t, target)
}

func TestReplace_SameInputAndOutput(t *testing.T) {
	in := writeFile(t, t.TempDir(), "in.sql", "SELECT 1;\n")
	_, err := run(t, "replace-uuid", uuid.NewString(), in, in)
	assert.Error(t, err)
}

func TestSample_ThenInserts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sample.sql")

	_, err := run(t, "sample", "--rows", "4", "--seed", "9", "-o", target)
	require.NoError(t, err)
	require.FileExists(t, target)

	out, err := run(t, "inserts", target)
	require.NoError(t, err)
	// four default legacy ids raise user_profiles to four rows
	assert.Equal(t, 4, strings.Count(out, "INSERT INTO public.user_profiles "))
	assert.Equal(t, 4, strings.Count(out, "INSERT INTO public.company_members "))
	assert.Equal(t, 4, strings.Count(out, "INSERT INTO public.customers "))
	assert.NotContains(t, out, "FROM stdin;")
}

func TestConfigFileLogHonoursLogLevel(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "dump-migrate.yaml", "inserts:\n  schema: public\n")
	in := writeFile(t, dir, "backup.sql", backup)

	_, logs, err := runCapture(t, "--config", cfg, "inserts", in)
	require.NoError(t, err)
	assert.Contains(t, logs, "Using config file: "+cfg)

	_, logs, err = runCapture(t, "--config", cfg, "--log-level", "warn", "inserts", in)
	require.NoError(t, err)
	assert.NotContains(t, logs, "Using config file")
}
