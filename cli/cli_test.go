package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuplan/report"
	"menuplan/solver"
)

const abcCSV = `name,calories,proteins
A,300,10
B,400,20.5
C,500,5
`

// setupProject creates a working directory holding dishes.csv and makes it
// the current directory for the test.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dishes.csv"), []byte(abcCSV), 0o600))
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestPlanCommand(t *testing.T) {
	setupProject(t)

	tests := []struct {
		name    string
		args    []string
		want    string
		errText string
	}{
		{
			name: "exact pair",
			args: []string{"plan", "700", "2", "--alpha", "0"},
			want: "A has got 300 calories and 10 proteins\nB has got 400 calories and 20.5 proteins\n",
		},
		{
			name: "disabled",
			args: []string{"plan", "700", "2", "--alpha", "0", "--disable", "0"},
			want: "No Solution\n",
		},
		{
			name: "single dish",
			args: []string{"plan", "300", "1", "--alpha", "50", "--solver", solver.Gini},
			want: "A has got 300 calories and 10 proteins\n",
		},
		{
			name: "nothing asked",
			args: []string{"plan", "0", "0", "--alpha", "0", "--solver", solver.Prolog},
			want: "",
		},
		{
			name:    "calories not a number",
			args:    []string{"plan", "lots", "2"},
			errText: "first argument has to be an integer",
		},
		{
			name:    "dishes not a number",
			args:    []string{"plan", "700", "two"},
			errText: "second argument has to be an integer",
		},
		{
			name:    "negative alpha",
			args:    []string{"plan", "700", "2", "--alpha", "-1"},
			errText: "alpha must not be negative",
		},
		{
			name:    "unknown solver",
			args:    []string{"plan", "700", "2", "--solver", "z3"},
			errText: "unknown solver backend",
		},
		{
			name:    "bad disable list",
			args:    []string{"plan", "700", "2", "--disable", "5-1"},
			errText: "range 5-1 is reversed",
		},
		{
			name:    "missing catalog",
			args:    []string{"plan", "700", "2", "--catalog", "nope.csv"},
			errText: "failed to load catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.errText != "" {
				assert.ErrorContains(t, err, tt.errText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestPlanCommandExplainAndDump(t *testing.T) {
	setupProject(t)

	out, err := run(t, "plan", "700", "2", "--alpha", "0", "--disable", "0", "--explain", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "3 variables in {0,1}\n")
	assert.Contains(t, out, "calories.min: 300*x0 + 400*x1 + 500*x2 >= 700\n")
	assert.Contains(t, out, "disabled: x0 = 0\n")
	assert.Contains(t, out, "No Solution\n")
	assert.Contains(t, out, "relax: [disabled]\n")
	assert.Contains(t, out, "relax: [calories.min count]\n")
}

func TestPlanCommandJSON(t *testing.T) {
	setupProject(t)

	out, err := run(t, "plan", "700", "2", "--alpha", "0", "-o", "json")
	require.NoError(t, err)
	var p report.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.True(t, p.Feasible)
	assert.Equal(t, 700, p.TotalCalories)
}

func TestPlanCommandConfigSources(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, os.Rename(filepath.Join(dir, "dishes.csv"), filepath.Join(dir, "menu.csv")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "menuplan.yaml"),
		[]byte("catalog: menu.csv\nalpha: 0\nsolver: maxsat\n"), 0o600))

	out, err := run(t, "plan", "700", "2")
	require.NoError(t, err)
	assert.Equal(t, "A has got 300 calories and 10 proteins\nB has got 400 calories and 20.5 proteins\n", out)

	t.Setenv("MENUPLAN_ALPHA", "100")
	out, err = run(t, "plan", "250", "1")
	require.NoError(t, err)
	assert.Equal(t, "A has got 300 calories and 10 proteins\n", out)

	out, err = run(t, "plan", "250", "1", "--alpha", "0")
	require.NoError(t, err)
	assert.Equal(t, "No Solution\n", out)
}

func TestWeekCommand(t *testing.T) {
	setupProject(t)

	out, err := run(t, "week", "700", "2", "--days", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Day 1\nA has got 300 calories and 10 proteins\n")
	assert.Contains(t, out, "Day 2\nNo Solution\n")
	assert.NotContains(t, out, "Day 3")

	_, err = run(t, "week", "700", "2", "--days", "0")
	assert.ErrorContains(t, err, "--days must be at least 1")
}

func TestVersionCommand(t *testing.T) {
	setupProject(t)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "menuplan v"+Version)
	assert.Contains(t, out, "gophersat")
}

func TestCommandMetadata(t *testing.T) {
	plan := NewPlanCommand()
	assert.Equal(t, "plan CALORIES DISHES", plan.Use)
	assert.NotEmpty(t, plan.Example)
	for _, flag := range []string{"alpha", "disable", "explain", "dump"} {
		assert.NotNil(t, plan.Flags().Lookup(flag), "flag %q should exist", flag)
	}

	serve := NewServeCommand()
	for _, flag := range []string{"addr", "workers"} {
		assert.NotNil(t, serve.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestParseIndexList(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "  ", want: nil},
		{in: "3", want: []int{3}},
		{in: "0,3-5", want: []int{0, 3, 4, 5}},
		{in: "1 , 2-2, 7", want: []int{1, 2, 7}},
		{in: "5-1", wantErr: true},
		{in: "1,", wantErr: true},
		{in: "a", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "0-100000", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIndexList(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
