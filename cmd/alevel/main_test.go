package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig writes a config with a private on-disk history store and
// quiet logging.
func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := "history:\n  enabled: true\n  store:\n    path: " + filepath.Join(dir, "history") +
		"\n    gc_interval: 0s\nlog:\n  level: error\n"
	path := filepath.Join(dir, "alevel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(append([]string{"--config", cfg}, args...), &out, &errOut)
	return out.String(), err
}

func mustRun(t *testing.T, cfg string, args ...string) string {
	t.Helper()
	out, err := run(t, cfg, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

// ============================================================
// Analysis
// ============================================================

func TestAnalyze_PlainReport(t *testing.T) {
	cfg := testConfig(t)
	out := mustRun(t, cfg, "analyze", "x**2 - 4")
	assert.Contains(t, out, "f(x) = x**2 - 4\n")
	assert.Contains(t, out, "Roots: (-2.0000, 0), (2.0000, 0)")
	assert.Contains(t, out, "Turning Points: (0.0000, -4.0000) [Minimum]")
	assert.NotContains(t, out, "\x1b[", "no ANSI styling off a terminal")
}

func TestAnalyze_SeveralInOrder(t *testing.T) {
	cfg := testConfig(t)
	out := mustRun(t, cfg, "analyze", "x^3 - 3*x", "1/x", "--min", "-5", "--max", "5", "--no-turning")
	first := strings.Index(out, "f(x) = x^3 - 3*x")
	second := strings.Index(out, "f(x) = 1/x")
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
	assert.NotContains(t, out, "Turning Points")
	assert.Contains(t, out, "Horizontal asymptote: y = 0.0000")
}

func TestAnalyze_JSON(t *testing.T) {
	cfg := testConfig(t)
	out := mustRun(t, cfg, "--json", "analyze", "x - 1", "--min", "-2", "--max", "2")
	var rep struct {
		Roots struct {
			Roots []float64 `json:"roots"`
		} `json:"roots"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []float64{1}, rep.Roots.Roots)
}

func TestAnalyze_Errors(t *testing.T) {
	cfg := testConfig(t)
	_, err := run(t, cfg, "analyze", "x +")
	assert.ErrorContains(t, err, "invalid function")

	_, err = run(t, cfg, "analyze", "x", "--min", "3", "--max", "1")
	assert.ErrorContains(t, err, "invalid interval")

	_, err = run(t, cfg, "analyze", "sin(x)", "--angles", "gradians")
	assert.ErrorContains(t, err, "unknown angle mode")
}

func TestAnalyze_AnglePreference(t *testing.T) {
	cfg := testConfig(t)

	out := mustRun(t, cfg, "analyze", "sin(x)", "--min", "-4", "--max", "4", "--no-turning")
	assert.Equal(t, 1, rootCount(t, out), "degrees by default")

	mustRun(t, cfg, "prefs", "set", "angle_mode", "radians")
	assert.Equal(t, "angle_mode = radians\n", mustRun(t, cfg, "prefs", "get", "angle_mode"))
	out = mustRun(t, cfg, "analyze", "sin(x)", "--min", "-4", "--max", "4", "--no-turning")
	assert.Equal(t, 3, rootCount(t, out), "0 and ±pi in radians")

	out = mustRun(t, cfg, "analyze", "sin(x)", "--min", "-4", "--max", "4", "--no-turning", "--angles", "degrees")
	assert.Equal(t, 1, rootCount(t, out))

	_, err := run(t, cfg, "prefs", "set", "angle_mode", "turns")
	assert.Error(t, err)
}

func rootCount(t *testing.T, out string) int {
	t.Helper()
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "Roots: ") {
			return strings.Count(l, ", 0)")
		}
	}
	t.Fatalf("no roots line in %q", out)
	return 0
}

// ============================================================
// Calculus
// ============================================================

func TestCalculus(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, "d/dx: 3*x^2\n", mustRun(t, cfg, "diff", "x^3"))
	assert.Equal(t, "d^2/dx^2: 6*x\n", mustRun(t, cfg, "diff", "x^3", "-n", "2"))
	assert.Equal(t, "integral from 0 to 3: 9\n", mustRun(t, cfg, "integrate", "x^2", "--from", "0", "--to", "3"))
	assert.Equal(t, "f(2): 5\n", mustRun(t, cfg, "eval", "x^2 + 1", "--at", "2"))
	assert.Equal(t, "lim x->oo: 0\n", mustRun(t, cfg, "limit", "1/x", "--at", "oo"))
	assert.Equal(t, "solutions: -2, 2\n", mustRun(t, cfg, "solve", "x^2 - 4"))

	out := mustRun(t, cfg, "integrate", "2*x")
	assert.Contains(t, out, "x^2 + C")

	_, err := run(t, cfg, "diff", "x", "-n", "0")
	assert.Error(t, err)
	_, err = run(t, cfg, "integrate", "x", "--from", "0")
	assert.ErrorContains(t, err, "--to is required")
	_, err = run(t, cfg, "limit", "x", "--at", "x")
	assert.ErrorContains(t, err, "must be a constant")
}

// ============================================================
// Formulas and simulations
// ============================================================

func TestFormula(t *testing.T) {
	cfg := testConfig(t)
	assert.Equal(t, "KE = 9 J\n", mustRun(t, cfg, "formula", "eval", "kinetic-energy", "m=2", "v=3"))

	out := mustRun(t, cfg, "formula", "list", "--subject", "Physics", "--topic", "Gravitational Fields")
	assert.Contains(t, out, "gravitational-force:")
	assert.NotContains(t, out, "kinetic-energy")

	out = mustRun(t, cfg, "formula", "show", "weight")
	assert.Contains(t, out, "default 9.81")

	_, err := run(t, cfg, "formula", "eval", "kinetic-energy", "m")
	assert.ErrorContains(t, err, "want NAME=VALUE")
	_, err = run(t, cfg, "formula", "eval", "kinetic-energy", "m=1", "m=2")
	assert.ErrorContains(t, err, "given twice")
	_, err = run(t, cfg, "formula", "show", "warp")
	assert.Error(t, err)
}

func TestSimulate(t *testing.T) {
	cfg := testConfig(t)
	out := mustRun(t, cfg, "simulate", "projectile", "--speed", "20", "--angle", "45")
	assert.Contains(t, out, "Range: 40.77 m")

	out = mustRun(t, cfg, "simulate", "projectile", "--frames", "3")
	assert.Equal(t, 3, strings.Count(out, "\n0.000\t")+strings.Count(out, "\n1.442\t")+strings.Count(out, "\n2.883\t"))

	out = mustRun(t, cfg, "simulate", "circuit", "--series", "--voltage", "12", "--resistors", "2,4,6")
	assert.Contains(t, out, "Current: 1.000 A")

	out = mustRun(t, cfg, "simulate", "pendulum", "--frames", "4", "--animate", "--interval", "1ms")
	assert.Contains(t, out, "Period: 2.006 s")

	_, err := run(t, cfg, "simulate", "wave", "--frequency", "0")
	assert.Error(t, err)
	_, err = run(t, cfg, "simulate", "projectile", "--frames", "20000000000")
	assert.ErrorContains(t, err, "at most 10000")
}

// ============================================================
// History
// ============================================================

func TestHistory(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "diff", "x^2")
	mustRun(t, cfg, "formula", "eval", "ohms-law", "I=1", "R=2")
	mustRun(t, cfg, "--user", "bob", "diff", "x^3")
	mustRun(t, cfg, "--no-history", "diff", "x^4")

	out := mustRun(t, cfg, "--json", "history")
	var recs []struct {
		Kind   string `json:"kind"`
		Output string `json:"output"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "formula", recs[0].Kind)
	assert.Equal(t, "2*x", recs[1].Output)

	assert.Equal(t, "cleared 2 records for default\n", mustRun(t, cfg, "history", "clear"))
	assert.Contains(t, mustRun(t, cfg, "history"), "no history for default")
	assert.Contains(t, mustRun(t, cfg, "--user", "bob", "history"), "3*x^2")
}

func TestHistory_Disabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alevel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  enabled: false\n"), 0o600))

	mustRun(t, path, "diff", "x")
	_, err := run(t, path, "history")
	assert.ErrorIs(t, err, errHistoryDisabled)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"m=2", " v = 3.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"m": 2, "v": 3.5}, got)

	_, err = parseAssignments([]string{"=2"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"m=two"})
	assert.Error(t, err)
}
