package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthive/cvsearch/internal/search"
)

// execute runs the CLI with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir()) // keep log files out of the real home

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func seededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cvsearch.db")
	_, err := execute(t, "seed", "--db", path)
	require.NoError(t, err)
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestSeedCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cvsearch.db")

	out, err := execute(t, "seed", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded")
	assert.FileExists(t, path)
}

func TestSearchCommandText(t *testing.T) {
	db := seededDB(t)

	out, err := execute(t, "search", "python", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "applicant")
	assert.Contains(t, out, "python")
}

func TestSearchCommandJSON(t *testing.T) {
	db := seededDB(t)

	out, err := execute(t, "search", "python", "--db", db, "--format", "json", "--limit", "3")
	require.NoError(t, err)

	var results search.Results
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.NotEmpty(t, results.Documents)
	assert.LessOrEqual(t, len(results.Documents), 3)
	assert.Equal(t, []string{"python"}, results.Stats.Keywords)
}

func TestSearchCommandNoMatches(t *testing.T) {
	db := seededDB(t)

	out, err := execute(t, "search", "zzqqxx", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No matches")
}

func TestSearchCommandAlgorithmFlag(t *testing.T) {
	db := seededDB(t)

	for _, alg := range []string{"KMP", "BM", "AC", "kmp"} {
		out, err := execute(t, "search", "python", "--db", db, "--algorithm", alg, "--format", "json")
		require.NoError(t, err, "algorithm %s", alg)

		var results search.Results
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		assert.NotEmpty(t, results.Documents, "algorithm %s", alg)
	}

	_, err := execute(t, "search", "python", "--db", db, "--algorithm", "bogus")
	assert.Error(t, err)
}

func TestSearchCommandRequiresKeywords(t *testing.T) {
	_, err := execute(t, "search")
	assert.Error(t, err)
}

func TestStatsCommand(t *testing.T) {
	db := seededDB(t)

	out, err := execute(t, "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Documents:  5")

	out, err = execute(t, "stats", "--db", db, "--format", "json")
	require.NoError(t, err)

	var stats struct {
		Documents int    `json:"documents"`
		Algorithm string `json:"algorithm"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 5, stats.Documents)
	assert.Equal(t, "KMP", stats.Algorithm)
}
