package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deepgo/dataset"
	"github.com/katalvlaran/deepgo/ontology"
)

const termsYAML = `terms:
  - id: GO:0003674
    name: molecular_function
  - id: GO:A
    parents: [GO:0003674]
  - id: GO:B
    parents: [GO:0003674]
  - id: GO:C
    parents: [GO:A, GO:B]
  - id: GO:D
    parents: [GO:0003674]
`

const predictionsJSON = `{
  "accessions": ["P1", "P2"],
  "scores": [[0.9, 0.2], [0.1, 0.8], [0.7, 0.4]],
  "labels": [[1, 0], [0, 1], [1, 0]],
  "truth": [["GO:A", "GO:C", "GO:D"], ["GO:B"]]
}`

// fixture writes the ontology, function list and predictions to a temp dir.
func fixture(t *testing.T) (dir string) {
	t.Helper()
	dir = t.TempDir()
	files := map[string]string{
		"terms.yaml":       termsYAML,
		"functions.txt":    "GO:A\nGO:B\nGO:C\n",
		"predictions.json": predictionsJSON,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	return dir
}

// run executes the command tree with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestBuildCmd(t *testing.T) {
	dir := fixture(t)
	out, _, err := run(t, "build",
		"--ontology", filepath.Join(dir, "terms.yaml"),
		"--functions", filepath.Join(dir, "functions.txt"),
		"--input-width", "8")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "TERM"))
	assert.True(t, strings.HasPrefix(lines[1], "GO:A"))
	assert.True(t, strings.HasPrefix(lines[2], "GO:B"))
	assert.True(t, strings.HasPrefix(lines[3], "GO:C"))
	assert.Contains(t, lines[3], "GO:A,GO:B")
	assert.Contains(t, lines[4], "units=3 active=3")
	assert.Contains(t, lines[4], "strategy=bfs")
}

func TestBuildCmd_DebugLogging(t *testing.T) {
	dir := fixture(t)
	_, stderr, err := run(t, "build", "--log-level", "debug",
		"--ontology", filepath.Join(dir, "terms.yaml"),
		"--functions", filepath.Join(dir, "functions.txt"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "ontology loaded")
}

func TestBuildCmd_Errors(t *testing.T) {
	dir := fixture(t)
	_, _, err := run(t, "build", "--ontology", filepath.Join(dir, "terms.yaml"))
	assert.Error(t, err, "functions flag is required")

	_, _, err = run(t, "build", "--log-level", "loud",
		"--ontology", filepath.Join(dir, "terms.yaml"),
		"--functions", filepath.Join(dir, "functions.txt"))
	assert.Error(t, err)

	cfg := filepath.Join(dir, "bp.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("namespace: bp\n"), 0o600))
	_, _, err = run(t, "build", "--config", cfg,
		"--ontology", filepath.Join(dir, "terms.yaml"),
		"--functions", filepath.Join(dir, "functions.txt"))
	assert.ErrorIs(t, err, ontology.ErrTermNotFound, "bp root is not in the term list")
}

func TestEvaluateAndRunsCmd(t *testing.T) {
	dir := fixture(t)
	db := filepath.Join(dir, "runs.db")
	out, _, err := run(t, "evaluate",
		"--ontology", filepath.Join(dir, "terms.yaml"),
		"--functions", filepath.Join(dir, "functions.txt"),
		"--predictions", filepath.Join(dir, "predictions.json"),
		"--per-function",
		"--store", db)
	require.NoError(t, err)

	// P1: tp=2 (A, C), fn=1 (D unmodeled) → p=1 r=2/3; P2: tp=1 → p=r=1
	assert.Contains(t, out, "precision=1.0000 recall=0.8333 f1=0.9000 included=2/2")
	assert.Contains(t, out, "GO:C")
	assert.Contains(t, out, "run=")

	out, _, err = run(t, "runs", "--store", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "GO:0003674")
	assert.Contains(t, lines[1], "bfs")
}

func TestEvaluateCmd_RaggedScores(t *testing.T) {
	dir := fixture(t)
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"scores": [[0.1, 0.2], [0.3]], "labels": [[1, 0], [0, 1]], "truth": [[], []]}`), 0o600))
	_, _, err := run(t, "evaluate",
		"--ontology", filepath.Join(dir, "terms.yaml"),
		"--functions", filepath.Join(dir, "functions.txt"),
		"--predictions", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scores: row 1")
}

// writeExamples writes a quadrant toy set: GO:A for x0 > 0, GO:B for
// x1 > 0, GO:C for both and the unmodeled GO:D on every third row. Two
// extra rows fail the length filter.
func writeExamples(t *testing.T, dir string, n int) string {
	t.Helper()
	rows := make([]example, 0, n+2)
	for i := 0; i < n; i++ {
		x0 := float64(i%4) - 1.5
		x1 := float64((i/4)%4) - 1.5
		var terms []string
		if x0 > 0 {
			terms = append(terms, "GO:A")
		}
		if x1 > 0 {
			terms = append(terms, "GO:B")
		}
		if x0 > 0 && x1 > 0 {
			terms = append(terms, "GO:C")
		}
		if i%3 == 0 {
			terms = append(terms, "GO:D")
		}
		rows = append(rows, example{
			Accession:      fmt.Sprintf("P%02d", i),
			Sequence:       []int32{1, 2, 3},
			Representation: []float64{x0, x1},
			Terms:          terms,
		})
	}
	rows = append(rows,
		example{Accession: "EMPTY", Representation: []float64{0, 0}},
		example{Accession: "LONG", Sequence: make([]int32, 11), Representation: []float64{0, 0}},
	)
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	path := filepath.Join(dir, "examples.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestTrainCmd(t *testing.T) {
	dir := fixture(t)
	cfg := filepath.Join(dir, "train.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`max_len: 10
node_width: 4
batch_size: 4
epochs: 3
learning_rate: 0.1
train_fraction: 0.75
validation_fraction: 0.25
`), 0o600))
	db := filepath.Join(dir, "runs.db")

	out, stderr, err := run(t, "train", "--config", cfg,
		"--ontology", filepath.Join(dir, "terms.yaml"),
		"--functions", filepath.Join(dir, "functions.txt"),
		"--examples", writeExamples(t, dir, 20),
		"--store", db)
	require.NoError(t, err)

	// 20 kept → 15 train (11 fit, 4 validation) and 5 test
	assert.Contains(t, stderr, "read=22 kept=20 train=11 validation=4 test=5")
	assert.Contains(t, stderr, "epoch done")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	for i := 0; i < 3; i++ {
		assert.True(t, strings.HasPrefix(lines[i], fmt.Sprintf("epoch=%d ", i+1)), lines[i])
	}
	assert.True(t, strings.HasPrefix(lines[3], "best_epoch="))
	assert.NotContains(t, lines[3], "NaN")
	assert.True(t, strings.HasPrefix(lines[4], "precision="))
	assert.True(t, strings.HasSuffix(lines[4], "/5"))
	assert.True(t, strings.HasPrefix(lines[5], "run="))

	out, _, err = run(t, "runs", "--store", db)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "TEST_LOSS")
	assert.NotContains(t, lines[1], "NaN", "a trained run stores its test loss")
}

func TestTrainCmd_Errors(t *testing.T) {
	dir := fixture(t)
	_, _, err := run(t, "train",
		"--ontology", filepath.Join(dir, "terms.yaml"),
		"--functions", filepath.Join(dir, "functions.txt"))
	assert.Error(t, err, "examples flag is required")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"accession": "P1", "sequence": [1], "representation": [1, 2]},
{"accession": "P2", "sequence": [1], "representation": [1]}]`), 0o600))
	cfg := filepath.Join(dir, "all.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("train_fraction: 1\nvalidation_fraction: 0\n"), 0o600))
	_, _, err = run(t, "train", "--config", cfg,
		"--ontology", filepath.Join(dir, "terms.yaml"),
		"--functions", filepath.Join(dir, "functions.txt"),
		"--examples", bad,
		"--store", filepath.Join(dir, "runs.db"))
	assert.ErrorIs(t, err, dataset.ErrShapeMismatch)
}
