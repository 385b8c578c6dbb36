package commands_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/txparse/internal/batch"
	"github.com/cleared-dev/txparse/internal/model"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "txparse-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "txparse")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/txparse")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// runTxparse returns stdout only; logs go to stderr.
func runTxparse(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "TXPARSE_LOG_LEVEL=error")
	out, err := cmd.Output()
	return string(out), err
}

const ocrWithGeometry = `{
  "text": "DOMINO'S PIZZA\nDate 04/01/2025\nTotal\n599.00",
  "blocks": [{"boundingBox": {"vertices": [{"x":0,"y":0},{"x":400,"y":0},{"x":400,"y":800},{"x":0,"y":800}]}}],
  "annotations": [
    {"description": "DOMINO'S PIZZA\nDate 04/01/2025\nTotal\n599.00"},
    {"description": "DOMINO'S", "boundingPoly": {"vertices": [{"x":10,"y":10},{"x":120,"y":10},{"x":120,"y":40},{"x":10,"y":40}]}},
    {"description": "PIZZA", "boundingPoly": {"vertices": [{"x":130,"y":12},{"x":200,"y":12},{"x":200,"y":42},{"x":130,"y":42}]}},
    {"description": "Total", "boundingPoly": {"vertices": [{"x":10,"y":700},{"x":60,"y":700},{"x":60,"y":712},{"x":10,"y":712}]}},
    {"description": "599.00", "boundingPoly": {"vertices": [{"x":300,"y":700},{"x":360,"y":700},{"x":360,"y":712},{"x":300,"y":712}]}}
  ]
}`

func TestVersion(t *testing.T) {
	out, err := runTxparse(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}

func TestVoice_JSON(t *testing.T) {
	out, err := runTxparse(t, "voice", "--json", "Paid", "three", "hundred", "for", "mcdonalds", "burger")
	require.NoError(t, err)

	var rec model.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "300", rec.Amount.String())
	assert.Equal(t, "Food", rec.Category)
	assert.Equal(t, model.TypeExpense, rec.Type)
}

func TestVoice_Text(t *testing.T) {
	out, err := runTxparse(t, "voice", "Received salary of 50000")
	require.NoError(t, err)
	assert.Contains(t, out, "type:        income")
	assert.Contains(t, out, "amount:      50000.00")
	assert.Contains(t, out, "category:    Income")
	assert.NotContains(t, out, "review:")
}

func TestVoice_RequiresText(t *testing.T) {
	_, err := runTxparse(t, "voice")
	assert.Error(t, err)
}

func TestReceipt_Explain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dominos.json")
	require.NoError(t, os.WriteFile(path, []byte(ocrWithGeometry), 0o644))

	out, err := runTxparse(t, "receipt", path, "--explain")
	require.NoError(t, err)
	assert.Contains(t, out, "amount:      599.00")
	assert.Contains(t, out, "category:    Food")
	assert.Contains(t, out, "description: Domino's - Order")
	assert.Contains(t, out, "date:        2025-01-04")
	assert.Contains(t, out, "receipt type: General")
	assert.Contains(t, out, "merchant:     Domino's (Food, table)")
}

func TestReceipt_TextOnlyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"text": "Amount payable: 1,020.00"}`), 0o644))

	out, err := runTxparse(t, "receipt", "--json", path)
	require.NoError(t, err)

	var rec model.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "1020", rec.Amount.String())
	assert.Equal(t, 0.5, rec.Confidence)
	assert.Equal(t, "Receipt Entry", rec.Description)
}

func TestReceipt_MissingFile(t *testing.T) {
	_, err := runTxparse(t, "receipt", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "notes.txt"),
		[]byte("paid 250 for movie tickets\nspent 80 on metro\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "dominos.json"), []byte(ocrWithGeometry), 0o644))

	outPath := filepath.Join(dir, "out.csv")
	_, err := runTxparse(t, "batch", inbox, "--out", outPath, "--move")
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	recs, err := batch.ReadRecords(f)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "dominos.json", recs[0].Source)
	assert.Equal(t, "Entertainment", recs[1].Category)
	assert.Equal(t, "Transport", recs[2].Category)

	_, err = os.Stat(filepath.Join(inbox, batch.ProcessedDir, "notes.txt"))
	assert.NoError(t, err)
}

func TestInit_WritesConfigAndInbox(t *testing.T) {
	dir := t.TempDir()
	_, err := runTxparse(t, "init", dir, "--taxonomy")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "inbox", "processed"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	data, err := os.ReadFile(filepath.Join(dir, "txparse.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "taxonomy.yaml")
	assert.Contains(t, string(data), "accept_threshold: 0.4")

	out, err := runTxparse(t, "taxonomy", "--config", filepath.Join(dir, "txparse.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "McDonald's")

	_, err = runTxparse(t, "init", dir)
	assert.Error(t, err, "second init should refuse to overwrite")
}

func TestBadConfig(t *testing.T) {
	_, err := runTxparse(t, "taxonomy", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
