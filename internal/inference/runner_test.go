package inference

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"essendeejay/internal/logging"
)

// writeStubUvx installs a fake uvx that prints the given stdout payload and
// exits with the given code.
func writeStubUvx(t *testing.T, stdout, stderr string, exitCode int) string {
	t.Helper()
	binDir := t.TempDir()
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if stdout != "" {
		b.WriteString("cat <<'EOF'\n" + stdout + "\nEOF\n")
	}
	if stderr != "" {
		b.WriteString("cat <<'EOF' >&2\n" + stderr + "\nEOF\n")
	}
	if exitCode != 0 {
		b.WriteString("exit 1\n")
	}
	path := filepath.Join(binDir, "uvx")
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("write stub uvx: %v", err)
	}
	return path
}

func validRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		AudioPath:       filepath.Join(t.TempDir(), "song-mono.wav"),
		Model:           "effnet",
		Algorithm:       "classifier",
		EmbeddingGraph:  "/models/discogs-effnet-bs64-1.pb",
		PredictionGraph: "/models/danceability-discogs-effnet-1.pb",
		SampleRate:      16000,
		WorkDir:         t.TempDir(),
	}
}

func TestPredictDecodesMatrix(t *testing.T) {
	stub := writeStubUvx(t, `{"segments": 2, "predictions": [[0.9, 0.1], [0.3, 0.7]]}`, "", 0)
	runner := NewRunner(Options{UvxCommand: stub, Timeout: time.Minute}, logging.NewNop())

	predictions, err := runner.Predict(t.Context(), validRequest(t))
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(predictions) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(predictions))
	}
	if predictions[0][0] != 0.9 || predictions[1][1] != 0.7 {
		t.Fatalf("unexpected matrix: %v", predictions)
	}
}

func TestPredictWritesHelperScript(t *testing.T) {
	stub := writeStubUvx(t, `{"segments": 1, "predictions": [[1.0]]}`, "", 0)
	runner := NewRunner(Options{UvxCommand: stub}, logging.NewNop())

	req := validRequest(t)
	if _, err := runner.Predict(t.Context(), req); err != nil {
		t.Fatalf("Predict: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(req.WorkDir, "predict_features.py"))
	if err != nil {
		t.Fatalf("helper script missing: %v", err)
	}
	for _, needle := range []string{
		"TensorflowPredictMusiCNN",
		"TensorflowPredictEffnetDiscogs",
		"model/dense/BiasAdd",
		"PartitionedCall:1",
		"model/Identity",
		"model/Softmax",
	} {
		if !strings.Contains(string(data), needle) {
			t.Fatalf("helper script missing %q", needle)
		}
	}
}

func TestPredictSurfacesScriptError(t *testing.T) {
	stub := writeStubUvx(t, "", `{"error": "graph file not found"}`, 1)
	runner := NewRunner(Options{UvxCommand: stub}, logging.NewNop())

	_, err := runner.Predict(t.Context(), validRequest(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "graph file not found") {
		t.Fatalf("expected script error in message, got %v", err)
	}
}

func TestPredictFallsBackToLastStderrLine(t *testing.T) {
	stub := writeStubUvx(t, "", "warning: something\nImportError: no module named essentia", 1)
	runner := NewRunner(Options{UvxCommand: stub}, logging.NewNop())

	_, err := runner.Predict(t.Context(), validRequest(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "ImportError") {
		t.Fatalf("expected last stderr line, got %v", err)
	}
}

func TestPredictRejectsEmptyPredictions(t *testing.T) {
	stub := writeStubUvx(t, `{"segments": 0, "predictions": []}`, "", 0)
	runner := NewRunner(Options{UvxCommand: stub}, logging.NewNop())

	if _, err := runner.Predict(t.Context(), validRequest(t)); err == nil {
		t.Fatal("expected error for empty prediction set")
	}
}

func TestPredictValidatesRequest(t *testing.T) {
	runner := NewRunner(Options{}, logging.NewNop())
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty audio", func(r *Request) { r.AudioPath = "" }},
		{"bad model", func(r *Request) { r.Model = "vggish" }},
		{"bad algorithm", func(r *Request) { r.Algorithm = "cluster" }},
		{"empty embedding graph", func(r *Request) { r.EmbeddingGraph = "" }},
		{"empty prediction graph", func(r *Request) { r.PredictionGraph = "" }},
		{"empty work dir", func(r *Request) { r.WorkDir = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest(t)
			tc.mutate(&req)
			if _, err := runner.Predict(t.Context(), req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
