package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"essendeejay/internal/logging"
)

// Request describes a single prediction run over a prepared mono WAV.
type Request struct {
	AudioPath       string
	Model           string
	Algorithm       string
	EmbeddingGraph  string
	PredictionGraph string
	SampleRate      int
	WorkDir         string
}

// Runner executes the embedded Python helper through uvx.
type Runner struct {
	uvxCommand string
	pkg        string
	timeout    time.Duration
	logger     *slog.Logger
}

// Options configures a Runner.
type Options struct {
	UvxCommand      string
	EssentiaPackage string
	Timeout         time.Duration
}

// NewRunner creates a runner. Zero-value options fall back to uvx and an
// unpinned essentia-tensorflow package.
func NewRunner(opts Options, logger *slog.Logger) *Runner {
	uvx := strings.TrimSpace(opts.UvxCommand)
	if uvx == "" {
		uvx = "uvx"
	}
	pkg := strings.TrimSpace(opts.EssentiaPackage)
	if pkg == "" {
		pkg = "essentia-tensorflow"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Runner{
		uvxCommand: uvx,
		pkg:        pkg,
		timeout:    timeout,
		logger:     logging.NewComponentLogger(logger, "inference"),
	}
}

type scriptResult struct {
	Segments    int         `json:"segments"`
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// Predict runs the embedding and prediction graphs for the request and
// returns the per-segment prediction rows.
func (r *Runner) Predict(ctx context.Context, req Request) ([][]float64, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	scriptPath := filepath.Join(req.WorkDir, "predict_features.py")
	if err := os.WriteFile(scriptPath, []byte(predictScript), 0o644); err != nil {
		return nil, fmt.Errorf("write inference script: %w", err)
	}

	sampleRate := req.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}

	args := []string{
		"--quiet",
		"--with", r.pkg,
		"python", scriptPath,
		"--audio", req.AudioPath,
		"--model", req.Model,
		"--algorithm", req.Algorithm,
		"--embedding-graph", req.EmbeddingGraph,
		"--prediction-graph", req.PredictionGraph,
		"--sample-rate", strconv.Itoa(sampleRate),
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	started := time.Now()
	cmd := exec.CommandContext(runCtx, r.uvxCommand, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("inference timed out after %s", r.timeout)
		}
		return nil, fmt.Errorf("inference: %w: %s", err, summarizeStderr(stderr.Bytes()))
	}

	var result scriptResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, fmt.Errorf("parse inference output: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("inference: %s", result.Error)
	}
	if len(result.Predictions) == 0 {
		return nil, errors.New("inference produced no prediction segments")
	}

	r.logger.Debug("predictions computed",
		logging.Args(
			logging.String(logging.FieldModel, req.Model),
			logging.String(logging.FieldAlgorithm, req.Algorithm),
			logging.Int("segments", len(result.Predictions)),
			logging.Duration("elapsed", time.Since(started)),
		)...)

	return result.Predictions, nil
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.AudioPath) == "" {
		return errors.New("inference: empty audio path")
	}
	if strings.TrimSpace(req.EmbeddingGraph) == "" {
		return errors.New("inference: empty embedding graph path")
	}
	if strings.TrimSpace(req.PredictionGraph) == "" {
		return errors.New("inference: empty prediction graph path")
	}
	switch req.Model {
	case "musicnn", "effnet":
	default:
		return fmt.Errorf("inference: unknown embedding model %q", req.Model)
	}
	switch req.Algorithm {
	case "regression", "classifier":
	default:
		return fmt.Errorf("inference: unknown algorithm %q", req.Algorithm)
	}
	if strings.TrimSpace(req.WorkDir) == "" {
		return errors.New("inference: empty work dir")
	}
	return nil
}

// summarizeStderr extracts the most useful line from helper stderr: a JSON
// error payload when present, otherwise the last non-empty line.
func summarizeStderr(stderr []byte) string {
	var result scriptResult
	if json.Unmarshal(stderr, &result) == nil && result.Error != "" {
		return result.Error
	}
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "unknown error"
}
