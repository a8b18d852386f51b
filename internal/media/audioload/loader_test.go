package audioload

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// writeStubFFmpeg installs a fake ffmpeg that writes a marker byte into its
// final argument, mimicking a successful transcode.
func writeStubFFmpeg(t *testing.T, exitCode int) string {
	t.Helper()
	binDir := t.TempDir()
	script := "#!/bin/sh\nfor last; do :; done\necho data > \"$last\"\nexit " + strconv.Itoa(exitCode) + "\n"
	path := filepath.Join(binDir, "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub ffmpeg: %v", err)
	}
	return path
}

func TestExtractProducesMonoWav(t *testing.T) {
	workDir := t.TempDir()
	src := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(src, []byte("not really audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	mono, err := Extract(t.Context(), src, workDir, Options{
		FFmpegBinary: writeStubFFmpeg(t, 0),
		SampleRate:   16000,
		Resampler:    "soxr",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	t.Cleanup(func() { _ = mono.Remove() })

	if mono.SampleRate != 16000 {
		t.Fatalf("unexpected sample rate %d", mono.SampleRate)
	}
	if !strings.HasSuffix(mono.Path, "song-mono.wav") {
		t.Fatalf("unexpected output path %q", mono.Path)
	}
	if filepath.Dir(mono.Path) != workDir {
		t.Fatalf("output not in work dir: %q", mono.Path)
	}
	if _, err := os.Stat(mono.Path); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestExtractFailsOnFFmpegError(t *testing.T) {
	src := filepath.Join(t.TempDir(), "song.flac")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	_, err := Extract(t.Context(), src, t.TempDir(), Options{
		FFmpegBinary: writeStubFFmpeg(t, 1),
	})
	if err == nil {
		t.Fatal("expected error from failing ffmpeg")
	}
}

func TestExtractRejectsMissingSource(t *testing.T) {
	if _, err := Extract(t.Context(), filepath.Join(t.TempDir(), "gone.mp3"), t.TempDir(), Options{}); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := Extract(t.Context(), "  ", t.TempDir(), Options{}); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestMonoRemoveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmp.wav")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	mono := Mono{Path: path}
	if err := mono.Remove(); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := mono.Remove(); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if err := (Mono{}).Remove(); err != nil {
		t.Fatalf("zero value remove: %v", err)
	}
}
