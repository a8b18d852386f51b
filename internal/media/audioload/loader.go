package audioload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Options describes a mono downmix request.
type Options struct {
	// FFmpegBinary overrides the ffmpeg executable. Defaults to "ffmpeg".
	FFmpegBinary string
	// SampleRate is the target rate in Hz. Defaults to 16000.
	SampleRate int
	// Resampler selects the ffmpeg resampling engine: "soxr" or "default".
	Resampler string
}

// Mono holds the result of a downmix: the path of the produced WAV file.
type Mono struct {
	Path       string
	SampleRate int
}

// Remove deletes the produced WAV file. Safe to call on the zero value.
func (m Mono) Remove() error {
	if strings.TrimSpace(m.Path) == "" {
		return nil
	}
	if err := os.Remove(m.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Extract transcodes src into a mono float PCM WAV inside workDir and
// returns its location. The caller owns the file and should Remove it when
// finished.
func Extract(ctx context.Context, src, workDir string, opts Options) (Mono, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return Mono{}, errors.New("audioload: empty source path")
	}
	if _, err := os.Stat(src); err != nil {
		return Mono{}, fmt.Errorf("audioload: stat source: %w", err)
	}

	binary := strings.TrimSpace(opts.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	rate := opts.SampleRate
	if rate <= 0 {
		rate = 16000
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dst := filepath.Join(workDir, base+"-mono.wav")

	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", src}
	if strings.EqualFold(opts.Resampler, "soxr") {
		args = append(args, "-resampler", "soxr")
	}
	args = append(args,
		"-ac", "1",
		"-ar", strconv.Itoa(rate),
		"-c:a", "pcm_f32le",
		dst,
	)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(dst)
		return Mono{}, fmt.Errorf("audioload: ffmpeg downmix: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	info, err := os.Stat(dst)
	if err != nil {
		return Mono{}, fmt.Errorf("audioload: stat output: %w", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(dst)
		return Mono{}, fmt.Errorf("audioload: ffmpeg produced empty output for %s", src)
	}

	return Mono{Path: dst, SampleRate: rate}, nil
}
