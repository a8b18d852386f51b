package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateInference(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.ModelsDir == "" {
		return errors.New("paths.models_dir must be set")
	}
	if c.Paths.CacheDir == "" {
		return errors.New("paths.cache_dir must be set")
	}
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("audio.sample_rate must be between 8000 and 192000, got %d", c.Audio.SampleRate)
	}
	switch c.Audio.Resampler {
	case "soxr", "default":
	default:
		return fmt.Errorf("audio.resampler must be \"soxr\" or \"default\", got %q", c.Audio.Resampler)
	}
	return nil
}

func (c *Config) validateInference() error {
	if c.Inference.UvxCommand == "" {
		return errors.New("inference.uvx_command must be set")
	}
	if c.Inference.EssentiaPackage == "" {
		return errors.New("inference.essentia_package must be set")
	}
	if c.Inference.TimeoutSeconds <= 0 {
		return errors.New("inference.timeout_seconds must be positive")
	}
	return nil
}
