package config

const (
	defaultModelsDir       = "~/.local/share/essendeejay/models"
	defaultCacheDir        = "~/.cache/essendeejay"
	defaultWorkDir         = "~/.cache/essendeejay/work"
	defaultLogDir          = "~/.local/share/essendeejay/logs"
	defaultSampleRate      = 16000
	defaultResampler       = "soxr"
	defaultUvxCommand      = "uvx"
	defaultEssentiaPackage = "essentia-tensorflow"
	defaultTimeoutSeconds  = 600
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ModelsDir: defaultModelsDir,
			CacheDir:  defaultCacheDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		Audio: Audio{
			SampleRate: defaultSampleRate,
			Resampler:  defaultResampler,
		},
		Inference: Inference{
			UvxCommand:      defaultUvxCommand,
			EssentiaPackage: defaultEssentiaPackage,
			TimeoutSeconds:  defaultTimeoutSeconds,
		},
		Cache: Cache{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
