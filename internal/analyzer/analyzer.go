package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"essendeejay/internal/config"
	"essendeejay/internal/features"
	"essendeejay/internal/inference"
	"essendeejay/internal/logging"
	"essendeejay/internal/media/audioload"
	"essendeejay/internal/media/ffprobe"
	"essendeejay/internal/resultcache"
)

// Predictor produces per-segment prediction rows for a prepared request.
type Predictor interface {
	Predict(ctx context.Context, req inference.Request) ([][]float64, error)
}

// Metric is the aggregated result for one feature of one file.
type Metric struct {
	Feature   string    `json:"feature"`
	Algorithm string    `json:"algorithm"`
	Category  int       `json:"category,omitempty"`
	Values    []float64 `json:"values"`
	Segments  int       `json:"segments"`
	Cached    bool      `json:"cached"`
}

// Value returns the single headline number for the metric: the classifier
// ratio, or the first mean column for regression features.
func (m Metric) Value() float64 {
	if len(m.Values) == 0 {
		return 0
	}
	return m.Values[0]
}

// Analyzer coordinates metadata reads, audio loading, and inference.
type Analyzer struct {
	cfg     *config.Config
	catalog *features.Catalog
	predict Predictor
	cache   *resultcache.Store
	logger  *slog.Logger
}

// New builds an analyzer from configuration: it loads the feature catalog,
// prepares the inference runner, and opens the metric cache when enabled.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Analyzer, error) {
	if cfg == nil {
		return nil, errors.New("analyzer: nil config")
	}

	catalog, err := features.LoadCatalog(cfg.Paths.FeaturesConfig)
	if err != nil {
		return nil, err
	}

	runner := inference.NewRunner(inference.Options{
		UvxCommand:      cfg.Inference.UvxCommand,
		EssentiaPackage: cfg.Inference.EssentiaPackage,
		Timeout:         time.Duration(cfg.Inference.TimeoutSeconds) * time.Second,
	}, logger)

	var cache *resultcache.Store
	if cfg.Cache.Enabled {
		cache, err = resultcache.Open(ctx, cfg.MetricCachePath(), logger)
		if err != nil {
			return nil, err
		}
	}

	return newAnalyzer(cfg, catalog, runner, cache, logger), nil
}

func newAnalyzer(cfg *config.Config, catalog *features.Catalog, predict Predictor, cache *resultcache.Store, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		catalog: catalog,
		predict: predict,
		cache:   cache,
		logger:  logging.NewComponentLogger(logger, "analyzer"),
	}
}

// Close releases the metric cache handle.
func (a *Analyzer) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// Catalog exposes the loaded feature catalog.
func (a *Analyzer) Catalog() *features.Catalog {
	return a.catalog
}

// Inspect runs ffprobe against the file and returns the raw result.
func (a *Analyzer) Inspect(ctx context.Context, path string) (ffprobe.Result, error) {
	return ffprobe.Inspect(ctx, a.cfg.FFprobeBinary(), path)
}

// Metadata returns the flattened tag map for the file.
func (a *Analyzer) Metadata(ctx context.Context, path string) (map[string]string, error) {
	result, err := a.Inspect(ctx, path)
	if err != nil {
		return nil, err
	}
	return result.Tags(), nil
}

// MetadataValue returns the first value recorded for the descriptor, keyed
// by the descriptor's last dot-separated segment. Missing keys yield an
// empty string without error.
func (a *Analyzer) MetadataValue(ctx context.Context, path, descriptor string) (string, error) {
	tags, err := a.Metadata(ctx, path)
	if err != nil {
		return "", err
	}
	return tags[ffprobe.NormalizeTagKey(descriptor)], nil
}

// Predictions computes the raw per-segment prediction matrix for a feature.
// The intermediate mono WAV is removed before returning.
func (a *Analyzer) Predictions(ctx context.Context, path, feature string) ([][]float64, error) {
	entry, err := a.catalog.Lookup(feature)
	if err != nil {
		return nil, err
	}

	mono, err := audioload.Extract(ctx, path, a.cfg.Paths.WorkDir, audioload.Options{
		FFmpegBinary: a.cfg.FFmpegBinary(),
		SampleRate:   a.cfg.Audio.SampleRate,
		Resampler:    a.cfg.Audio.Resampler,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if removeErr := mono.Remove(); removeErr != nil {
			a.logger.Warn("remove mono downmix",
				logging.Args(logging.String(logging.FieldFile, mono.Path), logging.Error(removeErr))...)
		}
	}()

	return a.predict.Predict(ctx, inference.Request{
		AudioPath:       mono.Path,
		Model:           entry.Model,
		Algorithm:       entry.Algorithm,
		EmbeddingGraph:  a.cfg.GraphPath(entry.EmbeddingGraph),
		PredictionGraph: a.cfg.GraphPath(entry.PredictionGraph),
		SampleRate:      mono.SampleRate,
		WorkDir:         a.cfg.Paths.WorkDir,
	})
}

// ComputeMetric aggregates predictions for a feature into its metric. For
// classifier features, category selects the prediction column whose
// activation ratio is reported. Regression features ignore category and
// report the per-column means. Cached results are returned without
// re-running inference when the file is unchanged.
func (a *Analyzer) ComputeMetric(ctx context.Context, path, feature string, category int) (Metric, error) {
	entry, err := a.catalog.Lookup(feature)
	if err != nil {
		return Metric{}, err
	}
	// Cache keys and purge arguments must agree on one spelling of the
	// path, so relative invocations resolve before keying.
	path, err = config.ExpandPath(path)
	if err != nil {
		return Metric{}, err
	}
	if entry.Algorithm == features.AlgorithmRegression {
		// Regression metrics do not vary by category; one cache row serves all.
		category = 0
	}
	if category < 0 {
		return Metric{}, fmt.Errorf("analyzer: negative category %d", category)
	}

	var key resultcache.Key
	if a.cache != nil {
		key, err = resultcache.FileKey(path, feature, category)
		if err != nil {
			return Metric{}, err
		}
		cached, err := a.cache.Get(ctx, key)
		if err != nil {
			return Metric{}, err
		}
		if cached != nil {
			a.logger.Debug("metric served from cache",
				logging.Args(
					logging.String(logging.FieldFeature, feature),
					logging.String(logging.FieldFile, path),
				)...)
			return Metric{
				Feature:   feature,
				Algorithm: cached.Algorithm,
				Category:  category,
				Values:    cached.Values,
				Segments:  cached.Segments,
				Cached:    true,
			}, nil
		}
	}

	predictions, err := a.Predictions(ctx, path, feature)
	if err != nil {
		return Metric{}, err
	}

	var values []float64
	switch entry.Algorithm {
	case features.AlgorithmRegression:
		values, err = features.MeanColumns(predictions)
	case features.AlgorithmClassifier:
		var ratio float64
		ratio, err = features.PositiveRatio(predictions, category)
		values = []float64{ratio}
	default:
		err = fmt.Errorf("analyzer: unknown algorithm %q", entry.Algorithm)
	}
	if err != nil {
		return Metric{}, err
	}

	metric := Metric{
		Feature:   feature,
		Algorithm: entry.Algorithm,
		Category:  category,
		Values:    values,
		Segments:  len(predictions),
	}

	if a.cache != nil {
		if err := a.cache.Put(ctx, resultcache.Metric{
			Key:       key,
			Algorithm: entry.Algorithm,
			Segments:  metric.Segments,
			Values:    values,
		}); err != nil {
			a.logger.Warn("cache metric",
				logging.Args(logging.String(logging.FieldFeature, feature), logging.Error(err))...)
		}
	}

	return metric, nil
}
