package features

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Embedding model kinds understood by the inference runner.
const (
	ModelMusiCNN = "musicnn"
	ModelEffnet  = "effnet"
)

// Prediction algorithms and their aggregation modes.
const (
	AlgorithmRegression = "regression"
	AlgorithmClassifier = "classifier"
)

// ErrFeatureUnknown is returned when a feature name is not in the catalog.
var ErrFeatureUnknown = errors.New("unknown audio feature")

//go:embed default_catalog.json
var defaultCatalogJSON []byte

// Entry describes how a single audio feature is computed: which embedding
// model produces the segment vectors and which prediction graph maps them to
// scores. The JSON field names match the original configuration file schema.
type Entry struct {
	Model           string `json:"model"`
	Algorithm       string `json:"algorithm"`
	EmbeddingGraph  string `json:"embedding_graph_filename"`
	PredictionGraph string `json:"prediction_graph_filename"`
}

// Catalog maps feature names to their model selections.
type Catalog struct {
	entries map[string]Entry
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultCatalogJSON, "embedded catalog")
}

// LoadCatalog reads a JSON catalog file. An empty path yields the embedded
// default.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature catalog: %w", err)
	}
	return parseCatalog(data, path)
}

func parseCatalog(data []byte, source string) (*Catalog, error) {
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse feature catalog %s: %w", source, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("feature catalog %s: no features defined", source)
	}
	for name, entry := range entries {
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("feature catalog %s: feature %q: %w", source, name, err)
		}
	}
	return &Catalog{entries: entries}, nil
}

func (e Entry) validate() error {
	switch e.Model {
	case ModelMusiCNN, ModelEffnet:
	default:
		return fmt.Errorf("model must be %q or %q, got %q", ModelMusiCNN, ModelEffnet, e.Model)
	}
	switch e.Algorithm {
	case AlgorithmRegression, AlgorithmClassifier:
	default:
		return fmt.Errorf("algorithm must be %q or %q, got %q", AlgorithmRegression, AlgorithmClassifier, e.Algorithm)
	}
	if strings.TrimSpace(e.EmbeddingGraph) == "" {
		return errors.New("embedding_graph_filename must be set")
	}
	if strings.TrimSpace(e.PredictionGraph) == "" {
		return errors.New("prediction_graph_filename must be set")
	}
	return nil
}

// Lookup returns the entry for a feature name.
func (c *Catalog) Lookup(feature string) (Entry, error) {
	entry, ok := c.entries[feature]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrFeatureUnknown, feature)
	}
	return entry, nil
}

// Names returns all feature names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
