package features

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogLookup(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}

	entry, err := catalog.Lookup("danceability")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry.Model != ModelEffnet {
		t.Fatalf("unexpected model: %q", entry.Model)
	}
	if entry.Algorithm != AlgorithmClassifier {
		t.Fatalf("unexpected algorithm: %q", entry.Algorithm)
	}
	if entry.EmbeddingGraph != "discogs-effnet-bs64-1.pb" {
		t.Fatalf("unexpected embedding graph: %q", entry.EmbeddingGraph)
	}
	if entry.PredictionGraph != "danceability-discogs-effnet-1.pb" {
		t.Fatalf("unexpected prediction graph: %q", entry.PredictionGraph)
	}
}

func TestDefaultCatalogCoversBothModelKinds(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	kinds := map[string]bool{}
	for _, name := range catalog.Names() {
		entry, err := catalog.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup %q: %v", name, err)
		}
		kinds[entry.Model] = true
	}
	if !kinds[ModelMusiCNN] || !kinds[ModelEffnet] {
		t.Fatalf("expected both model kinds in default catalog, got %v", kinds)
	}
}

func TestLookupUnknownFeature(t *testing.T) {
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	if _, err := catalog.Lookup("loudness_war"); !errors.Is(err, ErrFeatureUnknown) {
		t.Fatalf("expected ErrFeatureUnknown, got %v", err)
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.json")
	content := `{
		"custom": {
			"model": "musicnn",
			"algorithm": "regression",
			"embedding_graph_filename": "emb.pb",
			"prediction_graph_filename": "pred.pb"
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", catalog.Len())
	}
	entry, err := catalog.Lookup("custom")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry.Algorithm != AlgorithmRegression {
		t.Fatalf("unexpected algorithm: %q", entry.Algorithm)
	}
}

func TestLoadCatalogEmptyPathUsesDefault(t *testing.T) {
	catalog, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if catalog.Len() == 0 {
		t.Fatal("expected embedded default catalog")
	}
}

func TestLoadCatalogRejectsInvalidEntries(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"bad model", `{"x": {"model": "vggish", "algorithm": "classifier", "embedding_graph_filename": "a", "prediction_graph_filename": "b"}}`},
		{"bad algorithm", `{"x": {"model": "effnet", "algorithm": "cluster", "embedding_graph_filename": "a", "prediction_graph_filename": "b"}}`},
		{"missing embedding graph", `{"x": {"model": "effnet", "algorithm": "classifier", "prediction_graph_filename": "b"}}`},
		{"missing prediction graph", `{"x": {"model": "effnet", "algorithm": "classifier", "embedding_graph_filename": "a"}}`},
		{"empty catalog", `{}`},
		{"not json", `nope`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "features.json")
			if err := os.WriteFile(path, []byte(tc.json), 0o644); err != nil {
				t.Fatalf("write catalog: %v", err)
			}
			if _, err := LoadCatalog(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
