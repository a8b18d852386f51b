// Package features owns the audio feature catalog and the metric aggregation
// rules.
//
// The catalog maps a feature name (danceability, mood_happy, ...) to the
// embedding model kind, prediction algorithm, and the pre-trained graph
// filenames that implement it. A default catalog covering the published
// Essentia feature models is embedded in the binary; a JSON file with the
// same schema can replace it.
//
// Aggregation reduces per-segment prediction rows to a single metric: the
// per-column mean for regression models, or the ratio of segments whose
// probability for a chosen category exceeds 0.5 for classifiers.
package features
