// Package analyzer orchestrates a full audio analysis run: ffprobe metadata
// inspection, ffmpeg mono downmix, TensorFlow inference through the Python
// helper, and aggregation of per-segment predictions into metrics.
//
// Regression features aggregate to the per-column mean of the prediction
// matrix. Classifier features aggregate to the fraction of segments whose
// score for the requested category exceeds the activation threshold.
package analyzer
