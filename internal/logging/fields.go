package logging

const (
	// FieldComponent identifies the subsystem emitting a log line.
	FieldComponent = "component"
	// FieldFeature carries the audio feature being analyzed.
	FieldFeature = "feature"
	// FieldFile carries the audio file path under analysis.
	FieldFile = "file"
	// FieldModel carries the embedding model kind (musicnn, effnet).
	FieldModel = "model"
	// FieldAlgorithm carries the prediction algorithm (regression, classifier).
	FieldAlgorithm = "algorithm"
	// FieldEventType tags machine-readable event categories.
	FieldEventType = "event_type"
)
