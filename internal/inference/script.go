package inference

// predictScript is the embedded Python helper that executes the embedding
// and prediction graphs. The musicnn and effnet embedding models expose
// different output nodes, as do regression and classifier prediction heads;
// the helper selects them the same way the Essentia model documentation
// prescribes.
const predictScript = `#!/usr/bin/env python3
import argparse
import json
import sys

from essentia.standard import (
    MonoLoader,
    TensorflowPredict2D,
    TensorflowPredictEffnetDiscogs,
    TensorflowPredictMusiCNN,
)


def build_embedding_model(kind, graph):
    if kind == "musicnn":
        return TensorflowPredictMusiCNN(
            graphFilename=graph, output="model/dense/BiasAdd")
    if kind == "effnet":
        return TensorflowPredictEffnetDiscogs(
            graphFilename=graph, output="PartitionedCall:1")
    raise ValueError("unknown embedding model: %s" % kind)


def build_prediction_model(algorithm, graph):
    if algorithm == "regression":
        return TensorflowPredict2D(graphFilename=graph, output="model/Identity")
    if algorithm == "classifier":
        return TensorflowPredict2D(graphFilename=graph, output="model/Softmax")
    raise ValueError("unknown algorithm: %s" % algorithm)


def main():
    parser = argparse.ArgumentParser()
    parser.add_argument("--audio", required=True)
    parser.add_argument("--model", required=True)
    parser.add_argument("--algorithm", required=True)
    parser.add_argument("--embedding-graph", required=True)
    parser.add_argument("--prediction-graph", required=True)
    parser.add_argument("--sample-rate", type=int, default=16000)
    args = parser.parse_args()

    try:
        audio = MonoLoader(filename=args.audio,
                           sampleRate=args.sample_rate, resampleQuality=4)()
        embeddings = build_embedding_model(args.model, args.embedding_graph)(audio)
        predictions = build_prediction_model(
            args.algorithm, args.prediction_graph)(embeddings)
        print(json.dumps({
            "segments": len(predictions),
            "predictions": [[float(v) for v in row] for row in predictions],
        }))
    except Exception as e:
        print(json.dumps({"error": str(e)}), file=sys.stderr)
        sys.exit(1)


if __name__ == "__main__":
    main()
`
