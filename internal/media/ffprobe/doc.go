// Package ffprobe shells out to ffprobe for container inspection and tag
// extraction.
//
// Audio decoding and tag parsing are delegated entirely to ffprobe; this
// package only builds the invocation, decodes the JSON payload, and flattens
// metadata tags into the key/value form the analyzer exposes.
package ffprobe
