// Package inference runs the pre-trained embedding and prediction graphs.
//
// Graph loading and execution are delegated entirely to the Essentia
// TensorFlow toolchain, executed out of process: an embedded Python helper
// is written into the work directory and run through uvx with pinned
// dependencies. The Go side only builds arguments, enforces the configured
// timeout, and decodes the JSON prediction matrix the helper prints.
package inference
