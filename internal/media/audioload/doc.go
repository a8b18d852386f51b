// Package audioload prepares audio for the inference runner.
//
// Decoding and resampling are delegated entirely to ffmpeg: the package
// transcodes an arbitrary input file into a mono float PCM WAV at the
// configured sample rate, written into the work directory. The models only
// ever see this normalized form.
package audioload
