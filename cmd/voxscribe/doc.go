// Command voxscribe transcribes an audio file and prints a cleaned-up
// transcript on stdout. Progress and diagnostics go to stderr, so the output
// can be piped straight into another program.
//
//	voxscribe [--alt-mode] [--config FILE] [--log-level LEVEL] <audio-file-path>
package main
