// Package audio validates audio artifacts before any network call is made.
//
// A file must exist and be at least MinSize bytes; anything smaller is
// treated as a silent or empty recording.
package audio
