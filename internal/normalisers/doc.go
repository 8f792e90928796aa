// Package normalisers provides implementations of the Normaliser interface
// for markup and container formats. Each normaliser extracts the readable
// text of one format before the document is shingled.
//
// Normalisers are registered by file extension with a Registry at startup.
package normalisers
