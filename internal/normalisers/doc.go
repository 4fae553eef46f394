// Package normalisers provides implementations of the Normaliser interface
// for various document formats. Each normaliser knows how to extract text
// content from a specific MIME type.
//
// Normalisers are registered with a Registry at startup. The registry picks
// the highest-priority normaliser for a document's MIME type.
package normalisers
