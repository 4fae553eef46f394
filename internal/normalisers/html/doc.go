// Package html provides a Normaliser implementation for HTML documents.
// It walks the token stream, keeping visible text with one line per block
// element and dropping scripts, styles and comments.
package html
