// Package render turns text plus a span list into styled output.
//
// Every renderer walks highlight.Segments and never changes the spans it
// is given. Each term kind has its own style; kinds without one use the
// search style. Renderers that need host-side styles declare them through
// StyleRules, and Document embeds them in a standalone HTML page exactly
// once.
package render
