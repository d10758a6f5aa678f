// Package textutil provides the text primitives shared by the clip matcher:
// comparison normalization, edit-distance similarity, token fingerprints, and
// filename sanitization.
//
// Normalize is the single canonical form used everywhere words are compared.
// It lowercases, strips sentence punctuation and quote marks, and collapses
// whitespace, so the same function must be applied to both transcript words
// and curated quotes before scoring.
package textutil
