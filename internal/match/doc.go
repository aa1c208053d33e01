// Package match provides header-name comparison for column resolution:
// exact and case-folded equality, word normalization, Levenshtein
// similarity and candidate ranking for "did you mean" suggestions.
//
// Key functions:
//   - Compare: classifies how closely a header cell matches a declared name
//   - Normalize: reduces headers and names to their folded words
//   - Levenshtein: computes edit distance between strings
//   - RankHeaders: ranks header cells by similarity to a declared name
package match
