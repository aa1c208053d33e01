package match

import (
	"sort"
	"strings"
)

// Candidate is a header cell considered as the column for a declared name.
type Candidate struct {
	// Header is the header cell text.
	Header string
	// Column is the zero-based column index of the header cell.
	Column int

	// NameScore is the normalized Levenshtein similarity (0-1).
	NameScore float64

	// Metadata for debugging/explanation
	NormalizedHeader string
	NormalizedName   string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankHeaders scores every non-blank header against name.
// Returns candidates sorted by score (descending), then by column.
func RankHeaders(name string, headers []string) CandidateList {
	var candidates CandidateList

	nameNorm := Normalize(name)
	nameNormStripped := NormalizeLoose(name)

	for col, header := range headers {
		if strings.TrimSpace(header) == "" {
			continue
		}

		headerNorm := Normalize(header)

		// use max of regular and suffix-stripped
		score := LevenshteinNormalized(headerNorm, nameNorm)
		if stripped := LevenshteinNormalized(NormalizeLoose(header), nameNormStripped); stripped > score {
			score = stripped
		}

		candidates = append(candidates, Candidate{
			Header:           header,
			Column:           col,
			NameScore:        score,
			NormalizedHeader: headerNorm,
			NormalizedName:   nameNorm,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n header texts that resemble name closely enough to
// be offered as "did you mean" hints.
func Suggest(name string, headers []string, n int) []string {
	var out []string

	for _, c := range RankHeaders(name, headers).AboveThreshold(DefaultSuggestScore).Top(n) {
		out = append(out, c.Header)
	}

	return out
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by column for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].NameScore != c[j].NameScore {
		return c[i].NameScore > c[j].NameScore
	}

	return c[i].Column < c[j].Column
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with score at or above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.NameScore >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

const (
	// DefaultSuggestScore is the minimum similarity for a suggestion.
	DefaultSuggestScore = 0.5
	// DefaultSuggestions is how many suggestions a diagnostic carries.
	DefaultSuggestions = 3
)
