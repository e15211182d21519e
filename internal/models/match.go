package models

// MatchResult is the outcome of resolving free-text input against a catalog.
// The resolver always reports its best candidate; whether the score clears
// the confidence threshold is the caller's decision, keeping the resolver a
// pure ranking function.
type MatchResult struct {
	Query string // Original user input, verbatim
	Name  string // Best-scoring catalog name, "" when candidates were empty
	Score int    // Similarity score, 0–100
}

// Found reports whether the match clears the given confidence threshold.
// A score equal to the threshold is still treated as no match.
func (m MatchResult) Found(threshold int) bool {
	return m.Name != "" && m.Score > threshold
}
