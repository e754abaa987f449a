package textutil

import "strings"

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Score computes a similarity score between two title strings in [0, 1].
// The score is symmetric, insensitive to case, punctuation, and word order,
// and equals 1 for identical inputs. Titles sharing no tokens score 0.
func Score(a, b string) float64 {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return 1
	}
	fa := NewFingerprint(a)
	fb := NewFingerprint(b)
	if fa == nil || fb == nil {
		return 0
	}
	score := CosineSimilarity(fa, fb)
	if score > 1 {
		return 1
	}
	return score
}
