package resolver

import (
	"strings"

	"cinescout/internal/catalog"
	"cinescout/internal/textutil"
)

type scoredCandidate struct {
	filmID    string
	score     float64
	tmdbID    int64
	createdAt int64
}

// bestCandidate scores the normalized title against every candidate text and
// picks the winner. Ties on score prefer films backed by external metadata
// over placeholders, then the most recently created film, so repeat
// resolutions stay deterministic.
func bestCandidate(normalized string, candidates []catalog.MatchCandidate) *scoredCandidate {
	query := textutil.NewFingerprint(normalized)
	var best *scoredCandidate
	for _, candidate := range candidates {
		if candidate.Text == "" {
			continue
		}
		text := textutil.NormalizeTitle(candidate.Text)
		var score float64
		if strings.EqualFold(text, normalized) {
			score = 1
		} else {
			score = textutil.CosineSimilarity(query, textutil.NewFingerprint(text))
			if score > 1 {
				score = 1
			}
		}
		scored := &scoredCandidate{
			filmID:    candidate.FilmID,
			score:     score,
			tmdbID:    candidate.TMDBID,
			createdAt: candidate.CreatedAt.UnixNano(),
		}
		if best == nil || scored.beats(best) {
			best = scored
		}
	}
	return best
}

func (c *scoredCandidate) beats(other *scoredCandidate) bool {
	if c.score != other.score {
		return c.score > other.score
	}
	if (c.tmdbID != 0) != (other.tmdbID != 0) {
		return c.tmdbID != 0
	}
	return c.createdAt > other.createdAt
}
