package retriever

import (
	"math"

	"codeberg.org/careerintel/server/internal/index"
)

// rerankMMR selects up to k matches by maximal marginal relevance:
// each round picks the candidate maximizing
//
//	lambda*sim(query, c) - (1-lambda)*max sim(c, selected)
//
// so near-duplicate chunks score low once one of them is in. Ties keep
// the earlier candidate, which preserves the similarity ordering the
// store returned.
func rerankMMR(queryVec []float32, candidates []index.Match, k int, lambda float64) []index.Match {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	if k > len(candidates) {
		k = len(candidates)
	}

	selected := make([]index.Match, 0, k)
	remaining := make([]index.Match, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)

		for i, cand := range remaining {
			score := lambda * cand.Similarity

			if len(selected) > 0 {
				maxSim := math.Inf(-1)

				for _, sel := range selected {
					if sim := cosineSimilarity(cand.Chunk.Embedding, sel.Chunk.Embedding); sim > maxSim {
						maxSim = sim
					}
				}

				score -= (1 - lambda) * maxSim
			}

			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
