package domain

import "math"

const (
	MinScore = 0
	MaxScore = 100
)

// ComputeScore returns round(Σ value·weight / Σ weight) clamped to [0,100].
// When the weights sum to zero (no factors, or all weights zero) the
// clamped fallback is returned instead.
func ComputeScore(factors []Factor, fallback int) int {
	var weighted, totalWeight float64
	for _, f := range factors {
		weighted += f.Value * f.Weight
		totalWeight += f.Weight
	}

	if totalWeight <= 0 {
		return ClampScore(fallback)
	}

	return ClampScore(int(math.Round(weighted / totalWeight)))
}

// ClampScore limits score to [MinScore, MaxScore].
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// ApplyScore sets rec.Score from its factors, falling back to the given score.
// Called on the write path before the record reaches the repository.
func ApplyScore(rec *ScoreRecord, fallback int) {
	rec.Score = ComputeScore(rec.Factors, fallback)
}
