package rank

// Weights tunes the ranking stages. Zero values are not usable; start from
// DefaultWeights and override.
type Weights struct {
	// PopularityWeight scales the popularity multiplier in the first stage:
	// score1 = proximity * (1 + popularity*PopularityWeight). Zero disables
	// popularity entirely.
	PopularityWeight float64

	// ShortQueryThreshold is the maximum query rune length (after
	// normalization) at which the trigram boost stage runs. Longer queries
	// discriminate well enough on fingerprints alone.
	ShortQueryThreshold int

	// TrigramBoostFactor scales the containment boost added in the second
	// stage for short queries.
	TrigramBoostFactor float64

	// Stage limits narrow the candidate set between stages.
	Stage1Limit int
	Stage2Limit int
	Stage3Limit int

	// EditWeight scales the edit-distance penalty in the final stage:
	// score3 = score2 * (1 - normalizedEditDistance*EditWeight).
	EditWeight float64
}

// DefaultWeights returns the production defaults.
func DefaultWeights() Weights {
	return Weights{
		PopularityWeight:    0,
		ShortQueryThreshold: 10,
		TrigramBoostFactor:  0.5,
		Stage1Limit:         500,
		Stage2Limit:         200,
		Stage3Limit:         50,
		EditWeight:          0.8,
	}
}
