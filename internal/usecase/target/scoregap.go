// Package target decides whether a ranked candidate list points at one
// unambiguous catalog item the user most likely meant.
package target

import (
	"github.com/melodex-audio/melodex/internal/domain/candidate"
	"github.com/melodex-audio/melodex/internal/domain/target"
	"github.com/melodex-audio/melodex/internal/normalize"
)

// scoreEpsilon guards the gap-ratio division against a zero top score.
const scoreEpsilon = 1e-9

// Config tunes the score-gap decision.
type Config struct {
	// MinAbsoluteScore is the floor the (possibly boosted) top score must
	// clear before a target is confirmed at all.
	MinAbsoluteScore float64

	// MinScoreGapRatio is the minimum relative gap between the best and
	// second-best candidate. A crowded head means ambiguity.
	MinScoreGapRatio float64

	// ExactMatchBoost is added to the top score when its normalized name
	// equals the normalized query.
	ExactMatchBoost float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MinAbsoluteScore: 0.5,
		MinScoreGapRatio: 0.15,
		ExactMatchBoost:  0.2,
	}
}

// ScoreGap confirms a target when the best candidate both scores high enough
// in absolute terms and clearly separates from the runner-up.
type ScoreGap struct {
	cfg Config
}

// NewScoreGap creates the strategy.
func NewScoreGap(cfg Config) *ScoreGap {
	return &ScoreGap{cfg: cfg}
}

// Identify inspects the ranked candidates of one content type, best first,
// and returns the confirmed target. ok is false when the list is empty or
// the head is too weak or too ambiguous.
func (s *ScoreGap) Identify(query string, ranked []candidate.Candidate) (target.Decision, bool) {
	if len(ranked) == 0 {
		return target.Decision{}, false
	}

	top := ranked[0]
	effective := top.Score()
	if normalize.Name(top.Name()) == normalize.Name(query) {
		effective += s.cfg.ExactMatchBoost
	}
	if effective < s.cfg.MinAbsoluteScore {
		return target.Decision{}, false
	}

	// The gap is measured on raw scores; the exact-match boost only helps a
	// candidate clear the absolute floor, it cannot manufacture separation.
	if len(ranked) > 1 {
		second := ranked[1].Score()
		gap := (top.Score() - second) / maxFloat(top.Score(), scoreEpsilon)
		if gap < s.cfg.MinScoreGapRatio {
			return target.Decision{}, false
		}
	}

	confidence := effective
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return target.New(top.ContentType(), top.ID(), confidence), true
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
