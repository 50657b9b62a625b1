package rank

import (
	"fmt"

	"github.com/melodex-audio/melodex/internal/domain"
)

// Engine names accepted by NewEngine.
const (
	EngineFingerprint = "fingerprint"
	EngineExact       = "exact"
)

// NewEngine selects a ranking engine by name.
func NewEngine(name string, weights Weights) (Engine, error) {
	switch name {
	case EngineFingerprint:
		return NewFingerprintEngine(weights), nil
	case EngineExact:
		return NewExactEngine(weights), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEngine, name)
	}
}
