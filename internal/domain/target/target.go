package target

import "github.com/melodex-audio/melodex/internal/domain"

// Decision is a confirmed search target for one content type: the item the
// user is almost certainly looking for, with a reporting confidence.
type Decision struct {
	contentType domain.ContentType
	itemID      string
	confidence  float64
}

// New creates a target decision.
func New(ct domain.ContentType, itemID string, confidence float64) Decision {
	return Decision{contentType: ct, itemID: itemID, confidence: confidence}
}

// ContentType returns the content type the decision applies to.
func (d *Decision) ContentType() domain.ContentType { return d.contentType }

// ItemID returns the confirmed target item.
func (d *Decision) ItemID() string { return d.itemID }

// Confidence returns the decision confidence, clamped to [0,1].
func (d *Decision) Confidence() float64 { return d.confidence }
