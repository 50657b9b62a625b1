// Package fingerprint implements similarity fingerprints for typo-tolerant
// name matching. Every word of a name gets a 256-bit simhash built from its
// character n-grams; names are compared by the hamming distance between
// their closest word pairs, so a one-letter typo moves the score only a
// little while an unrelated name lands far away.
package fingerprint

import (
	"crypto/sha256"
	"math/bits"
	"strings"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/melodex-audio/melodex/internal/normalize"
)

const (
	// Bits is the fingerprint width in bits.
	Bits = 256

	// MaxDistance is the distance reported when no comparison is possible,
	// e.g. one side has no words.
	MaxDistance = float64(Bits)

	gramLen  = 3
	gramStep = 2
)

// Fingerprint is a 256-bit word fingerprint.
type Fingerprint [4]uint64

// Hamming returns the number of differing bits between f and other.
func (f Fingerprint) Hamming(other Fingerprint) int {
	d := 0
	for i := range f {
		d += bits.OnesCount64(f[i] ^ other[i])
	}
	return d
}

// wordFingerprint simhashes a single word: each character n-gram votes its
// SHA-256 bits up or down, and the majority wins per bit position.
func wordFingerprint(word string) Fingerprint {
	var votes [Bits]int
	for _, gram := range grams(word) {
		sum := sha256.Sum256([]byte(gram))
		for i := 0; i < Bits; i++ {
			if sum[i/8]&(1<<(uint(i)%8)) != 0 {
				votes[i]++
			} else {
				votes[i]--
			}
		}
	}
	var fp Fingerprint
	for i, v := range votes {
		if v > 0 {
			fp[i/64] |= 1 << (uint(i) % 64)
		}
	}
	return fp
}

// grams slides a window of gramLen runes over the word, advancing gramStep
// runes at a time so neighboring grams overlap by one rune. Words shorter
// than the window yield themselves as a single gram.
func grams(word string) []string {
	r := []rune(word)
	if len(r) <= gramLen {
		return []string{word}
	}
	var out []string
	for i := 0; i < len(r); i += gramStep {
		end := i + gramLen
		if end > len(r) {
			end = len(r)
		}
		out = append(out, string(r[i:end]))
		if end == len(r) {
			break
		}
	}
	return out
}

// Print is the fingerprint of a whole name: one Fingerprint per word of the
// normalized text.
type Print struct {
	words []Fingerprint
}

// New segments name into words after normalization and fingerprints each.
func New(name string) Print {
	text := normalize.Name(name)
	var fps []Fingerprint
	toks := words.FromString(text)
	for toks.Next() {
		w := strings.TrimSpace(toks.Value())
		if w == "" {
			continue
		}
		fps = append(fps, wordFingerprint(w))
	}
	return Print{words: fps}
}

// Empty reports whether the print carries no words.
func (p Print) Empty() bool { return len(p.words) == 0 }

// Words returns the number of word fingerprints in the print.
func (p Print) Words() int { return len(p.words) }

// Distance scores how far item is from the query q. Each item word is
// matched against its closest query word and the hammings are averaged, so
// matching any word of a multi-word name counts. When the query has more
// words than the item, the distance grows by 10% per unmatched query word;
// a one-word query should not land squarely on every one-word name.
func (q Print) Distance(item Print) float64 {
	if len(q.words) == 0 || len(item.words) == 0 {
		return MaxDistance
	}
	total := 0.0
	for _, iw := range item.words {
		best := Bits
		for _, qw := range q.words {
			if d := iw.Hamming(qw); d < best {
				best = d
			}
		}
		total += float64(best)
	}
	avg := total / float64(len(item.words))
	if diff := len(q.words) - len(item.words); diff > 0 {
		avg *= 1 + 0.1*float64(diff)
	}
	if avg > MaxDistance {
		avg = MaxDistance
	}
	return avg
}
