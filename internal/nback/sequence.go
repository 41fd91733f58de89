// Package nback implements the N-back game core: stimulus sequence
// generation with a controlled match ratio, the timed playback loop, and
// match evaluation and scoring. It has no Bubble Tea dependency; the
// presentation layer observes State snapshots and calls the match checks.
package nback

import (
	"math/rand"
)

// maxDistinctAttempts bounds the regeneration loop in GenerateDistinct.
const maxDistinctAttempts = 10000

// Sequence is an ordered list of stimulus values, each in [1, combinations].
type Sequence []int

// Equal reports whether two sequences hold the same values in the same order.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Matches returns the indices i >= n where s[i] == s[i-n].
func (s Sequence) Matches(n int) []int {
	if n < 1 {
		return nil
	}
	var idx []int
	for i := n; i < len(s); i++ {
		if s[i] == s[i-n] {
			idx = append(idx, i)
		}
	}
	return idx
}

// IsMatch reports whether index i repeats the value n steps earlier.
// Indices without a valid reference are never matches.
func (s Sequence) IsMatch(i, n int) bool {
	ref := i - n
	if ref < 0 || i >= len(s) || n < 1 {
		return false
	}
	return s[i] == s[ref]
}

// TargetMatches returns how many eligible positions (index >= nBack) are
// engineered to match: percentMatch% of (size - nBack), rounded half up and
// clamped to the eligible range.
func TargetMatches(size, percentMatch, nBack int) int {
	eligible := size - nBack
	if eligible <= 0 || percentMatch <= 0 {
		return 0
	}
	target := (percentMatch*eligible*2 + 100) / 200
	if target > eligible {
		target = eligible
	}
	return target
}

// ValidateSequenceParams checks the generator's input constraints.
func ValidateSequenceParams(size, combinations, percentMatch, nBack int) error {
	if nBack < 1 {
		return configErr("n_back", nBack, "must be at least 1")
	}
	if size <= nBack {
		return configErr("n_back", nBack, "must be less than sequence length %d", size)
	}
	if combinations < 2 {
		return configErr("combinations", combinations, "need at least 2 symbols")
	}
	if percentMatch < 0 || percentMatch > 100 {
		return configErr("percent_match", percentMatch, "must be within [0, 100]")
	}
	return nil
}

// Generator produces stimulus sequences from an injectable random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator drawing from src.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Generate builds a sequence of exactly size values in which exactly
// TargetMatches(size, percentMatch, nBack) positions repeat the value nBack
// steps earlier. Positions not chosen as matches are drawn so they differ
// from their N-back reference, so accidental repeats never inflate the count.
func (g *Generator) Generate(size, combinations, percentMatch, nBack int) (Sequence, error) {
	if err := ValidateSequenceParams(size, combinations, percentMatch, nBack); err != nil {
		return nil, err
	}

	seq := make(Sequence, size)

	// The first nBack positions have no reference
	for i := 0; i < nBack; i++ {
		seq[i] = g.rng.Intn(combinations) + 1
	}

	eligible := size - nBack
	target := TargetMatches(size, percentMatch, nBack)

	// Pick target distinct eligible offsets uniformly without replacement
	designated := make(map[int]bool, target)
	for _, off := range g.rng.Perm(eligible)[:target] {
		designated[nBack+off] = true
	}

	for i := nBack; i < size; i++ {
		ref := seq[i-nBack]
		if designated[i] {
			seq[i] = ref
			continue
		}
		seq[i] = g.drawExcluding(combinations, ref)
	}

	return seq, nil
}

// GenerateDistinct generates sequences with the same parameters until one is
// not identical to first.
func (g *Generator) GenerateDistinct(first Sequence, size, combinations, percentMatch, nBack int) (Sequence, error) {
	for attempt := 0; attempt < maxDistinctAttempts; attempt++ {
		seq, err := g.Generate(size, combinations, percentMatch, nBack)
		if err != nil {
			return nil, err
		}
		if !seq.Equal(first) {
			return seq, nil
		}
	}
	return nil, ErrNoDistinctSequence
}

// drawExcluding returns a uniform value in [1, combinations] other than
// exclude. With a single symbol there is nothing to exclude it from.
func (g *Generator) drawExcluding(combinations, exclude int) int {
	if combinations < 2 {
		return g.rng.Intn(combinations) + 1
	}
	v := g.rng.Intn(combinations-1) + 1
	if v >= exclude {
		v++
	}
	return v
}
