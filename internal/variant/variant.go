// Package variant draws the colour shown as available on each page view.
package variant

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/xdemocle/victorinox-tomato-knife-shop/internal/catalog"
)

// Selector draws one colour variant per page view. Draws are independent and
// uniform over the catalog; nothing is remembered between requests.
type Selector struct {
	mu       sync.Mutex
	rng      *rand.Rand
	variants []catalog.ColorVariant
}

// NewSelector builds a selector over variants using src as the randomness
// source. A nil src seeds from the clock.
func NewSelector(variants []catalog.ColorVariant, src rand.Source) *Selector {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>32|1)
	}
	cp := make([]catalog.ColorVariant, len(variants))
	copy(cp, variants)
	return &Selector{rng: rand.New(src), variants: cp}
}

// NewSeeded builds a selector whose draws are reproducible for a given seed.
func NewSeeded(variants []catalog.ColorVariant, seed uint64) *Selector {
	return NewSelector(variants, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Pick returns a uniformly chosen variant. With an empty catalog it returns
// the zero variant, which no lookup will match.
func (s *Selector) Pick() catalog.ColorVariant {
	if len(s.variants) == 0 {
		return catalog.ColorVariant{}
	}
	s.mu.Lock()
	idx := s.rng.IntN(len(s.variants))
	s.mu.Unlock()
	return s.variants[idx]
}

// Len reports how many variants the selector draws from.
func (s *Selector) Len() int { return len(s.variants) }
