package carousel

import "math/rand"

// selector picks the next content unit uniformly at random while
// avoiding the most recently shown ones.
type selector struct {
	rng     *rand.Rand
	history []int
	k       int
}

func newSelector(k int, rng *rand.Rand) *selector {
	return &selector{rng: rng, k: k}
}

// record notes that the unit at idx is showing, evicting the oldest
// history entry once the window overflows.
func (s *selector) record(idx int) {
	if s.k <= 0 {
		return
	}
	s.history = append(s.history, idx)
	if len(s.history) > s.k {
		s.history = s.history[1:]
	}
}

// next chooses a unit index out of total, excluding recent history.
// When every unit is recent (only possible with total at or below the
// window), history resets to the single most recent entry and the
// selection retries, so small collections rotate instead of
// deadlocking.
func (s *selector) next(total int) int {
	if total < 1 {
		return 0
	}

	candidates := s.candidates(total)
	if len(candidates) == 0 && len(s.history) > 0 {
		s.history = []int{s.history[len(s.history)-1]}
		candidates = s.candidates(total)
	}

	var pick int
	if len(candidates) == 0 {
		// A single-unit collection has nothing else to offer.
		pick = s.rng.Intn(total)
	} else {
		pick = candidates[s.rng.Intn(len(candidates))]
	}
	s.record(pick)
	return pick
}

func (s *selector) candidates(total int) []int {
	recent := make(map[int]bool, len(s.history))
	for _, h := range s.history {
		recent[h] = true
	}
	out := make([]int, 0, total)
	for i := 0; i < total; i++ {
		if !recent[i] {
			out = append(out, i)
		}
	}
	return out
}
