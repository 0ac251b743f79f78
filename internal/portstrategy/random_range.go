package portstrategy

import (
	"math/rand/v2"

	"github.com/projectdiscovery/ipranger"
)

// randomRange yields a pseudo-random permutation of [start,end] with
// O(1) state. For ranges wide enough for BlackRock's block rounds to be
// meaningful it uses ipranger's BlackRock keyed permutation, the same
// construction naabu wires up for its own port/index shuffling. Very
// small ranges (the BlackRock cipher needs a handful of rounds over a
// range that itself has some width) fall back to a Linear Congruential
// generator with a coprime step, matching the spec's documented
// fallback and the original scanner's own RangeIterator algorithm.
type randomRange struct {
	start, end uint16
}

const blackRockMinSpan = 4

func (r *randomRange) Ports() <-chan uint16 {
	ch := make(chan uint16)
	n := int64(r.end) - int64(r.start) + 1

	go func() {
		defer close(ch)
		if n < blackRockMinSpan {
			lcgPermute(r.start, r.end, ch)
			return
		}
		br := ipranger.NewBlackRock(n, rand.Int64())
		for i := int64(0); i < n; i++ {
			shuffled := br.Shuffle(i)
			ch <- uint16(int64(r.start) + shuffled)
		}
	}()

	return ch
}

// lcgPermute walks [start,end] using a Linear Congruential Generator over
// a coprime step, ported from the original scanner's RangeIterator:
// normalize the range to [0,N), pick a coprime step biased to the middle
// third of N, start at a random offset, and stop once the start is
// revisited.
func lcgPermute(start, end uint16, ch chan<- uint16) {
	normalizedEnd := uint32(end) - uint32(start) + 1
	if normalizedEnd == 0 {
		return
	}
	if normalizedEnd == 1 {
		ch <- start
		return
	}

	step := coprimeStep(normalizedEnd)
	firstPick := uint32(rand.IntN(int(normalizedEnd)))
	pick := firstPick

	for {
		ch <- start + uint16(pick)
		pick = (pick + step) % normalizedEnd
		if pick == firstPick {
			return
		}
	}
}

// coprimeStep finds a step coprime to n, biased to the middle third of
// [0,n) for better inter-sample spacing. Falls back to n-1 (always
// coprime) after a bounded number of failed attempts.
func coprimeStep(n uint32) uint32 {
	lower := n / 3
	upper := n - lower
	if upper <= lower {
		return n - 1
	}

	for i := 0; i < 10; i++ {
		candidate := lower + uint32(rand.IntN(int(upper-lower)))
		if candidate == 0 {
			continue
		}
		if gcd(n, candidate) == 1 {
			return candidate
		}
	}
	return n - 1
}

func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
