// Package portstrategy builds the ordered sequence of ports a scan probes,
// from either an inclusive range or an explicit list, in serial or
// pseudo-random order.
package portstrategy

import (
	"math/rand/v2"
)

// Order selects whether ports are probed ascending or pseudo-randomly.
type Order int

const (
	OrderSerial Order = iota
	OrderRandom
)

// Range is an inclusive port range, 1 <= Start <= End <= 65535.
type Range struct {
	Start uint16
	End   uint16
}

// Spec is the mutually-exclusive union of a Range or an explicit List.
// Exactly one of the two is populated; List takes precedence when both
// are set, matching the CLI's "ports overrides range" contract.
type Spec struct {
	Range Range
	List  []uint16
}

// DefaultRange is used when neither a range nor a list is given.
var DefaultRange = Range{Start: 1, End: 65535}

// HasList reports whether the spec carries an explicit port list.
func (s Spec) HasList() bool {
	return len(s.List) > 0
}

// Strategy produces the configured ports exactly once each, in the order
// determined at construction time.
type Strategy interface {
	// Ports returns a channel yielding each configured port exactly once.
	// The channel is closed once exhausted; Ports must not be called more
	// than once on the same Strategy.
	Ports() <-chan uint16
}

// Build picks the concrete Strategy for the given spec and order, per the
// table: (Range,Serial) -> ascending, (Range,Random) -> BlackRock/LCG
// permutation, (List,Serial) -> given order, (List,Random) -> shuffled.
func Build(spec Spec, order Order) Strategy {
	if spec.HasList() {
		ports := append([]uint16(nil), spec.List...)
		if order == OrderRandom {
			shuffle(ports)
		}
		return &explicitList{ports: ports}
	}

	r := spec.Range
	if r == (Range{}) {
		r = DefaultRange
	}
	if order == OrderSerial {
		return &serialRange{start: r.Start, end: r.End}
	}
	return &randomRange{start: r.Start, end: r.End}
}

// explicitList replays a fixed slice of ports, already in final order.
type explicitList struct {
	ports []uint16
}

func (e *explicitList) Ports() <-chan uint16 {
	ch := make(chan uint16)
	go func() {
		defer close(ch)
		for _, p := range e.ports {
			ch <- p
		}
	}()
	return ch
}

// serialRange yields start..end ascending.
type serialRange struct {
	start, end uint16
}

func (s *serialRange) Ports() <-chan uint16 {
	ch := make(chan uint16)
	go func() {
		defer close(ch)
		for p := uint32(s.start); p <= uint32(s.end); p++ {
			ch <- uint16(p)
		}
	}()
	return ch
}

// shuffle performs a Fisher-Yates shuffle with the standard library's
// top-level generator, matching the original's "Manual ports, Random
// order" path (there, rand.thread_rng().shuffle).
func shuffle(ports []uint16) {
	rand.Shuffle(len(ports), func(i, j int) {
		ports[i], ports[j] = ports[j], ports[i]
	})
}
