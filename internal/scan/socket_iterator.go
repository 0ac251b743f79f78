package scan

import "net/netip"

// socketIterator walks every (ip, port) combination exactly once,
// port-major: every ip is visited for the current port before the
// port advances. State is two indices, independent of how many
// combinations remain. Not safe for concurrent use and not
// restartable once exhausted.
type socketIterator struct {
	ips  []netip.Addr
	ports []uint16

	ipIdx, ipLen     int
	portIdx, portLen int
}

func newSocketIterator(ips []netip.Addr, ports []uint16) *socketIterator {
	return &socketIterator{
		ips:     ips,
		ports:   ports,
		ipLen:   len(ips),
		portLen: len(ports),
	}
}

// next returns the next endpoint, or ok=false once every combination
// has been produced exactly once.
func (s *socketIterator) next() (Endpoint, bool) {
	if s.portIdx == s.portLen || s.ipLen == 0 {
		return Endpoint{}, false
	}

	s.ipIdx %= s.ipLen
	ep := Endpoint{Addr: s.ips[s.ipIdx], Port: s.ports[s.portIdx]}
	s.ipIdx++

	if s.ipIdx == s.ipLen {
		s.portIdx++
	}

	return ep, true
}
