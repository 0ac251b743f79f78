// Package aggregate groups scan results by host for presentation.
package aggregate

import (
	"net/netip"
	"sort"
)

// Endpoint is a single probed (address, port) pair that was found open.
type Endpoint struct {
	Addr netip.Addr
	Port uint16
}

// ByHost groups endpoints by address, with each address's ports sorted
// ascending. Every address in hosts is present in the result, even if
// no endpoint for it appears in open (an empty, non-nil slice).
func ByHost(hosts []netip.Addr, open []Endpoint) map[netip.Addr][]uint16 {
	grouped := make(map[netip.Addr][]uint16, len(hosts))
	for _, h := range hosts {
		grouped[h] = []uint16{}
	}

	for _, e := range open {
		grouped[e.Addr] = append(grouped[e.Addr], e.Port)
	}

	for addr, ports := range grouped {
		sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
		grouped[addr] = ports
	}

	return grouped
}
