package scan

import (
	"net/netip"
	"testing"
)

func TestSocketIteratorGoesThroughEveryCombination(t *testing.T) {
	ips := []netip.Addr{
		netip.MustParseAddr("127.0.0.1"),
		netip.MustParseAddr("192.168.0.1"),
	}
	ports := []uint16{22, 80, 443}
	it := newSocketIterator(ips, ports)

	want := []Endpoint{
		{Addr: ips[0], Port: ports[0]},
		{Addr: ips[1], Port: ports[0]},
		{Addr: ips[0], Port: ports[1]},
		{Addr: ips[1], Port: ports[1]},
		{Addr: ips[0], Port: ports[2]},
		{Addr: ips[1], Port: ports[2]},
	}

	for i, w := range want {
		got, ok := it.next()
		if !ok {
			t.Fatalf("step %d: iterator exhausted early", i)
		}
		if got != w {
			t.Fatalf("step %d: got %+v, want %+v", i, got, w)
		}
	}

	if _, ok := it.next(); ok {
		t.Fatalf("expected iterator exhausted after all combinations")
	}
}

func TestSocketIteratorEmptyInputs(t *testing.T) {
	it := newSocketIterator(nil, []uint16{80})
	if _, ok := it.next(); ok {
		t.Fatalf("expected no endpoints with zero ips")
	}

	it = newSocketIterator([]netip.Addr{netip.MustParseAddr("10.0.0.1")}, nil)
	if _, ok := it.next(); ok {
		t.Fatalf("expected no endpoints with zero ports")
	}
}
