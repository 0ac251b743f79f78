package aggregate

import (
	"net/netip"
	"reflect"
	"testing"
)

func TestByHostSortsAndPreservesEmpty(t *testing.T) {
	a := netip.MustParseAddr("127.0.0.1")
	b := netip.MustParseAddr("192.168.0.1")

	hosts := []netip.Addr{a, b}
	open := []Endpoint{
		{Addr: a, Port: 443},
		{Addr: a, Port: 22},
		{Addr: a, Port: 80},
	}

	got := ByHost(hosts, open)

	want := map[netip.Addr][]uint16{
		a: {22, 80, 443},
		b: {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestByHostNoOpenPorts(t *testing.T) {
	a := netip.MustParseAddr("10.0.0.1")
	got := ByHost([]netip.Addr{a}, nil)
	if ports, ok := got[a]; !ok || len(ports) != 0 {
		t.Fatalf("expected empty but present slice for %v, got %v (ok=%v)", a, ports, ok)
	}
}
